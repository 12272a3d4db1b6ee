package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/padelhq/padel-data/internal/api/respond"
	"github.com/padelhq/padel-data/internal/auth"
	"github.com/padelhq/padel-data/internal/domain"
)

// UploadVideo accepts a multipart video upload.
// @Summary Upload a padel match video
// @Description Stores the file, creates the video record in UPLOADED status, and schedules background analysis. The response returns before analysis starts.
// @Tags videos
// @Accept mpfd
// @Produce json
// @Param file formData file true "Video file"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} respond.ErrorResponse
// @Failure 401 {object} respond.ErrorResponse
// @Router /videos/upload [post]
func (h *Handler) UploadVideo(w http.ResponseWriter, r *http.Request) {
	current, ok := auth.PlayerFromContext(r.Context())
	if !ok {
		respond.WriteError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "Authentication required")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxFileSizeBytes()+1<<20)
	file, header, err := r.FormFile("file")
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_REQUEST", "No file provided")
		return
	}
	defer file.Close()

	v, err := h.videos.Upload(r.Context(), file, header.Filename, header.Size, current.ID)
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}

	respond.WriteJSONObject(w, http.StatusCreated, map[string]interface{}{
		"id":               v.ID,
		"file_name":        v.FileName,
		"status":           v.Status,
		"upload_timestamp": v.UploadTimestamp,
		"video_length":     v.Duration,
		"message":          "Video uploaded successfully. Analysis will start shortly.",
	})
}

// GetVideo returns one of the caller's videos.
// @Summary Get video status
// @Tags videos
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} respond.ErrorResponse
// @Router /videos/{videoID} [get]
func (h *Handler) GetVideo(w http.ResponseWriter, r *http.Request) {
	current, ok := auth.PlayerFromContext(r.Context())
	if !ok {
		respond.WriteError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "Authentication required")
		return
	}

	videoID, err := pathID(r, "videoID")
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid video id")
		return
	}

	v, err := h.videos.Get(r.Context(), videoID)
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	// Videos are private to their uploader; leak nothing about others'.
	if v.PlayerID != current.ID {
		respond.WriteDomainError(w, domain.ErrVideoNotFound)
		return
	}

	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"id":               v.ID,
		"file_name":        v.FileName,
		"status":           v.Status,
		"upload_timestamp": v.UploadTimestamp,
		"video_length":     v.Duration,
	})
}

// GetVideoAnalysis returns the analysis record for a video.
// @Summary Get analysis for a video
// @Tags videos
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} respond.ErrorResponse
// @Router /videos/{videoID}/analysis [get]
func (h *Handler) GetVideoAnalysis(w http.ResponseWriter, r *http.Request) {
	videoID, err := pathID(r, "videoID")
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid video id")
		return
	}

	a, err := h.analyses.GetAnalysisByVideo(r.Context(), videoID)
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}

	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"id":                 a.ID,
		"player_id":          a.PlayerID,
		"video_id":           a.VideoID,
		"match_id":           a.MatchID,
		"analysis_timestamp": a.AnalysisTimestamp,
	})
}

// GetUploadConfig reports the upload limits.
// @Summary Get upload configuration
// @Description Allowed file formats and size limits.
// @Tags videos
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /videos/config/upload-info [get]
func (h *Handler) GetUploadConfig(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"max_file_size_mb": h.videos.MaxFileSizeMB(),
		"allowed_formats":  h.videos.AllowedFormats(),
	})
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}
