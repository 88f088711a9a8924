package server

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-screener/internal/batch"
	"resume-screener/internal/ingest"
	"resume-screener/internal/pipeline"
	"resume-screener/internal/score"
	"resume-screener/internal/shared/server/respond"
)

const maxBatchSize = 50 << 20 // 50MB across all files

// Handler wires screening routes to the pipeline.
type Handler struct {
	Orch          *pipeline.Orchestrator
	DefaultJobURL string
}

// NewHandler constructs a Handler.
func NewHandler(orch *pipeline.Orchestrator, defaultJobURL string) *Handler {
	return &Handler{Orch: orch, DefaultJobURL: defaultJobURL}
}

// RegisterRoutes attaches screening routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/screen", h.screen)
	rg.POST("/screen/resume", h.resume)
}

type screenResponse struct {
	BatchTimestamp string                   `json:"batch_timestamp"`
	Completed      bool                     `json:"completed"`
	Items          map[string]batch.Item    `json:"items"`
	Scores         map[string]*score.Result `json:"scores,omitempty"`
}

// screen runs one full batch: multipart files plus a job posting URL.
func (h *Handler) screen(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBatchSize)

	form, err := c.MultipartForm()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "multipart form is required", nil)
		return
	}

	jobURL := h.jobURL(c)
	if jobURL == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "job_url is required", nil)
		return
	}

	var uploads []ingest.Upload
	for _, fh := range form.File["files"] {
		f, err := fh.Open()
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read "+fh.Filename, nil)
			return
		}
		content, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read "+fh.Filename, nil)
			return
		}
		uploads = append(uploads, ingest.Upload{Name: fh.Filename, Content: content})
	}
	if len(uploads) == 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "at least one file is required", nil)
		return
	}

	out := h.Orch.Run(c.Request.Context(), uploads, jobURL)
	respond.OK(c, toResponse(out))
}

// resume reruns extraction and scoring from the latest checkpoint.
func (h *Handler) resume(c *gin.Context) {
	jobURL := h.jobURL(c)
	if jobURL == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "job_url is required", nil)
		return
	}

	out := h.Orch.Resume(c.Request.Context(), jobURL)
	respond.OK(c, toResponse(out))
}

func (h *Handler) jobURL(c *gin.Context) string {
	if url := strings.TrimSpace(c.PostForm("job_url")); url != "" {
		return url
	}
	if url := strings.TrimSpace(c.Query("job_url")); url != "" {
		return url
	}
	return h.DefaultJobURL
}

func toResponse(out *pipeline.Outcome) screenResponse {
	return screenResponse{
		BatchTimestamp: out.Batch.Timestamp.Format(batch.TimestampFormat),
		Completed:      out.Batch.OK(),
		Items:          out.Batch.Items.Snapshot(),
		Scores:         out.Verdicts,
	}
}
