package httpapi

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mikey/netsereno/internal/core"
	"go.uber.org/zap"
)

// multipartMemory is how much of an upload is held in memory before
// spilling to temporary files
const multipartMemory = 8 << 20

// Client-facing error messages
const (
	errNoContent       = "no content provided"
	errUnsupportedFile = "unsupported or corrupt file"
	errTooLarge        = "upload too large"
	errInvalidForm     = "invalid form data"
	errReadUpload      = "failed to read upload"
	errRenderReport    = "failed to render report"
)

//go:embed static/index.html
var indexPage []byte

// reportRequest is the body of POST /download_report
type reportRequest struct {
	Score   *int     `json:"score" binding:"required,min=0,max=100"`
	Verdict string   `json:"verdict" binding:"required"`
	Summary string   `json:"summary"`
	Reasons []string `json:"reasons"`
}

func (s *Server) index(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", indexPage)
}

func (s *Server) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// analyze accepts either a file in "file" or pasted text in "text_content".
// A file with a name takes precedence over text.
func (s *Server) analyze(c *gin.Context) {
	logger := loggerFrom(c, s.logger)

	if c.Request.ContentLength > s.cfg.MaxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": errTooLarge})
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.cfg.MaxUploadBytes)

	if err := c.Request.ParseMultipartForm(multipartMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": errTooLarge})
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidForm})
		return
	}
	if form := c.Request.MultipartForm; form != nil {
		defer func() {
			if err := form.RemoveAll(); err != nil {
				logger.Warn("Failed to remove multipart temp files", zap.Error(err))
			}
		}()
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.cfg.AnalysisTimeout)
	defer cancel()

	if fh := uploadedFile(c.Request.MultipartForm); fh != nil {
		artifact, err := readArtifact(fh)
		if err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errReadUpload})
			return
		}

		analysis, err := s.service.AnalyzeArtifact(ctx, artifact)
		if err != nil {
			var extractionErr *core.ExtractionError
			if errors.As(err, &extractionErr) {
				c.JSON(http.StatusBadRequest, gin.H{"error": errUnsupportedFile})
				return
			}
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, analysis)
		return
	}

	if text := c.Request.PostForm.Get("text_content"); strings.TrimSpace(text) != "" {
		c.JSON(http.StatusOK, s.service.AnalyzeText(ctx, text))
		return
	}

	logger.Debug("Rejected empty analysis request")
	c.JSON(http.StatusBadRequest, gin.H{"error": errNoContent})
}

// uploadedFile returns the "file" upload if one with a non-empty name exists
func uploadedFile(form *multipart.Form) *multipart.FileHeader {
	if form == nil {
		return nil
	}
	files := form.File["file"]
	if len(files) == 0 || files[0].Filename == "" {
		return nil
	}
	return files[0]
}

func readArtifact(fh *multipart.FileHeader) (core.Artifact, error) {
	f, err := fh.Open()
	if err != nil {
		return core.Artifact{}, fmt.Errorf("open upload %q: %w", fh.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return core.Artifact{}, fmt.Errorf("read upload %q: %w", fh.Filename, err)
	}

	return core.Artifact{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

func (s *Server) downloadReport(c *gin.Context) {
	var req reportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record := core.AssessmentRecord{
		Score:   *req.Score,
		Verdict: core.Verdict(req.Verdict),
		Summary: req.Summary,
		Reasons: req.Reasons,
	}

	var buf bytes.Buffer
	if err := s.renderer.Render(&buf, record); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errRenderReport})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", s.renderer.FileName()))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
