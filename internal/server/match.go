package server

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/procuredocs/pomatch/constants"
	"github.com/procuredocs/pomatch/internal/common"
	"github.com/procuredocs/pomatch/internal/extract"
)

// matchPair accepts a multipart upload with "po" and "invoice" PDF parts,
// runs the pipeline and returns the verdict plus the full comparison.
func (s *Server) matchPair(c *gin.Context) {
	poHeader, err := c.FormFile("po")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing 'po' file part"})
		return
	}
	invHeader, err := c.FormFile("invoice")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing 'invoice' file part"})
		return
	}

	poPath, err := s.saveUpload(c, poHeader)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer s.removeUpload(poPath)
	invPath, err := s.saveUpload(c, invHeader)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer s.removeUpload(invPath)

	run, err := s.pipeline.Run(c.Request.Context(), poPath, invPath)
	if err != nil {
		s.logger.Error("match run failed",
			"request_id", common.RequestIDFromContext(c.Request.Context()), "error", err)
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "run_id": run.ID})
		return
	}

	// keep the original upload names in the response, not the temp paths
	run.PO.Path = poHeader.Filename
	run.Invoice.Path = invHeader.Filename

	if run.Status == constants.RunStatusInsufficient {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "extraction insufficient, cannot compare",
			"run_id":  run.ID,
			"po":      run.PO,
			"invoice": run.Invoice,
		})
		return
	}
	c.JSON(http.StatusOK, run)
}

// extractFields runs acquisition and field extraction for a single document
// without matching. Useful for previewing what the patterns see in a file.
func (s *Server) extractFields(c *gin.Context) {
	docType, ok := constants.ParseDocType(c.PostForm("doc_type"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "doc_type must be purchase_order or invoice"})
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing 'file' part"})
		return
	}
	path, err := s.saveUpload(c, fh)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer s.removeUpload(path)

	res, err := s.pipeline.Text.Extract(c.Request.Context(), path)
	if err != nil {
		s.logger.Error("text acquisition failed",
			"request_id", common.RequestIDFromContext(c.Request.Context()), "error", err)
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	fields, err := s.pipeline.Fields.Extract(res.Text, docType)
	status := http.StatusOK
	if errors.Is(err, extract.ErrInsufficientFields) {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, gin.H{
		"file":       fh.Filename,
		"doc_type":   docType,
		"method":     res.Method,
		"pages":      res.Pages,
		"confidence": res.Confidence,
		"fields":     fields.Backfill(docType),
	})
}

func (s *Server) saveUpload(c *gin.Context, fh *multipart.FileHeader) (string, error) {
	ext := constants.NormalizeExt(filepath.Ext(fh.Filename))
	if _, ok := constants.AllowedExtensions[ext]; !ok {
		return "", fmt.Errorf("unsupported file extension %q", ext)
	}
	if fh.Size > s.cfg.MaxUploadBytes {
		return "", fmt.Errorf("file %q exceeds upload limit", fh.Filename)
	}
	if err := os.MkdirAll(s.cfg.UploadDir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	name := fmt.Sprintf("%d-%s-%s", time.Now().UnixNano(), uuid.NewString()[:8], filepath.Base(fh.Filename))
	dst := filepath.Join(s.cfg.UploadDir, name)
	if err := c.SaveUploadedFile(fh, dst); err != nil {
		return "", fmt.Errorf("save upload: %w", err)
	}
	return dst, nil
}

func (s *Server) removeUpload(path string) {
	if err := os.Remove(path); err != nil {
		s.logger.Warn("failed to remove upload", "path", path, "error", err)
	}
}

func (s *Server) listRuns(c *gin.Context) {
	limit := 100
	if l := c.Query("limit"); l != "" {
		if _, err := fmt.Sscanf(l, "%d", &limit); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
	}
	runs, err := s.runs.ListRuns(c.Request.Context(), limit)
	if err != nil {
		s.logger.Error("list runs failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list runs"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

func (s *Server) getRun(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid run id"})
		return
	}
	run, err := s.runs.GetRun(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
		return
	}
	c.JSON(http.StatusOK, run)
}

func (s *Server) exportRuns(c *gin.Context) {
	format := strings.ToLower(c.DefaultQuery("format", "csv"))
	switch format {
	case "csv":
		b, err := s.exports.ExportCSV(c.Request.Context(), 0)
		if err != nil {
			s.logger.Error("csv export failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
			return
		}
		c.Header("Content-Disposition", `attachment; filename="matches.csv"`)
		c.Data(http.StatusOK, "text/csv", b)
	case "xlsx":
		b, err := s.exports.ExportXLSX(c.Request.Context(), 0)
		if err != nil {
			s.logger.Error("xlsx export failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
			return
		}
		c.Header("Content-Disposition", `attachment; filename="matches.xlsx"`)
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", b)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be csv or xlsx"})
	}
}
