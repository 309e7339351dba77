package web

import (
	"encoding/base64"
	"fmt"
	"html/template"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/a3tai/aditamento-extractor/internal/export"
	"github.com/a3tai/aditamento-extractor/internal/report"
	"github.com/a3tai/aditamento-extractor/internal/source"
)

// Intake modes accepted by the form and the API
const (
	modeUpload = "upload"
	modeRemote = "remote"
)

// Response types
type failureResponse struct {
	Document   string `json:"document"`
	Type       string `json:"type"`
	Message    string `json:"message"`
	StatusCode int    `json:"status_code,omitempty"`
}

type extractResponse struct {
	ID        string              `json:"id"`
	CreatedAt time.Time           `json:"created_at"`
	Columns   []string            `json:"columns"`
	Rows      []map[string]string `json:"rows"`
	Failures  []failureResponse   `json:"failures"`
}

type remoteResponse struct {
	BaseURL string   `json:"base_url"`
	Names   []string `json:"names"`
}

// handleIndex renders the empty form with every remote document selected.
func (s *Server) handleIndex(c *gin.Context) {
	c.HTML(http.StatusOK, "index", s.newPage(modeUpload, s.service.RemoteNames()))
}

// handleProcess runs the submitted batch and renders the results table.
func (s *Server) handleProcess(c *gin.Context) {
	mode := c.PostForm("mode")
	page := s.newPage(mode, c.PostFormArray("names"))

	batch, err := s.batchFromRequest(c)
	if err != nil {
		appErr := MapError(err)
		page.Error = appErr.Error()
		c.HTML(appErr.Code, "index", page)
		return
	}

	rep := s.service.Process(c.Request.Context(), batch)
	page.Processed = true
	page.Columns = rep.Columns()
	page.Rows = rep.Records()
	page.Failures = rep.Messages()

	if !rep.Empty() {
		for _, f := range []export.Format{export.FormatCSV, export.FormatText} {
			dl, err := s.download(rep, f)
			if err != nil {
				handleError(c, err)
				return
			}
			page.Downloads = append(page.Downloads, dl)
		}
	}

	c.HTML(http.StatusOK, "index", page)
}

// handleRemote lists the documents that can be fetched.
func (s *Server) handleRemote(c *gin.Context) {
	c.JSON(http.StatusOK, remoteResponse{
		BaseURL: s.service.BaseURL(),
		Names:   s.service.RemoteNames(),
	})
}

// handleExtract runs the submitted batch and returns the report as JSON.
func (s *Server) handleExtract(c *gin.Context) {
	batch, err := s.batchFromRequest(c)
	if err != nil {
		handleError(c, err)
		return
	}

	rep := s.service.Process(c.Request.Context(), batch)
	c.JSON(http.StatusOK, newExtractResponse(rep))
}

// handleExport runs the submitted batch and returns the export artifact.
func (s *Server) handleExport(c *gin.Context) {
	format, err := export.ParseFormat(c.Param("format"))
	if err != nil {
		handleError(c, NewAppError(http.StatusBadRequest, "Invalid export format", err))
		return
	}

	batch, err := s.batchFromRequest(c)
	if err != nil {
		handleError(c, err)
		return
	}

	rep := s.service.Process(c.Request.Context(), batch)
	data, err := s.service.Export(rep, format)
	if err != nil {
		handleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", format.FileName()))
	c.Header("X-Report-Id", rep.ID.String())
	c.Header("X-Failed-Documents", fmt.Sprint(rep.Failures.Count()))
	c.Data(http.StatusOK, format.ContentType(), data)
}

// batchFromRequest builds the batch described by the form fields mode,
// files and names.
func (s *Server) batchFromRequest(c *gin.Context) (source.Batch, error) {
	switch mode := c.PostForm("mode"); mode {
	case modeUpload:
		form, err := c.MultipartForm()
		if err != nil {
			return nil, NewAppError(http.StatusBadRequest, "Invalid multipart form", err)
		}

		batch := source.UploadBatch{}
		for _, fh := range form.File["files"] {
			data, err := readUpload(fh)
			if err != nil {
				return nil, NewAppError(http.StatusBadRequest, "Failed to read uploaded file "+fh.Filename, err)
			}
			batch.Files = append(batch.Files, source.Upload{Name: fh.Filename, Data: data})
		}
		return batch, nil
	case modeRemote:
		return source.RemoteSelection{Names: c.PostFormArray("names")}, nil
	default:
		return nil, NewAppError(http.StatusBadRequest, "Invalid mode",
			fmt.Errorf("%w: mode must be %q or %q, got %q", ErrInvalidInput, modeUpload, modeRemote, mode))
	}
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func (s *Server) download(rep *report.Report, format export.Format) (download, error) {
	data, err := s.service.Export(rep, format)
	if err != nil {
		return download{}, fmt.Errorf("failed to export %s: %w", format, err)
	}

	mime := "text/plain"
	if format == export.FormatCSV {
		mime = "text/csv"
	}

	return download{
		Label:    fmt.Sprintf("Baixar %s", format.FileName()),
		FileName: format.FileName(),
		URL: template.URL(fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(data))),
	}, nil
}

func newExtractResponse(rep *report.Report) extractResponse {
	resp := extractResponse{
		ID:        rep.ID.String(),
		CreatedAt: rep.CreatedAt,
		Columns:   rep.Columns(),
		Rows:      make([]map[string]string, 0, rep.Len()),
		Failures:  make([]failureResponse, 0, rep.Failures.Count()),
	}

	for _, row := range rep.Rows {
		cells := make(map[string]string, len(resp.Columns))
		for _, col := range resp.Columns {
			cells[col] = row.Get(col)
		}
		resp.Rows = append(resp.Rows, cells)
	}

	for _, f := range rep.Failures.Errors {
		resp.Failures = append(resp.Failures, failureResponse{
			Document:   f.Document,
			Type:       f.Type.String(),
			Message:    f.Error(),
			StatusCode: f.StatusCode,
		})
	}

	return resp
}

func handleError(c *gin.Context, err error) {
	appErr := MapError(err)
	if appErr.Err != nil {
		c.JSON(appErr.Code, gin.H{"error": appErr.Message, "detail": appErr.Err.Error()})
		return
	}
	c.JSON(appErr.Code, gin.H{"error": appErr.Message})
}
