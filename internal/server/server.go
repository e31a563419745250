// =============================================================================
// Order Consolidator - HTTP Upload Server
// =============================================================================
//
// This module exposes both pipelines over HTTP for operators who prefer a
// browser upload to the CLI.
//
// ROUTES:
//   GET  /          - index text
//   GET  /health    - liveness probe
//   GET  /takko     - upload form for order exports
//   POST /takko     - consolidate an upload, respond with combined.xlsx
//   GET  /invoice   - upload form for consolidated sheets with tracking numbers
//   POST /invoice   - expand an upload, respond with invoice.xlsx
//
// Uploads are posted as multipart form field "file". Each upload is stored
// under its own name and removed once the response has been built, so
// concurrent requests never see each other's data.
//
// =============================================================================

package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"mime/multipart"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/donghyeon/takkobebe/internal/config"
	"github.com/donghyeon/takkobebe/internal/converter"
	"github.com/donghyeon/takkobebe/internal/manifest"
	"github.com/donghyeon/takkobebe/internal/sheet"
	"github.com/donghyeon/takkobebe/internal/validation"
	"github.com/donghyeon/takkobebe/pkg/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// maxUploadBytes bounds the in-memory part of a multipart upload.
const maxUploadBytes = 32 << 20

var uploadForm = template.Must(template.New("upload").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body>
<h1>{{.Title}}</h1>
<form method="post" enctype="multipart/form-data">
<input type="file" name="file">
<button type="submit">업로드</button>
</form>
</body>
</html>
`))

// errBadUpload marks failures caused by the uploaded content.
var errBadUpload = errors.New("bad upload")

// Server serves the upload endpoints.
type Server struct {
	cfg    *config.Config
	files  *utils.FileManager
	conv   *converter.Converter
	logger *zap.Logger
	router *gin.Engine
}

// NewServer builds the router. Gin's mode is left to the caller.
func NewServer(cfg *config.Config, files *utils.FileManager, conv *converter.Converter, logger *zap.Logger) *Server {
	s := &Server{
		cfg:    cfg,
		files:  files,
		conv:   conv,
		logger: logger,
		router: gin.New(),
	}
	s.router.Use(gin.Recovery(), s.requestLogger())
	s.router.MaxMultipartMemory = maxUploadBytes
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "takko order consolidator")
	})
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	s.router.GET("/takko", s.form("주문 내역 정리"))
	s.router.POST("/takko", s.upload("combined.xlsx", s.conv.Consolidate))
	s.router.GET("/invoice", s.form("송장 번호 일괄등록"))
	s.router.POST("/invoice", s.upload("invoice.xlsx", s.conv.ExpandInvoice))
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens on the configured address until ctx is cancelled, then
// shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.ListenAddr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", s.cfg.ListenAddr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

// =============================================================================
// HANDLERS
// =============================================================================

func (s *Server) form(title string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var buf bytes.Buffer
		if err := uploadForm.Execute(&buf, gin.H{"Title": title}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "render failed"})
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
	}
}

type pipeline func(*sheet.Table) (*sheet.Output, converter.ProcessingStats, error)

// upload stores the posted file, runs fn on it and responds with the
// resulting workbook as attachment name.
func (s *Server) upload(name string, fn pipeline) gin.HandlerFunc {
	return func(c *gin.Context) {
		fh, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "파일을 선택해 주세요."})
			return
		}

		path, err := s.store(fh)
		if err != nil {
			s.writeError(c, err)
			return
		}

		body, err := s.process(fh.Filename, path, fn)
		if err != nil {
			s.writeError(c, err)
			return
		}

		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
		c.Data(http.StatusOK, xlsxContentType, body)
	}
}

// store saves the multipart file under the upload directory.
func (s *Server) store(fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("%w: %w", errBadUpload, err)
	}
	defer f.Close()

	path, err := s.files.SaveUpload(f, fh.Filename)
	if err != nil {
		return "", fmt.Errorf("failed to store upload: %w", err)
	}
	return path, nil
}

// process reads the stored upload at path as a table, runs fn and encodes
// the result. The stored upload is always removed.
func (s *Server) process(filename, path string, fn pipeline) ([]byte, error) {
	defer func() {
		if err := os.Remove(path); err != nil {
			s.logger.Warn("failed to remove upload", zap.String("path", path), zap.Error(err))
		}
	}()

	table, err := sheet.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errBadUpload, err)
	}

	out, stats, err := fn(table)
	if err != nil {
		return nil, err
	}
	s.logger.Info("processed upload",
		zap.String("filename", filename),
		zap.Int("rows", stats.RowsProcessed),
		zap.Int("line_items", stats.LineItemsCreated),
	)

	var buf bytes.Buffer
	if err := sheet.Write(&buf, out); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeError maps err to a status code. Problems with the uploaded content
// are the caller's fault; anything else is ours.
func (s *Server) writeError(c *gin.Context, err error) {
	var (
		schemaErr *validation.SchemaError
		decodeErr *manifest.DecodeError
	)
	switch {
	case errors.As(err, &schemaErr), errors.As(err, &decodeErr), errors.Is(err, errBadUpload):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		s.logger.Error("upload failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "처리 중 오류가 발생했습니다."})
	}
}

// requestLogger logs one line per request.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)),
		)
	}
}
