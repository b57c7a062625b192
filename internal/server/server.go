package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"meterocr/internal/config"
	"meterocr/internal/ocr"
	"meterocr/internal/server/handler"
	"meterocr/internal/server/router"
	"meterocr/internal/server/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const shutdownTimeout = 10 * time.Second

// NewOCRClient builds the OCR service client described by cfg.
func NewOCRClient(cfg config.Config) *ocr.Client {
	client := ocr.NewClient(cfg.OCREndpoint)
	client.APIKey = cfg.OCRAPIKey
	client.Timeout = cfg.OCRTimeout()
	return client
}

// NewHandler builds the full HTTP handler chain for cfg.
func NewHandler(cfg config.Config, log logrus.FieldLogger, ext service.Extractor) http.Handler {
	extractService := service.NewExtractService(ext, cfg.UploadPrefix, log)
	extractHandler := handler.NewExtractHandler(extractService)
	return router.New(log, extractHandler)
}

// Run starts the HTTP server and blocks until ctx is cancelled or the
// listener fails.
func Run(ctx context.Context, cfg config.Config, log *logrus.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Set Gin mode based on environment
	if cfg.Mode == "prod" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           NewHandler(cfg, log, NewOCRClient(cfg)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{
			"addr":         srv.Addr,
			"ocr_endpoint": cfg.OCREndpoint,
			"ocr_timeout":  cfg.OCRTimeout().String(),
		}).Info("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
