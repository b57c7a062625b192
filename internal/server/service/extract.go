package service

import (
	"context"
	"fmt"

	"meterocr/internal/meter"
	"meterocr/internal/ocr"

	"github.com/sirupsen/logrus"
)

// Extractor defines the OCR dependency.
type Extractor interface {
	ExtractFields(ctx context.Context, imageURL string) (meter.FieldMap, error)
}

// Result is the normalized reading returned to callers.
type Result struct {
	FileName      string   `json:"fileName"`
	Values        string   `json:"values"`
	MissingFields []string `json:"missingFields"`
}

// ExtractService relays file names to the OCR service and normalizes the reply.
type ExtractService struct {
	extractor    Extractor
	uploadPrefix string
	log          logrus.FieldLogger
}

// NewExtractService creates ExtractService.
func NewExtractService(ext Extractor, uploadPrefix string, log logrus.FieldLogger) *ExtractService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &ExtractService{extractor: ext, uploadPrefix: uploadPrefix, log: log}
}

// Extract validates fileName, reads the image behind it and returns the
// normalized 7-field record. Missing fields are not an error.
func (s *ExtractService) Extract(ctx context.Context, fileName string) (Result, error) {
	if err := ocr.ValidateFileName(fileName); err != nil {
		return Result{}, err
	}

	imageURL := ocr.BuildImageURL(s.uploadPrefix, fileName)
	log := s.log.WithFields(logrus.Fields{"file": fileName, "image_url": imageURL})
	log.Debug("sending image to ocr service")

	fields, err := s.extractor.ExtractFields(ctx, imageURL)
	if err != nil {
		log.WithError(err).Error("ocr request failed")
		return Result{}, fmt.Errorf("extract %s: %w", fileName, err)
	}

	rec := meter.Normalize(log, fields)
	log.WithField("missing", len(rec.Missing)).Info("ocr fields normalized")

	return Result{
		FileName:      fileName,
		Values:        rec.Joined(),
		MissingFields: rec.Missing,
	}, nil
}
