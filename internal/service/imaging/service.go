package imaging

import (
	"context"
	"errors"
	"fmt"

	"github.com/jwalitptl/triage-assistant/internal/backend"
	"github.com/jwalitptl/triage-assistant/internal/model"
	"github.com/jwalitptl/triage-assistant/pkg/logger"
)

const (
	StatusNoImage  = "No image uploaded. Please upload an X-ray image first."
	StatusAnalyzed = "Analysis complete."
)

// ImageAnalyzer describes a radiograph.
type ImageAnalyzer interface {
	AnalyzeImage(ctx context.Context, ep model.Endpoint, image backend.File) (string, error)
}

type ImagingServicer interface {
	AnalyzeXray(ctx context.Context, backends model.Backends, image *backend.File) model.ImageAnalysis
}

type Service struct {
	analyzer ImageAnalyzer
	log      *logger.Logger
}

func NewService(analyzer ImageAnalyzer, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{analyzer: analyzer, log: log}
}

func (s *Service) AnalyzeXray(ctx context.Context, backends model.Backends, image *backend.File) model.ImageAnalysis {
	if image == nil || image.Open == nil {
		return model.ImageAnalysis{Status: StatusNoImage}
	}

	analysis, err := s.analyzer.AnalyzeImage(ctx, backends.MedGemma, *image)
	if err != nil {
		s.log.WithContext(ctx).Error(err, "x-ray analysis failed", "file", image.Name)
		var statusErr *backend.StatusError
		if errors.As(err, &statusErr) {
			return model.ImageAnalysis{Status: fmt.Sprintf("Error: MedGemma API returned status code %d", statusErr.StatusCode)}
		}
		return model.ImageAnalysis{Status: fmt.Sprintf("Error: %v", err)}
	}
	return model.ImageAnalysis{Analysis: analysis, Status: StatusAnalyzed}
}
