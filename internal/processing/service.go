package processing

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ohmlab/ohmlab/internal/ingest"
	"github.com/ohmlab/ohmlab/internal/regression"
	"github.com/ohmlab/ohmlab/internal/repository"
	"github.com/ohmlab/ohmlab/internal/storage"
	"github.com/ohmlab/ohmlab/pkg/models"
)

// ProcessingService runs the fit pipeline for uploaded sweeps.
type ProcessingService interface {
	ProcessSweep(ctx context.Context, sweepID uuid.UUID) error
}

type processingService struct {
	s3         storage.S3Service
	repository repository.SweepRepository
}

func NewProcessingService(s3Service storage.S3Service, repo repository.SweepRepository) ProcessingService {
	return &processingService{
		s3:         s3Service,
		repository: repo,
	}
}

// ProcessSweep downloads the uploaded sweep data, parses it, fits the
// least squares line and stores the results. Failures caused by the
// uploaded data mark the sweep failed and return nil; infrastructure
// failures return an error.
func (s *processingService) ProcessSweep(ctx context.Context, sweepID uuid.UUID) error {
	if err := s.repository.UpdateStatus(ctx, sweepID, "processing", 10); err != nil {
		return err
	}

	sweep, err := s.repository.GetByID(ctx, sweepID)
	if err != nil {
		return err
	}
	if sweep.DataS3Key == nil {
		s.repository.UpdateError(ctx, sweepID, "No sweep data uploaded")
		return nil
	}

	if err := s.repository.UpdateStatus(ctx, sweepID, "processing", 25); err != nil {
		return err
	}

	data, err := s.s3.DownloadFile(ctx, *sweep.DataS3Key)
	if err != nil {
		s.repository.UpdateError(ctx, sweepID, "Failed to download sweep data")
		return nil
	}

	if err := s.repository.UpdateStatus(ctx, sweepID, "processing", 50); err != nil {
		return err
	}

	points, err := ingest.Parse(data, contentTypeForKey(*sweep.DataS3Key))
	if err != nil {
		var parseErr *ingest.ParseError
		if errors.As(err, &parseErr) {
			s.repository.UpdateError(ctx, sweepID, fmt.Sprintf("Invalid sweep data: %s", parseErr.Reason))
			return nil
		}
		return err
	}

	if err := s.repository.UpdateStatus(ctx, sweepID, "processing", 75); err != nil {
		return err
	}

	fit := regression.Fit(points)

	results := &models.SweepResults{
		ID:        uuid.New().String(),
		SweepID:   sweep.ID,
		Points:    points,
		CreatedAt: time.Now(),
	}
	if fit.IsFinite() {
		slope := fit.Slope
		intercept := fit.Intercept
		rSquared := fit.RSquared
		results.Slope = &slope
		results.Intercept = &intercept
		results.RSquared = &rSquared
		// Slope can be finite yet zero; keep Inf out of the row.
		if resistance := fit.Resistance(); !math.IsInf(resistance, 0) {
			results.Resistance = &resistance
		}
	} else {
		log.Warn().
			Str("sweepID", sweep.ID).
			Int("points", len(points)).
			Msg("Degenerate sweep, storing points without fit parameters")
	}

	if err := s.repository.UpdateStatus(ctx, sweepID, "processing", 90); err != nil {
		return err
	}

	if err := s.repository.StoreResults(ctx, results); err != nil {
		return err
	}

	return s.repository.UpdateStatus(ctx, sweepID, "completed", 100)
}

// contentTypeForKey maps the stored object key suffix back to the MIME
// type the parser expects. Upload keys are minted with the extension that
// matches the declared MIME type.
func contentTypeForKey(key string) string {
	if strings.HasSuffix(key, ".json") {
		return "application/json"
	}
	return "text/csv"
}
