package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ohmlab/ohmlab/internal/processing"
	"github.com/ohmlab/ohmlab/internal/regression"
	"github.com/ohmlab/ohmlab/internal/repository"
	"github.com/ohmlab/ohmlab/internal/storage"
	"github.com/ohmlab/ohmlab/pkg/models"
)

// SweepHandler handles sweep-related HTTP requests
type SweepHandler struct {
	repo          repository.SweepRepository
	s3Service     storage.S3Service
	processingSvc processing.ProcessingService
}

// NewSweepHandler creates a new sweep handler
func NewSweepHandler(repo repository.SweepRepository, s3Service storage.S3Service, processingSvc processing.ProcessingService) *SweepHandler {
	return &SweepHandler{
		repo:          repo,
		s3Service:     s3Service,
		processingSvc: processingSvc,
	}
}

// CreateSweep creates a new sweep record and returns an upload URL
func (h *SweepHandler) CreateSweep(ctx context.Context, req *models.CreateSweepRequest) (*models.CreateSweepResponse, error) {
	log.Info().Int64("fileSize", req.Body.FileSize).Str("deviceID", req.Body.DeviceID).Msg("Creating new sweep")

	sweepID := uuid.New()

	if req.Body.FileSize < 10 {
		return nil, huma.Error400BadRequest("Sweep file too small. Export at least two measurement rows.", nil)
	}
	if req.Body.FileSize > 1024*1024 {
		return nil, huma.Error400BadRequest("Sweep file too large. A sweep export should be well under 1 MB.", nil)
	}

	dataKey := fmt.Sprintf("sweeps/%s%s", sweepID, extensionFor(req.Body.MimeType))

	log.Info().Str("dataKey", dataKey).Str("mimeType", req.Body.MimeType).Msg("Generating S3 upload URL")
	uploadURL, err := h.s3Service.GenerateUploadURL(ctx, dataKey, req.Body.MimeType)
	if err != nil {
		if strings.Contains(err.Error(), "invalid content type") {
			return nil, huma.Error400BadRequest("Sweep data format not supported. Export as CSV or JSON.", err)
		}
		return nil, huma.Error400BadRequest("Failed to prepare upload. Please try again.", err)
	}

	sweep := &models.Sweep{
		ID:        sweepID.String(),
		SessionID: req.Body.SessionID,
		DeviceID:  req.Body.DeviceID,
		Status:    "pending",
		Progress:  0,
		DataS3Key: &dataKey,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := h.repo.Create(ctx, sweep); err != nil {
		return nil, huma.Error500InternalServerError("Failed to create sweep", err)
	}
	log.Info().Str("sweepID", sweep.ID).Msg("Sweep record created")

	return &models.CreateSweepResponse{
		Body: models.CreateSweepResponseBody{
			ID:        sweep.ID,
			UploadURL: uploadURL,
			ExpiresIn: int((15 * time.Minute).Seconds()),
		},
	}, nil
}

// GetSweepStatus returns the current status of a sweep
func (h *SweepHandler) GetSweepStatus(ctx context.Context, req *models.GetSweepStatusRequest) (*models.GetSweepStatusResponse, error) {
	sweepID, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid sweep ID", err)
	}

	sweep, err := h.repo.GetByID(ctx, sweepID)
	if err != nil {
		return nil, huma.Error404NotFound("Sweep not found", err)
	}

	message := h.generateStatusMessage(sweep.Status, sweep.Progress)

	var resultsID *string
	if sweep.Status == "completed" {
		results, err := h.repo.GetResults(ctx, sweepID)
		if err == nil && results != nil {
			resultsID = &results.ID
		}
	}

	log.Info().Str("sweepID", sweep.ID).Str("status", sweep.Status).Int("progress", sweep.Progress).Msg("Returning sweep status")
	return &models.GetSweepStatusResponse{
		Body: models.GetSweepStatusResponseBody{
			ID:        sweep.ID,
			Status:    sweep.Status,
			Progress:  sweep.Progress,
			Message:   message,
			ResultsID: resultsID,
		},
	}, nil
}

// GetSweepResults returns the chart payload for a completed sweep: the
// measured points, the best-fit segment and the fit parameters.
func (h *SweepHandler) GetSweepResults(ctx context.Context, req *models.GetSweepResultsRequest) (*models.GetSweepResultsResponse, error) {
	sweepID, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid sweep ID", err)
	}

	sweep, err := h.repo.GetByID(ctx, sweepID)
	if err != nil {
		return nil, huma.Error404NotFound("Sweep not found", err)
	}

	if sweep.Status != "completed" {
		return nil, huma.Error409Conflict("Sweep not yet processed",
			fmt.Errorf("sweep status is %s", sweep.Status))
	}

	results, err := h.repo.GetResults(ctx, sweepID)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to get results", err)
	}

	body := models.GetSweepResultsResponseBody{
		ID:         results.ID,
		DeviceID:   sweep.DeviceID,
		Points:     results.Points,
		Slope:      results.Slope,
		Intercept:  results.Intercept,
		RSquared:   results.RSquared,
		Resistance: results.Resistance,
		Degenerate: results.Slope == nil || results.RSquared == nil,
		CreatedAt:  results.CreatedAt,
	}

	if results.Slope != nil && results.Intercept != nil {
		fit := &regression.FitResult{Slope: *results.Slope, Intercept: *results.Intercept}
		body.Segment = regression.BestFitSegment(results.Points, fit)
	}
	if !body.Degenerate && results.Resistance != nil {
		body.Summary = &models.FitSummary{
			Resistance: regression.FormatQuantity(*results.Resistance),
			Intercept:  regression.FormatQuantity(*results.Intercept),
			RSquared:   regression.FormatRSquared(*results.RSquared),
		}
	}

	return &models.GetSweepResultsResponse{Body: body}, nil
}

// StartProcessing starts processing an uploaded sweep
func (h *SweepHandler) StartProcessing(ctx context.Context, req *models.StartProcessingRequest) (*models.StartProcessingResponse, error) {
	log.Info().Str("sweepID", req.ID).Msg("Processing start request received")
	sweepID, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid sweep ID", err)
	}

	_, err = h.repo.GetByID(ctx, sweepID)
	if err != nil {
		return nil, huma.Error404NotFound("Sweep not found", err)
	}

	log.Info().Str("sweepID", sweepID.String()).Msg("Starting background processing goroutine")
	go func() {
		err := h.processingSvc.ProcessSweep(context.Background(), sweepID)
		if err != nil {
			h.repo.UpdateError(context.Background(), sweepID, fmt.Sprintf("Processing failed: %v", err))
		}
	}()

	return &models.StartProcessingResponse{
		Body: struct {
			Message string `json:"message" doc:"Confirmation message"`
		}{
			Message: "Processing started successfully",
		},
	}, nil
}

// generateStatusMessage creates a human-readable status message
func (h *SweepHandler) generateStatusMessage(status string, progress int) string {
	switch status {
	case "pending":
		return "Sweep queued for processing..."
	case "processing":
		if progress < 25 {
			return "Starting processing..."
		} else if progress < 50 {
			return "Downloading sweep data..."
		} else if progress < 90 {
			return "Fitting least squares line..."
		} else {
			return "Storing results..."
		}
	case "completed":
		return "Sweep analysis complete!"
	case "failed":
		return "Sweep analysis failed. Please try again."
	default:
		return "Unknown status"
	}
}

// extensionFor maps a declared MIME type to the object key extension the
// processing pipeline recognizes.
func extensionFor(mimeType string) string {
	if mimeType == "application/json" {
		return ".json"
	}
	return ".csv"
}
