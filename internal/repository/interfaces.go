package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/ohmlab/ohmlab/pkg/models"
)

// SweepRepository defines the interface for sweep data operations
type SweepRepository interface {
	Create(ctx context.Context, sweep *models.Sweep) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Sweep, error)
	GetBySessionID(ctx context.Context, sessionID string) ([]*models.Sweep, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string, progress int) error
	UpdateError(ctx context.Context, id uuid.UUID, errorMsg string) error
	StoreResults(ctx context.Context, results *models.SweepResults) error
	GetResults(ctx context.Context, sweepID uuid.UUID) (*models.SweepResults, error)
}
