package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/ohmlab/ohmlab/internal/repository"
	"github.com/ohmlab/ohmlab/pkg/models"
)

// PostgresSweepRepository implements SweepRepository for PostgreSQL
type PostgresSweepRepository struct {
	db *sql.DB
}

// NewPostgresSweepRepository creates a new PostgreSQL sweep repository
func NewPostgresSweepRepository(db *sql.DB) repository.SweepRepository {
	return &PostgresSweepRepository{db: db}
}

// Create inserts a new sweep record
func (r *PostgresSweepRepository) Create(ctx context.Context, sweep *models.Sweep) error {
	query := `
		INSERT INTO sweeps (id, session_id, device_id, status, progress, data_s3_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		sweep.ID,
		sweep.SessionID,
		sweep.DeviceID,
		sweep.Status,
		sweep.Progress,
		sweep.DataS3Key,
		sweep.CreatedAt,
		sweep.UpdatedAt)

	return err
}

// GetByID retrieves a sweep by ID
func (r *PostgresSweepRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Sweep, error) {
	query := `
		SELECT id, session_id, device_id, status, progress, data_s3_key, error_message, created_at, updated_at, completed_at
		FROM sweeps
		WHERE id = $1`

	var sweep models.Sweep
	var dataS3Key, errorMsg sql.NullString
	var completedAt sql.NullTime

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&sweep.ID,
		&sweep.SessionID,
		&sweep.DeviceID,
		&sweep.Status,
		&sweep.Progress,
		&dataS3Key,
		&errorMsg,
		&sweep.CreatedAt,
		&sweep.UpdatedAt,
		&completedAt)

	if err != nil {
		return nil, err
	}

	if dataS3Key.Valid {
		sweep.DataS3Key = &dataS3Key.String
	}
	if errorMsg.Valid {
		sweep.ErrorMsg = &errorMsg.String
	}
	if completedAt.Valid {
		sweep.CompletedAt = &completedAt.Time
	}

	return &sweep, nil
}

// GetBySessionID retrieves sweeps by session ID
func (r *PostgresSweepRepository) GetBySessionID(ctx context.Context, sessionID string) ([]*models.Sweep, error) {
	query := `
		SELECT id, session_id, device_id, status, progress, data_s3_key, error_message, created_at, updated_at, completed_at
		FROM sweeps
		WHERE session_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sweeps []*models.Sweep
	for rows.Next() {
		var sweep models.Sweep
		var dataS3Key, errorMsg sql.NullString
		var completedAt sql.NullTime

		err := rows.Scan(
			&sweep.ID,
			&sweep.SessionID,
			&sweep.DeviceID,
			&sweep.Status,
			&sweep.Progress,
			&dataS3Key,
			&errorMsg,
			&sweep.CreatedAt,
			&sweep.UpdatedAt,
			&completedAt)

		if err != nil {
			return nil, err
		}

		if dataS3Key.Valid {
			sweep.DataS3Key = &dataS3Key.String
		}
		if errorMsg.Valid {
			sweep.ErrorMsg = &errorMsg.String
		}
		if completedAt.Valid {
			sweep.CompletedAt = &completedAt.Time
		}

		sweeps = append(sweeps, &sweep)
	}

	return sweeps, nil
}

// UpdateStatus updates the status and progress of a sweep
func (r *PostgresSweepRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string, progress int) error {
	query := `
		UPDATE sweeps
		SET status = $1, progress = $2, updated_at = NOW(),
		    completed_at = CASE WHEN $1 = 'completed' THEN NOW() ELSE completed_at END
		WHERE id = $3`

	_, err := r.db.ExecContext(ctx, query, status, progress, id)
	return err
}

// UpdateError updates the error message for a sweep
func (r *PostgresSweepRepository) UpdateError(ctx context.Context, id uuid.UUID, errorMsg string) error {
	query := `
		UPDATE sweeps
		SET status = 'failed', error_message = $1, updated_at = NOW()
		WHERE id = $2`

	_, err := r.db.ExecContext(ctx, query, errorMsg, id)
	return err
}

// StoreResults stores sweep fit results
func (r *PostgresSweepRepository) StoreResults(ctx context.Context, results *models.SweepResults) error {
	points, err := json.Marshal(results.Points)
	if err != nil {
		return fmt.Errorf("failed to marshal points: %w", err)
	}

	query := `
		INSERT INTO sweep_results (id, sweep_id, points, slope, intercept, r_squared, resistance, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err = r.db.ExecContext(ctx, query,
		results.ID,
		results.SweepID,
		string(points),
		results.Slope,
		results.Intercept,
		results.RSquared,
		results.Resistance,
		results.CreatedAt)

	return err
}

// GetResults retrieves sweep fit results
func (r *PostgresSweepRepository) GetResults(ctx context.Context, sweepID uuid.UUID) (*models.SweepResults, error) {
	query := `
		SELECT id, sweep_id, points, slope, intercept, r_squared, resistance, created_at
		FROM sweep_results
		WHERE sweep_id = $1`

	var results models.SweepResults
	var pointsStr sql.NullString
	var slope, intercept, rSquared, resistance sql.NullFloat64

	err := r.db.QueryRowContext(ctx, query, sweepID).Scan(
		&results.ID,
		&results.SweepID,
		&pointsStr,
		&slope,
		&intercept,
		&rSquared,
		&resistance,
		&results.CreatedAt)

	if err != nil {
		return nil, err
	}

	if pointsStr.Valid {
		var points []models.Measurement
		if err := json.Unmarshal([]byte(pointsStr.String), &points); err != nil {
			return nil, fmt.Errorf("failed to unmarshal points: %w", err)
		}
		results.Points = points
	}
	if slope.Valid {
		results.Slope = &slope.Float64
	}
	if intercept.Valid {
		results.Intercept = &intercept.Float64
	}
	if rSquared.Valid {
		results.RSquared = &rSquared.Float64
	}
	if resistance.Valid {
		results.Resistance = &resistance.Float64
	}

	return &results, nil
}
