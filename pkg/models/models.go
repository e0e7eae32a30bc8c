package models

import (
	"time"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Body struct {
		Status  string    `json:"status" example:"healthy" doc:"Service health status"`
		Version string    `json:"version" example:"1.0.0" doc:"API version"`
		Time    time.Time `json:"time" doc:"Current server time"`
	}
}

// CreateSweepRequest represents a request to register a new I-V sweep upload
type CreateSweepRequest struct {
	Body struct {
		SessionID string `json:"session_id" minLength:"10" maxLength:"50" required:"true" doc:"Client session identifier"`
		DeviceID  string `json:"device_id" required:"true" doc:"Device under test label (e.g. 'resistor_47ohm')"`
		FileSize  int64  `json:"file_size" minimum:"10" maximum:"1048576" required:"true" doc:"Sweep data file size in bytes"`
		MimeType  string `json:"mime_type" enum:"text/csv,application/json" required:"true" doc:"Sweep data file MIME type"`
	}
}

// CreateSweepResponseBody is the body of the create sweep response
type CreateSweepResponseBody struct {
	ID        string `json:"id" doc:"Sweep unique identifier"`
	UploadURL string `json:"upload_url" doc:"Pre-signed S3 URL for file upload"`
	ExpiresIn int    `json:"expires_in" doc:"URL expiration time in seconds"`
}

// CreateSweepResponse represents the response from creating a sweep
type CreateSweepResponse struct {
	Body CreateSweepResponseBody
}

// GetSweepStatusRequest represents a request to get sweep status
type GetSweepStatusRequest struct {
	ID string `path:"id" doc:"Sweep ID"`
}

// GetSweepStatusResponseBody is the body of the status response
type GetSweepStatusResponseBody struct {
	ID        string  `json:"id" doc:"Sweep ID"`
	Status    string  `json:"status" enum:"pending,processing,completed,failed" doc:"Sweep status"`
	Progress  int     `json:"progress" minimum:"0" maximum:"100" doc:"Processing progress percentage"`
	Message   string  `json:"message,omitempty" doc:"Human-readable status message"`
	ResultsID *string `json:"results_id,omitempty" doc:"Results ID when processing completes"`
}

// GetSweepStatusResponse represents the current status of a sweep
type GetSweepStatusResponse struct {
	Body GetSweepStatusResponseBody
}

// GetSweepResultsRequest represents a request to get sweep results
type GetSweepResultsRequest struct {
	ID string `path:"id" doc:"Sweep ID"`
}

// FitSummary carries the formatted summary card strings shown next to the
// chart: resistance and intercept to two decimals, R-squared to four.
type FitSummary struct {
	Resistance string `json:"resistance" doc:"Resistance derived from the fit, formatted to 2 decimals"`
	Intercept  string `json:"intercept" doc:"Fit intercept, formatted to 2 decimals"`
	RSquared   string `json:"r_squared" doc:"Coefficient of determination, formatted to 4 decimals"`
}

// GetSweepResultsResponseBody is the body of the results response
type GetSweepResultsResponseBody struct {
	ID         string        `json:"id" doc:"Sweep ID"`
	DeviceID   string        `json:"device_id" doc:"Device under test label"`
	Points     []Measurement `json:"points" doc:"Sweep points in upload order"`
	Segment    []Measurement `json:"segment" doc:"Best-fit line segment endpoints (empty when the fit is degenerate)"`
	Slope      *float64      `json:"slope,omitempty" doc:"Fitted conductance slope; omitted when degenerate"`
	Intercept  *float64      `json:"intercept,omitempty" doc:"Fitted intercept; omitted when degenerate"`
	RSquared   *float64      `json:"r_squared,omitempty" doc:"Coefficient of determination; omitted when degenerate"`
	Resistance *float64      `json:"resistance,omitempty" doc:"Reciprocal of the slope; omitted when degenerate"`
	Degenerate bool          `json:"degenerate" doc:"True when the fit produced non-finite values"`
	Summary    *FitSummary   `json:"summary,omitempty" doc:"Formatted summary card values"`
	CreatedAt  time.Time     `json:"created_at" doc:"Sweep creation timestamp"`
}

// GetSweepResultsResponse represents the complete sweep results
type GetSweepResultsResponse struct {
	Body GetSweepResultsResponseBody
}

// StartProcessingRequest represents a request to start processing an uploaded sweep
type StartProcessingRequest struct {
	ID string `path:"id" doc:"Sweep ID"`
}

// StartProcessingResponse represents the response from starting processing
type StartProcessingResponse struct {
	Body struct {
		Message string `json:"message" doc:"Confirmation message"`
	}
}

// FitRequest represents a synchronous inline fit over points supplied in
// the request body, with nothing persisted.
type FitRequest struct {
	Body struct {
		Points []Measurement `json:"points" minItems:"1" required:"true" doc:"Sweep points to fit"`
	}
}

// FitResponseBody is the body of the inline fit response
type FitResponseBody struct {
	Segment    []Measurement `json:"segment" doc:"Best-fit line segment endpoints"`
	Slope      *float64      `json:"slope,omitempty" doc:"Fitted conductance slope; omitted when degenerate"`
	Intercept  *float64      `json:"intercept,omitempty" doc:"Fitted intercept; omitted when degenerate"`
	RSquared   *float64      `json:"r_squared,omitempty" doc:"Coefficient of determination; omitted when degenerate"`
	Resistance *float64      `json:"resistance,omitempty" doc:"Reciprocal of the slope; omitted when degenerate"`
	Degenerate bool          `json:"degenerate" doc:"True when the fit produced non-finite values"`
	Summary    *FitSummary   `json:"summary,omitempty" doc:"Formatted summary card values"`
}

// FitResponse represents the inline fit response
type FitResponse struct {
	Body FitResponseBody
}

// Sweep represents the core sweep entity (for internal use)
type Sweep struct {
	ID          string     `json:"id"`
	SessionID   string     `json:"session_id"`
	DeviceID    string     `json:"device_id"`
	Status      string     `json:"status"`
	Progress    int        `json:"progress"`
	DataS3Key   *string    `json:"data_s3_key,omitempty"`
	ErrorMsg    *string    `json:"error_message,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// SweepResults represents the stored fit results for a sweep
type SweepResults struct {
	ID         string        `json:"id"`
	SweepID    string        `json:"sweep_id"`
	Points     []Measurement `json:"points"`
	Slope      *float64      `json:"slope,omitempty"`
	Intercept  *float64      `json:"intercept,omitempty"`
	RSquared   *float64      `json:"r_squared,omitempty"`
	Resistance *float64      `json:"resistance,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
}
