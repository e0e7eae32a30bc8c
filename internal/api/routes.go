package api

import (
	"database/sql"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"

	"github.com/ohmlab/ohmlab/internal/api/handlers"
	"github.com/ohmlab/ohmlab/internal/processing"
	"github.com/ohmlab/ohmlab/internal/repository"
	"github.com/ohmlab/ohmlab/internal/storage"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(router *chi.Mux, api huma.API, db *sql.DB, s3Service storage.S3Service, sweepRepo repository.SweepRepository, processingSvc processing.ProcessingService) {
	// Initialize handlers
	sweepHandler := handlers.NewSweepHandler(sweepRepo, s3Service, processingSvc)
	fitHandler := handlers.NewFitHandler()

	// Register sweep routes
	huma.Register(api, huma.Operation{
		OperationID: "createSweep",
		Method:      http.MethodPost,
		Path:        "/api/sweeps",
		Summary:     "Create a new sweep",
		Description: "Creates a new I-V sweep record and returns an upload URL for the data file",
		Tags:        []string{"Sweep"},
	}, sweepHandler.CreateSweep)

	huma.Register(api, huma.Operation{
		OperationID: "getSweepStatus",
		Method:      http.MethodGet,
		Path:        "/api/sweeps/{id}/status",
		Summary:     "Get sweep status",
		Description: "Returns the current status and progress of a sweep",
		Tags:        []string{"Sweep"},
	}, sweepHandler.GetSweepStatus)

	huma.Register(api, huma.Operation{
		OperationID: "getSweepResults",
		Method:      http.MethodGet,
		Path:        "/api/sweeps/{id}/results",
		Summary:     "Get sweep results",
		Description: "Returns the chart payload: measured points, best-fit segment and fit parameters",
		Tags:        []string{"Sweep"},
	}, sweepHandler.GetSweepResults)

	huma.Register(api, huma.Operation{
		OperationID: "startProcessing",
		Method:      http.MethodPost,
		Path:        "/api/sweeps/{id}/process",
		Summary:     "Start processing sweep",
		Description: "Starts fitting an uploaded sweep data file",
		Tags:        []string{"Sweep"},
	}, sweepHandler.StartProcessing)

	huma.Register(api, huma.Operation{
		OperationID: "fitPoints",
		Method:      http.MethodPost,
		Path:        "/api/fit",
		Summary:     "Fit points inline",
		Description: "Runs a least squares fit over points in the request body without storing anything",
		Tags:        []string{"Fit"},
	}, fitHandler.Fit)
}
