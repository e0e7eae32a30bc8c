package handlers

import (
	"context"
	"math"

	"github.com/rs/zerolog/log"

	"github.com/ohmlab/ohmlab/internal/regression"
	"github.com/ohmlab/ohmlab/pkg/models"
)

// FitHandler serves synchronous inline fits for callers that do not need
// a stored sweep.
type FitHandler struct{}

// NewFitHandler creates a new fit handler
func NewFitHandler() *FitHandler {
	return &FitHandler{}
}

// Fit runs the least squares fit over the points in the request and
// returns the fit parameters, segment and summary without persisting
// anything.
func (h *FitHandler) Fit(ctx context.Context, req *models.FitRequest) (*models.FitResponse, error) {
	points := req.Body.Points
	fit := regression.Fit(points)

	log.Info().Int("points", len(points)).Bool("finite", fit.IsFinite()).Msg("Inline fit computed")

	body := models.FitResponseBody{
		Degenerate: !fit.IsFinite(),
	}

	if fit.IsFinite() {
		slope := fit.Slope
		intercept := fit.Intercept
		rSquared := fit.RSquared
		body.Slope = &slope
		body.Intercept = &intercept
		body.RSquared = &rSquared
		body.Segment = regression.BestFitSegment(points, &fit)
		if resistance := fit.Resistance(); !math.IsInf(resistance, 0) {
			body.Resistance = &resistance
			body.Summary = regression.Summary(fit)
		}
	}

	return &models.FitResponse{Body: body}, nil
}
