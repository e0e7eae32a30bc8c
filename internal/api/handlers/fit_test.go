package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ohmlab/ohmlab/pkg/models"
)

func TestFit_Inline(t *testing.T) {
	req := &models.FitRequest{}
	req.Body.Points = []models.Measurement{
		{Voltage: 0, Current: 1},
		{Voltage: 1, Current: 3},
		{Voltage: 2, Current: 5},
		{Voltage: 3, Current: 7},
	}

	handler := NewFitHandler()
	resp, err := handler.Fit(context.Background(), req)

	require.NoError(t, err)
	assert.False(t, resp.Body.Degenerate)
	require.NotNil(t, resp.Body.Slope)
	assert.InDelta(t, 2.0, *resp.Body.Slope, 1e-12)
	require.NotNil(t, resp.Body.Intercept)
	assert.InDelta(t, 1.0, *resp.Body.Intercept, 1e-12)
	require.NotNil(t, resp.Body.RSquared)
	assert.InDelta(t, 1.0, *resp.Body.RSquared, 1e-12)
	require.Len(t, resp.Body.Segment, 2)
	assert.Equal(t, 0.0, resp.Body.Segment[0].Voltage)
	assert.Equal(t, 3.0, resp.Body.Segment[1].Voltage)
	require.NotNil(t, resp.Body.Summary)
	assert.Equal(t, "0.50", resp.Body.Summary.Resistance)
	assert.Equal(t, "1.0000", resp.Body.Summary.RSquared)
}

func TestFit_Degenerate(t *testing.T) {
	req := &models.FitRequest{}
	req.Body.Points = []models.Measurement{
		{Voltage: 1.5, Current: 12.0},
	}

	handler := NewFitHandler()
	resp, err := handler.Fit(context.Background(), req)

	// Degenerate input is reported, never surfaced as an HTTP error or a
	// NaN in the payload.
	require.NoError(t, err)
	assert.True(t, resp.Body.Degenerate)
	assert.Nil(t, resp.Body.Slope)
	assert.Nil(t, resp.Body.RSquared)
	assert.Nil(t, resp.Body.Resistance)
	assert.Empty(t, resp.Body.Segment)
	assert.Nil(t, resp.Body.Summary)
}

func TestFit_ZeroSlope(t *testing.T) {
	req := &models.FitRequest{}
	req.Body.Points = []models.Measurement{
		{Voltage: 0, Current: 5},
		{Voltage: 1, Current: 5},
		{Voltage: 2, Current: 5},
	}

	handler := NewFitHandler()
	resp, err := handler.Fit(context.Background(), req)

	// Constant current: R-squared is 0/0, so the fit is degenerate.
	require.NoError(t, err)
	assert.True(t, resp.Body.Degenerate)
	assert.Nil(t, resp.Body.Resistance)
}
