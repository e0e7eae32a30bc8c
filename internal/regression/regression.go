// Package regression fits an ordinary least squares line to I-V sweep
// points and derives the values the chart frontend displays: the best-fit
// segment, the resistance of the device under test, and formatted summary
// strings.
package regression

import (
	"math"
	"strconv"

	"github.com/ohmlab/ohmlab/pkg/models"
)

// FitResult holds the parameters of the fitted line current = Slope*voltage
// + Intercept, plus the coefficient of determination.
type FitResult struct {
	Slope     float64
	Intercept float64
	RSquared  float64
}

// IsFinite reports whether all three fit parameters are finite numbers.
// Degenerate sweeps (fewer than two points, all voltages identical, or all
// currents identical) produce NaN or Inf instead of an error.
func (r FitResult) IsFinite() bool {
	for _, v := range []float64{r.Slope, r.Intercept, r.RSquared} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Resistance returns the resistance of the device under test. Current is
// plotted against voltage, so the fitted slope is a conductance and the
// resistance is its reciprocal.
func (r FitResult) Resistance() float64 {
	return 1 / r.Slope
}

// Fit computes the ordinary least squares line through the given sweep
// points, with voltage as the independent variable. It is pure and
// order-invariant: permuting the input changes nothing.
//
// Numeric degeneracies are not signalled; they propagate as NaN or Inf in
// the result. Callers gate on IsFinite.
func Fit(points []models.Measurement) FitResult {
	n := float64(len(points))

	var sumX, sumY, sumXY, sumXX float64
	for _, p := range points {
		sumX += p.Voltage
		sumY += p.Current
		sumXY += p.Voltage * p.Current
		sumXX += p.Voltage * p.Voltage
	}

	slope := (n*sumXY - sumX*sumY) / (n*sumXX - sumX*sumX)
	intercept := (sumY - slope*sumX) / n

	meanY := sumY / n
	var totalVariation, explainedVariation float64
	for _, p := range points {
		predicted := slope*p.Voltage + intercept
		totalVariation += (p.Current - meanY) * (p.Current - meanY)
		explainedVariation += (predicted - meanY) * (predicted - meanY)
	}

	return FitResult{
		Slope:     slope,
		Intercept: intercept,
		RSquared:  explainedVariation / totalVariation,
	}
}

// BestFitSegment returns the two endpoints of the fitted line spanning the
// sweep's voltage range: (minV, fit at minV) and (maxV, fit at maxV). The
// scan covers all points; the extremes need not be first or last in upload
// order.
//
// A nil fit means the line has not been computed yet; the segment is empty
// then, and for an empty sweep.
func BestFitSegment(points []models.Measurement, fit *FitResult) []models.Measurement {
	if fit == nil || len(points) == 0 {
		return nil
	}

	minV, maxV := points[0].Voltage, points[0].Voltage
	for _, p := range points[1:] {
		if p.Voltage < minV {
			minV = p.Voltage
		}
		if p.Voltage > maxV {
			maxV = p.Voltage
		}
	}

	return []models.Measurement{
		{Voltage: minV, Current: fit.Slope*minV + fit.Intercept},
		{Voltage: maxV, Current: fit.Slope*maxV + fit.Intercept},
	}
}

// FormatQuantity formats a physical quantity (resistance, intercept) the
// way the summary cards display it, with two decimal places.
func FormatQuantity(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// FormatRSquared formats the coefficient of determination with four
// decimal places.
func FormatRSquared(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

// Summary builds the formatted summary card values for a finite fit.
func Summary(fit FitResult) *models.FitSummary {
	return &models.FitSummary{
		Resistance: FormatQuantity(fit.Resistance()),
		Intercept:  FormatQuantity(fit.Intercept),
		RSquared:   FormatRSquared(fit.RSquared),
	}
}
