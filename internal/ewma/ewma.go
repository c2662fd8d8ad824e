// Package ewma implements a single-pole recursive low-pass filter that
// calculates the exponential weighted moving average of its input.
package ewma

import "errors"

// ErrInvalidSmoothingFactor indicates a smoothing factor outside (0, 1].
var ErrInvalidSmoothingFactor = errors.New("ewma: smoothing factor must be in (0, 1]")

// Filter is a discrete-time RC low-pass filter.
//
// The zero value is not usable; create filters with New or FromTimeConstant.
type Filter struct {
	alpha       float64
	value       float64
	initialized bool
}

// New creates a filter with smoothing factor alpha (commonly named α).
func New(alpha float64) (Filter, error) {
	// The negated form also rejects NaN.
	if !(alpha > 0 && alpha <= 1) {
		return Filter{}, ErrInvalidSmoothingFactor
	}
	return Filter{alpha: alpha}, nil
}

// FromTimeConstant creates a filter for time constant rc (seconds) at the
// given sample rate.
//
// With sampling period Δt = 1/fs the smoothing factor is
//
//	α = Δt / (RC + Δt)
func FromTimeConstant(rc, sampleRateHz float64) (Filter, error) {
	return New(SmoothingFactor(rc, sampleRateHz))
}

// SmoothingFactor returns α for time constant rc at sample rate fs.
func SmoothingFactor(rc, sampleRateHz float64) float64 {
	dt := 1 / sampleRateHz
	return dt / (rc + dt)
}

// Alpha returns the smoothing factor.
func (f *Filter) Alpha() float64 {
	return f.alpha
}

// Value returns the last smoothed output.
func (f *Filter) Value() float64 {
	return f.value
}

// Initialized reports whether the filter has seen at least one input.
func (f *Filter) Initialized() bool {
	return f.initialized
}

// Preview calculates the next smoothed value without storing it.
//
//	yᵢ = α·xᵢ + (1 − α)·yᵢ₋₁ = yᵢ₋₁ + α·(xᵢ − yᵢ₋₁)
//
// The first input passes through unchanged.
func (f *Filter) Preview(x float64) float64 {
	if !f.initialized {
		return x
	}
	return f.value + f.alpha*(x-f.value)
}

// Update calculates the next smoothed value and stores it.
func (f *Filter) Update(x float64) float64 {
	f.value = f.Preview(x)
	f.initialized = true
	return f.value
}

// Set forces the filter state to v.
func (f *Filter) Set(v float64) {
	f.value = v
	f.initialized = true
}

// Reset forgets the filter state. The next update reinitializes it.
func (f *Filter) Reset() {
	f.value = 0
	f.initialized = false
}
