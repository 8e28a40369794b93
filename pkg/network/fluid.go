package network

import "math"

// FluidInfo describes the produced fluid of a well.
// Values are immutable once constructed; use WithParticleContent to derive a variant.
type FluidInfo struct {
	OilDensity     float64 `json:"oil_density"`     // kg/m3 at standard conditions
	WaterDensity   float64 `json:"water_density"`   // kg/m3, zero means "no fluid data"
	GasDensity     float64 `json:"gas_density"`     // kg/m3 at standard conditions
	OilViscosity   float64 `json:"oil_viscosity"`   // cP
	WaterViscosity float64 `json:"water_viscosity"` // cP
	GasFactor      float64 `json:"gas_factor"`      // m3 gas per m3 oil

	BubblePointPressure  float64 `json:"bubble_point_pressure"` // atm
	ReservoirPressure    float64 `json:"reservoir_pressure"`    // atm
	ReservoirTemperature float64 `json:"reservoir_temperature"` // degrees C

	ParticleContent float64 `json:"particle_content"` // Suspended solids, mg/l
}

// IsEmpty reports whether the fluid carries no data
func (f *FluidInfo) IsEmpty() bool {
	return f == nil || f.WaterDensity == 0
}

// WithParticleContent returns a shallow clone with the particle content replaced
func (f *FluidInfo) WithParticleContent(v float64) *FluidInfo {
	clone := *f
	clone.ParticleContent = v
	return &clone
}

// WellInfo is the boundary data of one well
type WellInfo struct {
	FluidInfo

	LinePressure float64 `json:"line_pressure"` // atm, NaN when not measured
	LiquidRate   float64 `json:"liquid_rate"`   // m3/day
	Watercut     float64 `json:"watercut"`      // Fraction of liquid that is water
}

// Fluid returns the fluid part of the well data, or nil when it is empty
func (w *WellInfo) Fluid() *FluidInfo {
	if w == nil || w.FluidInfo.IsEmpty() {
		return nil
	}
	return &w.FluidInfo
}

// OilRate returns the oil part of the liquid rate
func (w *WellInfo) OilRate() float64 {
	return w.LiquidRate * (1 - w.Watercut)
}

// WaterRate returns the water part of the liquid rate
func (w *WellInfo) WaterRate() float64 {
	return w.LiquidRate * w.Watercut
}

// UnknownWell returns the sentinel used for wells without data:
// undetermined line pressure, zero rate, all water.
func UnknownWell() *WellInfo {
	return &WellInfo{
		LinePressure: math.NaN(),
		Watercut:     1,
	}
}
