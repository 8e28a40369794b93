package hydraulics

import (
	"errors"
	"fmt"

	"github.com/dd0wney/cluso-pipenet/pkg/network"
)

// StepPosition identifies a point reported by the physics call
type StepPosition int

const (
	StepBegin  StepPosition = -1 // Before computing
	StepInlet  StepPosition = 0  // Inlet of the calculation
	StepOutlet StepPosition = 1  // Outlet of the calculation
)

// Cookie travels from the solver through the physics call back to the step
// callback unchanged. It identifies the edge and how the calculation is
// oriented against the edge's stored A->B order.
type Cookie struct {
	Edge int
	// EdgeReversed is set when the calculation runs from NodeB to NodeA
	EdgeReversed bool
	// CalcReversed is set when the calculation runs against the flow
	CalcReversed bool
}

// FlowAlongEdge reports whether the physical flow goes from NodeA to NodeB
func (c Cookie) FlowAlongEdge() bool {
	return c.EdgeReversed == c.CalcReversed
}

// Sample is the state of the flow at one point of a pipe
type Sample struct {
	Measure     float64 `json:"measure"`     // Distance from the calculation inlet, m
	Pressure    float64 `json:"pressure"`    // atm
	Temperature float64 `json:"temperature"` // degrees C

	LiquidRate float64 `json:"liquid_rate"` // m3/day
	OilRate    float64 `json:"oil_rate"`
	WaterRate  float64 `json:"water_rate"`
	GasRate    float64 `json:"gas_rate"`

	OilDensity     float64 `json:"oil_density"`
	WaterDensity   float64 `json:"water_density"`
	GasDensity     float64 `json:"gas_density"`
	LiquidDensity  float64 `json:"liquid_density"`
	OilViscosity   float64 `json:"oil_viscosity"`
	WaterViscosity float64 `json:"water_viscosity"`
}

// StepFunc receives the points reported by a physics call
type StepFunc func(pos StepPosition, s *Sample, c Cookie)

// DropRequest is the input of one pressure drop calculation
type DropRequest struct {
	InletPressure float64 // atm
	Diameter      float64 // mm
	Length        float64 // m
	Roughness     float64 // mm
	AngleDeg      float64 // Inclination from inlet to outlet
	// Direction is +1 when the calculation follows the flow, -1 when it runs against it
	Direction  int
	LiquidRate float64 // m3/day
	Watercut   float64
	GasFactor  float64 // m3/m3
	Fluid      *network.FluidInfo
	Cookie     Cookie
}

// PressureDropper computes the outlet pressure of a pipe.
// Implementations must be safe for concurrent use and must fail rather than hang
// when they cannot converge.
type PressureDropper interface {
	DropLiquid(req *DropRequest, step StepFunc) (float64, error)
}

// DropFunc adapts a function to the PressureDropper interface
type DropFunc func(req *DropRequest, step StepFunc) (float64, error)

// DropLiquid calls f(req, step)
func (f DropFunc) DropLiquid(req *DropRequest, step StepFunc) (float64, error) {
	return f(req, step)
}

// Observer receives the per-edge progress of a solve
type Observer interface {
	// Step is forwarded verbatim from the physics call
	Step(pos StepPosition, s *Sample, c Cookie)
	// Failed is called when the physics call returned an error
	Failed(c Cookie, err error)
}

// ErrPhysics marks every CalcError
var ErrPhysics = errors.New("pressure drop calculation failed")

// CalcError describes a failed pressure drop calculation
type CalcError struct {
	Edge   int
	FromID string
	ToID   string
	Cause  error
}

func (e *CalcError) Error() string {
	return fmt.Sprintf("edge %d (%s -> %s): %v", e.Edge, e.FromID, e.ToID, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *CalcError) Unwrap() error {
	return e.Cause
}

// Is matches ErrPhysics; causes are matched through Unwrap
func (e *CalcError) Is(target error) bool {
	return target == ErrPhysics
}
