// Package pipeflow provides a pressure drop model for liquid pipelines.
//
// Homogeneous treats oil and water as one liquid with volume-averaged
// density and viscosity. Friction follows Darcy-Weisbach with the laminar
// 64/Re factor below the transition and Swamee-Jain above it. Gravity head
// uses the pipe inclination from inlet to outlet.
package pipeflow

import (
	"errors"
	"fmt"
	"math"

	"github.com/dd0wney/cluso-pipenet/pkg/hydraulics"
)

const (
	atm               = 101325.0 // Pa
	gravity           = 9.80665  // m/s2
	secondsPerDay     = 86400.0
	laminarReynolds   = 2300.0
	defaultSegment    = 100.0 // m
	defaultMaxSteps   = 1000
	defaultTempC      = 20.0
	centipoiseToPaS   = 1e-3
	millimeterToMeter = 1e-3
)

var (
	// ErrNotConverged is returned when the pressure profile leaves the
	// physical range or the step limit is exceeded
	ErrNotConverged = errors.New("pressure drop did not converge")

	// ErrNoFluid is returned when the request carries no fluid data
	ErrNoFluid = errors.New("no fluid data")

	// ErrBadGeometry is returned for non-positive diameter or length
	ErrBadGeometry = errors.New("invalid pipe geometry")
)

// Config holds the numeric settings of the model
type Config struct {
	SegmentLength float64 // m
	MaxSteps      int
	Temperature   float64 // Reported flow temperature, degrees C
}

// DefaultConfig returns the default model settings
func DefaultConfig() Config {
	return Config{
		SegmentLength: defaultSegment,
		MaxSteps:      defaultMaxSteps,
		Temperature:   defaultTempC,
	}
}

// Homogeneous is a stateless pressure drop model, safe for concurrent use
type Homogeneous struct {
	cfg Config
}

// New creates the model, filling zero settings with defaults
func New(cfg Config) (*Homogeneous, error) {
	def := DefaultConfig()
	if cfg.SegmentLength == 0 {
		cfg.SegmentLength = def.SegmentLength
	}
	if cfg.MaxSteps == 0 {
		cfg.MaxSteps = def.MaxSteps
	}
	if cfg.SegmentLength < 0 || cfg.MaxSteps < 0 {
		return nil, fmt.Errorf("segment length %v and max steps %d must be positive", cfg.SegmentLength, cfg.MaxSteps)
	}
	return &Homogeneous{cfg: cfg}, nil
}

// Config returns the effective settings
func (h *Homogeneous) Config() Config {
	return h.cfg
}

// liquid is the mixture state shared by every segment of one call
type liquid struct {
	density   float64 // kg/m3
	viscosity float64 // Pa*s
	velocity  float64 // m/s
	friction  float64 // Pa/m, always positive
	head      float64 // Pa/m along the calculation direction
}

// DropLiquid walks the pipe from the request inlet in segments and returns
// the outlet pressure. The step callback receives the begin, inlet and outlet
// points.
func (h *Homogeneous) DropLiquid(req *hydraulics.DropRequest, step hydraulics.StepFunc) (float64, error) {
	if step == nil {
		step = func(hydraulics.StepPosition, *hydraulics.Sample, hydraulics.Cookie) {}
	}

	inlet := h.sample(req, 0, req.InletPressure)
	step(hydraulics.StepBegin, inlet, req.Cookie)

	if req.Fluid.IsEmpty() {
		return math.NaN(), ErrNoFluid
	}
	if req.Diameter <= 0 || req.Length <= 0 {
		return math.NaN(), fmt.Errorf("%w: d=%v L=%v", ErrBadGeometry, req.Diameter, req.Length)
	}
	if math.IsNaN(req.InletPressure) || req.InletPressure <= 0 {
		return math.NaN(), fmt.Errorf("%w: inlet pressure %v", ErrNotConverged, req.InletPressure)
	}

	segments := int(math.Ceil(req.Length / h.cfg.SegmentLength))
	if segments < 1 {
		segments = 1
	}
	if segments > h.cfg.MaxSteps {
		return math.NaN(), fmt.Errorf("%w: %d segments exceed the limit of %d", ErrNotConverged, segments, h.cfg.MaxSteps)
	}

	mix := mixture(req)
	dl := req.Length / float64(segments)
	gradient := mix.head + float64(req.Direction)*mix.friction

	p := req.InletPressure * atm
	for i := 0; i < segments; i++ {
		p -= gradient * dl
		if p <= 0 || math.IsNaN(p) || math.IsInf(p, 0) {
			return math.NaN(), fmt.Errorf("%w: pressure vanished after %.1f m", ErrNotConverged, dl*float64(i+1))
		}
	}

	pOut := p / atm
	step(hydraulics.StepInlet, inlet, req.Cookie)
	step(hydraulics.StepOutlet, h.sample(req, req.Length, pOut), req.Cookie)
	return pOut, nil
}

func mixture(req *hydraulics.DropRequest) liquid {
	f := req.Fluid
	wc := req.Watercut
	d := req.Diameter * millimeterToMeter

	var m liquid
	m.density = f.OilDensity*(1-wc) + f.WaterDensity*wc
	m.viscosity = (f.OilViscosity*(1-wc) + f.WaterViscosity*wc) * centipoiseToPaS
	m.head = m.density * gravity * math.Sin(req.AngleDeg*math.Pi/180)

	area := math.Pi * d * d / 4
	m.velocity = math.Abs(req.LiquidRate) / secondsPerDay / area
	if m.velocity == 0 || m.viscosity <= 0 {
		return m
	}

	re := m.density * m.velocity * d / m.viscosity
	m.friction = frictionFactor(re, req.Roughness*millimeterToMeter/d) * m.density * m.velocity * m.velocity / (2 * d)
	return m
}

// frictionFactor returns the Darcy friction factor for a Reynolds number and
// relative roughness
func frictionFactor(re, relRoughness float64) float64 {
	if re < laminarReynolds {
		return 64 / re
	}
	l := math.Log10(relRoughness/3.7 + 5.74/math.Pow(re, 0.9))
	return 0.25 / (l * l)
}

func (h *Homogeneous) sample(req *hydraulics.DropRequest, measure, pressure float64) *hydraulics.Sample {
	s := &hydraulics.Sample{
		Measure:     measure,
		Pressure:    pressure,
		Temperature: h.cfg.Temperature,
		LiquidRate:  req.LiquidRate,
		OilRate:     req.LiquidRate * (1 - req.Watercut),
		WaterRate:   req.LiquidRate * req.Watercut,
	}
	s.GasRate = s.OilRate * req.GasFactor

	if f := req.Fluid; !f.IsEmpty() {
		s.OilDensity = f.OilDensity
		s.WaterDensity = f.WaterDensity
		s.GasDensity = f.GasDensity
		s.LiquidDensity = f.OilDensity*(1-req.Watercut) + f.WaterDensity*req.Watercut
		s.OilViscosity = f.OilViscosity
		s.WaterViscosity = f.WaterViscosity
	}
	return s
}
