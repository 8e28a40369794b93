package calc

import (
	"math"

	"github.com/dd0wney/cluso-pipenet/pkg/hydraulics"
	"github.com/dd0wney/cluso-pipenet/pkg/network"
)

// HydrPointInfo is the state of the flow at one end of an edge. Rates are
// signed: positive when the flow runs from NodeA to NodeB.
type HydrPointInfo struct {
	Measure     float64 `json:"measure"` // 0 at NodeA, edge length at NodeB
	Pressure    float64 `json:"pressure"`
	Temperature float64 `json:"temperature"`

	LiquidRate float64 `json:"liquid_rate"`
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

// PVT is the reservoir snapshot attached to successful records
type PVT struct {
	BubblePointPressure  float64 `json:"bubble_point_pressure"`
	ReservoirPressure    float64 `json:"reservoir_pressure"`
	ReservoirTemperature float64 `json:"reservoir_temperature"`
	GasFactor            float64 `json:"gas_factor"`
}

// HydrCalcDataRec is the result for one input edge
type HydrCalcDataRec struct {
	Edge     int        `json:"edge"`
	SubnetID int        `json:"subnet"` // -1 when the edge belongs to no subnet
	Status   CalcStatus `json:"status"`

	LiquidRate float64 `json:"liquid_rate"`
	OilRate    float64 `json:"oil_rate"`
	WaterRate  float64 `json:"water_rate"`
	GasRate    float64 `json:"gas_rate"`
	Watercut   float64 `json:"watercut"`

	From HydrPointInfo `json:"from"`
	To   HydrPointInfo `json:"to"`

	Fluid *network.FluidInfo `json:"fluid,omitempty"`
	PVT   *PVT               `json:"pvt,omitempty"`

	Error string `json:"error,omitempty"`

	points    int
	fluidSeen bool
	filled    bool
}

// NewRecord returns the initial record of an edge
func NewRecord(edge int, length float64) HydrCalcDataRec {
	return HydrCalcDataRec{
		Edge:     edge,
		SubnetID: -1,
		Status:   Virgin,
		From:     HydrPointInfo{Measure: 0, Pressure: math.NaN()},
		To:       HydrPointInfo{Measure: length, Pressure: math.NaN()},
	}
}

// Filled reports whether the record received its final classification
func (r *HydrCalcDataRec) Filled() bool {
	return r.filled
}

// SetFlow copies the resolved edge flow into the aggregate rates
func (r *HydrCalcDataRec) SetFlow(info *hydraulics.EdgeInfo) {
	r.LiquidRate = info.LiquidRate
	r.Watercut = info.Watercut
	r.OilRate = info.OilRate()
	r.WaterRate = info.WaterRate()
	if info.Fluid != nil {
		r.GasRate = r.OilRate * info.Fluid.GasFactor
	}
}

// begin marks the start of a physics call
func (r *HydrCalcDataRec) begin() {
	if r.Status == Failed {
		return
	}
	r.Status = Started
	r.points = 0
}

// point stores a reported sample and advances Started -> Half -> Full
func (r *HydrCalcDataRec) point(pos hydraulics.StepPosition, s *hydraulics.Sample, c hydraulics.Cookie) {
	if r.Status == Failed || s == nil {
		return
	}

	atNodeA := pos == hydraulics.StepInlet
	if c.EdgeReversed {
		atNodeA = !atNodeA
	}
	sign := 1.0
	if !c.FlowAlongEdge() {
		sign = -1
	}

	target := &r.To
	if atNodeA {
		target = &r.From
	}
	*target = HydrPointInfo{
		Measure:        target.Measure,
		Pressure:       s.Pressure,
		Temperature:    s.Temperature,
		LiquidRate:     sign * s.LiquidRate,
		OilRate:        sign * s.OilRate,
		WaterRate:      sign * s.WaterRate,
		GasRate:        sign * s.GasRate,
		OilDensity:     s.OilDensity,
		WaterDensity:   s.WaterDensity,
		GasDensity:     s.GasDensity,
		LiquidDensity:  s.LiquidDensity,
		OilViscosity:   s.OilViscosity,
		WaterViscosity: s.WaterViscosity,
	}

	if s.WaterDensity != 0 {
		r.fluidSeen = true
	}
	r.points++
	if r.points >= 2 {
		r.Status = Full
	} else {
		r.Status = Half
	}
}

// fail marks the record as failed; later callbacks are ignored
func (r *HydrCalcDataRec) fail(err error) {
	r.Status = Failed
	if err != nil {
		r.Error = err.Error()
	}
}

// Fill classifies the record once the node pressures are known. p0 and p1
// are the pressures at NodeA and NodeB, NaN when undetermined. Only Success
// and ExtraP records keep point detail; Success also gets the PVT snapshot.
func (r *HydrCalcDataRec) Fill(fluid *network.FluidInfo, p0, p1 float64) {
	if !fluid.IsEmpty() {
		r.fluidSeen = true
	}
	r.Status = Classify(r.Status, r.fluidSeen, p0, p1)
	r.filled = true

	switch r.Status {
	case Success:
		r.Fluid = fluid
		if !fluid.IsEmpty() {
			r.PVT = &PVT{
				BubblePointPressure:  fluid.BubblePointPressure,
				ReservoirPressure:    fluid.ReservoirPressure,
				ReservoirTemperature: fluid.ReservoirTemperature,
				GasFactor:            fluid.GasFactor,
			}
		}
	case ExtraP:
		r.Fluid = fluid
		r.From = pressurePoint(r.From.Measure, p0, fluid)
		r.To = pressurePoint(r.To.Measure, p1, fluid)
	default:
		r.From = HydrPointInfo{Measure: r.From.Measure, Pressure: p0}
		r.To = HydrPointInfo{Measure: r.To.Measure, Pressure: p1}
	}
}

func pressurePoint(measure, p float64, fluid *network.FluidInfo) HydrPointInfo {
	pt := HydrPointInfo{Measure: measure, Pressure: p}
	if !fluid.IsEmpty() {
		pt.OilDensity = fluid.OilDensity
		pt.WaterDensity = fluid.WaterDensity
		pt.GasDensity = fluid.GasDensity
		pt.OilViscosity = fluid.OilViscosity
		pt.WaterViscosity = fluid.WaterViscosity
	}
	return pt
}
