package hydraulics

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestNodeInfo_Update(t *testing.T) {
	nan := math.NaN()
	tests := []struct {
		name    string
		start   float64
		p       float64
		want    float64
		changed bool
	}{
		{"nan replaced", nan, 10, 10, true},
		{"lower wins", 10, 5, 5, true},
		{"higher ignored", 10, 15, 10, false},
		{"nan ignored", 10, nan, 10, false},
		{"nan on nan", nan, nan, nan, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := &NodeInfo{Pressure: tt.start}
			changed := n.Update(tt.p, DataEstimated)
			assert.Equal(t, tt.changed, changed)
			if math.IsNaN(tt.want) {
				assert.True(t, math.IsNaN(n.Pressure))
			} else {
				assert.Equal(t, tt.want, n.Pressure)
			}
		})
	}
}

func TestNodeInfo_UpdateKeepsKindOfWinner(t *testing.T) {
	n := &NodeInfo{Pressure: math.NaN(), Kind: DataUnknown}
	n.Update(20, DataInput)
	n.Update(25, DataEstimated)
	assert.Equal(t, DataInput, n.Kind)
	n.Update(18, DataEstimated)
	assert.Equal(t, DataEstimated, n.Kind)
}

func TestNodeInfo_MinimumWinsProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	pressure := func(v float64, undetermined bool) float64 {
		if undetermined {
			return math.NaN()
		}
		return v
	}

	properties.Property("stored pressure is the minimum of the determined updates", prop.ForAll(
		func(p, q float64, pNaN, qNaN bool) bool {
			p, q = pressure(p, pNaN), pressure(q, qNaN)
			n := &NodeInfo{Pressure: math.NaN()}
			n.Update(p, DataEstimated)
			n.Update(q, DataEstimated)

			switch {
			case pNaN && qNaN:
				return math.IsNaN(n.Pressure)
			case pNaN:
				return n.Pressure == q
			case qNaN:
				return n.Pressure == p
			default:
				return n.Pressure == math.Min(p, q)
			}
		},
		gen.Float64Range(0, 500),
		gen.Float64Range(0, 500),
		gen.Bool(),
		gen.Bool(),
	))

	properties.TestingRun(t)
}

func TestMeterNodeInfo_Merge(t *testing.T) {
	m := &MeterNodeInfo{}
	assert.True(t, math.IsNaN(m.Pressure()))

	prev, mismatch := m.Merge(math.NaN(), 100, 0.01)
	assert.True(t, math.IsNaN(prev))
	assert.False(t, mismatch)
	assert.Equal(t, 0, m.Wells())

	_, mismatch = m.Merge(40, 100, 0.01)
	assert.False(t, mismatch)
	assert.Equal(t, DataInput, m.Kind)
	assert.Equal(t, 40.0, m.Pressure())

	_, mismatch = m.Merge(40.005, 100, 0.01)
	assert.False(t, mismatch, "within tolerance")
	assert.Equal(t, DataInput, m.Kind)

	prev, mismatch = m.Merge(46, 200, 0.01)
	assert.True(t, mismatch)
	assert.InDelta(t, 40.0025, prev, 1e-9)
	assert.Equal(t, DataAveraged, m.Kind)
	assert.InDelta(t, (40*100+40.005*100+46*200)/400, m.Pressure(), 1e-9)
}

func TestMeterNodeInfo_ZeroRatesUsePlainMean(t *testing.T) {
	m := &MeterNodeInfo{}
	m.Merge(40, 0, 0.01)
	m.Merge(44, 0, 0.01)
	assert.Equal(t, 42.0, m.Pressure())
}

func TestEdgeInfo_Rates(t *testing.T) {
	e := &EdgeInfo{LiquidRate: 200, Watercut: 0.25}
	assert.Equal(t, 150.0, e.OilRate())
	assert.Equal(t, 50.0, e.WaterRate())
}

func TestCookie_FlowAlongEdge(t *testing.T) {
	tests := []struct {
		edgeReversed, calcReversed, along bool
	}{
		{false, false, true},
		{true, false, false},
		{false, true, false},
		{true, true, true},
	}
	for _, tt := range tests {
		c := Cookie{EdgeReversed: tt.edgeReversed, CalcReversed: tt.calcReversed}
		assert.Equal(t, tt.along, c.FlowAlongEdge(), "%+v", c)
	}
}

func TestDataKindString(t *testing.T) {
	assert.Equal(t, "input", DataInput.String())
	assert.Equal(t, "averaged", DataAveraged.String())
	assert.Equal(t, "unknown", DataKind(99).String())
}
