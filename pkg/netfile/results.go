package netfile

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/dd0wney/cluso-pipenet/pkg/calc"
	"github.com/dd0wney/cluso-pipenet/pkg/network"
)

// Number is a float that encodes NaN and infinities as JSON null
type Number float64

// MarshalJSON implements json.Marshaler
func (n Number) MarshalJSON() ([]byte, error) {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, f, 'g', -1, 64), nil
}

// UnmarshalJSON implements json.Unmarshaler; null decodes to NaN
func (n *Number) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*n = Number(math.NaN())
		return nil
	}
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return fmt.Errorf("invalid number %s: %w", b, err)
	}
	*n = Number(f)
	return nil
}

// PointResult is the JSON form of calc.HydrPointInfo
type PointResult struct {
	Node        string `json:"node,omitempty"`
	Measure     Number `json:"measure"`
	Pressure    Number `json:"pressure"`
	Temperature Number `json:"temperature"`

	LiquidRate Number `json:"liquid_rate"`
	OilRate    Number `json:"oil_rate"`
	WaterRate  Number `json:"water_rate"`
	GasRate    Number `json:"gas_rate"`

	LiquidDensity Number `json:"liquid_density"`
}

// RecordResult is the JSON form of calc.HydrCalcDataRec
type RecordResult struct {
	Edge     int             `json:"edge"`
	SubnetID int             `json:"subnet"`
	Status   calc.CalcStatus `json:"status"`

	LiquidRate Number `json:"liquid_rate"`
	OilRate    Number `json:"oil_rate"`
	WaterRate  Number `json:"water_rate"`
	GasRate    Number `json:"gas_rate"`
	Watercut   Number `json:"watercut"`

	From PointResult `json:"from"`
	To   PointResult `json:"to"`

	Fluid *network.FluidInfo `json:"fluid,omitempty"`
	PVT   *calc.PVT          `json:"pvt,omitempty"`
	Error string             `json:"error,omitempty"`
}

// Results is the document written by WriteResults
type Results struct {
	RunID    string               `json:"run_id,omitempty"`
	Solved   time.Time            `json:"solved_at"`
	Statuses map[string]int       `json:"statuses"`
	Subnets  []calc.SubnetSummary `json:"subnets"`
	Records  []RecordResult       `json:"records"`
}

// NewResults converts a run result into its JSON document. Node ids are
// resolved through net when it is not nil.
func NewResults(runID string, net *Network, res *calc.Result) *Results {
	out := &Results{
		RunID:    runID,
		Solved:   time.Now().UTC(),
		Statuses: make(map[string]int),
		Subnets:  res.Subnets,
		Records:  make([]RecordResult, len(res.Records)),
	}
	for s, n := range res.StatusCounts() {
		out.Statuses[s.String()] = n
	}
	for i := range res.Records {
		rec := &res.Records[i]
		rr := RecordResult{
			Edge:       rec.Edge,
			SubnetID:   rec.SubnetID,
			Status:     rec.Status,
			LiquidRate: Number(rec.LiquidRate),
			OilRate:    Number(rec.OilRate),
			WaterRate:  Number(rec.WaterRate),
			GasRate:    Number(rec.GasRate),
			Watercut:   Number(rec.Watercut),
			From:       pointResult(&rec.From),
			To:         pointResult(&rec.To),
			Fluid:      rec.Fluid,
			PVT:        rec.PVT,
			Error:      rec.Error,
		}
		if net != nil && rec.Edge < len(net.Edges) {
			e := net.Edges[rec.Edge]
			rr.From.Node = net.NodeID(e.NodeA)
			rr.To.Node = net.NodeID(e.NodeB)
		}
		out.Records[i] = rr
	}
	return out
}

func pointResult(p *calc.HydrPointInfo) PointResult {
	return PointResult{
		Measure:       Number(p.Measure),
		Pressure:      Number(p.Pressure),
		Temperature:   Number(p.Temperature),
		LiquidRate:    Number(p.LiquidRate),
		OilRate:       Number(p.OilRate),
		WaterRate:     Number(p.WaterRate),
		GasRate:       Number(p.GasRate),
		LiquidDensity: Number(p.LiquidDensity),
	}
}

// WriteResults encodes the result document as indented JSON
func WriteResults(w io.Writer, results *Results) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}
	return nil
}
