// Package netfile reads network descriptions and writes solver results.
//
// A network file is YAML (JSON is accepted as well, being a YAML subset)
// with three sections:
//
//	nodes:
//	  - {id: W1, kind: well, altitude: 120}
//	  - {id: M1, kind: meter}
//	pipes:
//	  - {from: W1, to: M1, commodity: 0, diameter: 114, length: 350}
//	wells:
//	  - node: W1
//	    line_pressure: 41
//	    liquid_rate: 100
//	    watercut: 0.3
//	    fluid: {oil_density: 850, water_density: 1010, oil_viscosity: 5, water_viscosity: 1}
package netfile

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-pipenet/pkg/logging"
	"github.com/dd0wney/cluso-pipenet/pkg/network"
	"github.com/dd0wney/cluso-pipenet/pkg/validation"
)

// Common sentinel errors
var (
	ErrInvalidRecord   = errors.New("invalid record")
	ErrDuplicateNode   = errors.New("duplicate node id")
	ErrUnknownNodeKind = network.ErrUnknownNodeKind
)

// File is the on-disk layout of a network description
type File struct {
	Nodes []validation.NodeRecord `yaml:"nodes" json:"nodes"`
	Pipes []validation.PipeRecord `yaml:"pipes" json:"pipes"`
	Wells []validation.WellRecord `yaml:"wells" json:"wells"`
}

// Network is a decoded network together with its well boundary data
type Network struct {
	*network.Network

	// Wells maps node index to boundary data
	Wells map[int]*network.WellInfo

	// Index maps external node id to node index
	Index map[string]int
}

// Load reads and decodes the network file at path
func Load(path string, logger logging.Logger) (*Network, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open network file: %w", err)
	}
	defer f.Close()

	return Decode(f, logger.With(logging.Path(path)))
}

// Decode parses a network description. Pipes that name unknown nodes keep a
// negative endpoint and are skipped by the partitioner; wells on unknown nodes
// are dropped. Both are logged as warnings.
func Decode(r io.Reader, logger logging.Logger) (*Network, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	var file File
	if err := yaml.NewDecoder(r).Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse network file: %w", err)
	}
	return Build(&file, logger)
}

// Build converts decoded records into the solver model
func Build(file *File, logger logging.Logger) (*Network, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	nodes := make([]network.Node, 0, len(file.Nodes))
	index := make(map[string]int, len(file.Nodes))
	for i := range file.Nodes {
		rec := &file.Nodes[i]
		if err := validation.ValidateNodeRecord(rec); err != nil {
			return nil, fmt.Errorf("node %d: %w: %w", i, ErrInvalidRecord, err)
		}
		if _, dup := index[rec.ID]; dup {
			return nil, fmt.Errorf("node %d: %w: %q", i, ErrDuplicateNode, rec.ID)
		}
		kind, err := network.ParseNodeKind(rec.Kind)
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", i, err)
		}
		n := network.NewNode(kind, rec.ID)
		if rec.Altitude != nil {
			n.Altitude = *rec.Altitude
		}
		index[rec.ID] = len(nodes)
		nodes = append(nodes, n)
	}

	edges := make([]network.Edge, 0, len(file.Pipes))
	for i := range file.Pipes {
		rec := &file.Pipes[i]
		if err := validation.ValidatePipeRecord(rec); err != nil {
			return nil, fmt.Errorf("pipe %d: %w: %w", i, ErrInvalidRecord, err)
		}
		a := resolve(index, rec.From, i, logger)
		b := resolve(index, rec.To, i, logger)
		edges = append(edges, network.NewEdge(a, b, network.Commodity(rec.Commodity), rec.Diameter, rec.Length))
	}

	wells := make(map[int]*network.WellInfo, len(file.Wells))
	for i := range file.Wells {
		rec := &file.Wells[i]
		if err := validation.ValidateWellRecord(rec); err != nil {
			return nil, fmt.Errorf("well %d: %w: %w", i, ErrInvalidRecord, err)
		}
		v, ok := index[rec.Node]
		if !ok {
			logger.Warn("well data for unknown node, dropping", logging.WellID(rec.Node))
			continue
		}
		if nodes[v].Kind != network.KindWell {
			logger.Warn("well data attached to a node that is not a well",
				logging.WellID(rec.Node), logging.String("kind", nodes[v].Kind.String()))
		}
		if _, dup := wells[v]; dup {
			logger.Warn("duplicate well data, keeping the last entry", logging.WellID(rec.Node))
		}
		wells[v] = wellInfo(rec)
	}

	net := network.New(edges, nodes)
	if err := net.Validate(); err != nil {
		return nil, err
	}

	logger.Debug("network decoded",
		logging.Int("nodes", len(nodes)),
		logging.Int("pipes", len(edges)),
		logging.Int("wells", len(wells)))

	return &Network{Network: net, Wells: wells, Index: index}, nil
}

func resolve(index map[string]int, id string, pipe int, logger logging.Logger) int {
	if v, ok := index[id]; ok {
		return v
	}
	logger.Warn("pipe references unknown node", logging.EdgeIndex(pipe), logging.NodeID(id))
	return -1
}

func wellInfo(rec *validation.WellRecord) *network.WellInfo {
	lp := math.NaN()
	if rec.LinePressure != nil {
		lp = *rec.LinePressure
	}
	f := rec.Fluid
	return &network.WellInfo{
		FluidInfo: network.FluidInfo{
			OilDensity:           f.OilDensity,
			WaterDensity:         f.WaterDensity,
			GasDensity:           f.GasDensity,
			OilViscosity:         f.OilViscosity,
			WaterViscosity:       f.WaterViscosity,
			GasFactor:            f.GasFactor,
			BubblePointPressure:  f.BubblePointPressure,
			ReservoirPressure:    f.ReservoirPressure,
			ReservoirTemperature: f.ReservoirTemperature,
			ParticleContent:      f.ParticleContent,
		},
		LinePressure: lp,
		LiquidRate:   rec.LiquidRate,
		Watercut:     rec.Watercut,
	}
}

// NodeID returns the external id of node v, or "" for an unresolved index
func (n *Network) NodeID(v int) string {
	if v < 0 || v >= len(n.Nodes) {
		return ""
	}
	return n.Nodes[v].ID
}
