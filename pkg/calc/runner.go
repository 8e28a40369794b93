package calc

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/dd0wney/cluso-pipenet/pkg/hydraulics"
	"github.com/dd0wney/cluso-pipenet/pkg/logging"
	"github.com/dd0wney/cluso-pipenet/pkg/metrics"
	"github.com/dd0wney/cluso-pipenet/pkg/network"
	"github.com/dd0wney/cluso-pipenet/pkg/parallel"
	"github.com/dd0wney/cluso-pipenet/pkg/partition"
	"github.com/dd0wney/cluso-pipenet/pkg/validation"
)

// ErrWorkerPanic marks a run in which a subnet solve panicked
var ErrWorkerPanic = errors.New("subnet solve panicked")

// Config controls a run
type Config struct {
	Workers int  // Parallel subnet solves; non-positive means runtime.NumCPU()
	Serial  bool // Solve subnets one at a time in partition order

	Solver hydraulics.Options // Observer and Logger are set per subnet

	TGFDir string // When set, one annotated .tgf file per subnet is written here
	Seeds  []int  // When set, only the subnets holding these edges are solved
}

// SubnetSummary describes one solved subnet
type SubnetSummary struct {
	ID         int           `json:"id"`
	Commodity  int           `json:"commodity"`
	Edges      int           `json:"edges"`
	Unresolved int           `json:"unresolved_nodes"`
	Duration   time.Duration `json:"duration"`
}

// Result is the outcome of a run
type Result struct {
	Records []HydrCalcDataRec
	Subnets []SubnetSummary
}

// StatusCounts returns how many records ended in each status
func (r *Result) StatusCounts() map[CalcStatus]int {
	counts := make(map[CalcStatus]int)
	for i := range r.Records {
		counts[r.Records[i].Status]++
	}
	return counts
}

// Runner solves all subnets of a network
type Runner struct {
	net     *network.Network
	wells   map[int]*network.WellInfo
	dropper hydraulics.PressureDropper
	cfg     Config
	logger  logging.Logger
	metrics *metrics.Registry
}

// Option configures a Runner
type Option func(*Runner)

// WithLogger sets the run logger
func WithLogger(l logging.Logger) Option {
	return func(r *Runner) {
		r.logger = l
	}
}

// WithMetrics records run, subnet and physics metrics in the registry
func WithMetrics(m *metrics.Registry) Option {
	return func(r *Runner) {
		r.metrics = m
	}
}

// NewRunner creates a runner. The dropper must be safe for concurrent use.
func NewRunner(net *network.Network, wells map[int]*network.WellInfo, dropper hydraulics.PressureDropper, cfg Config, opts ...Option) *Runner {
	r := &Runner{
		net:     net,
		wells:   wells,
		dropper: dropper,
		cfg:     cfg,
		logger:  logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.metrics != nil {
		r.dropper = &meteredDropper{inner: dropper, metrics: r.metrics}
	}
	return r
}

func (r *Runner) workers() int {
	if r.cfg.Serial {
		return 1
	}
	return validation.DefaultOrInt(r.cfg.Workers, runtime.NumCPU())
}

// Run partitions the network and solves every subnet on a worker pool.
// Every edge gets exactly one filled record, also when the run is canceled
// or a subnet panics. A panic is returned as an ErrWorkerPanic error; a
// canceled context stops new subnets from starting and returns ctx.Err().
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	timer := logging.StartTimer(r.logger, "network solve",
		logging.Int("edges", len(r.net.Edges)),
		logging.Int("nodes", len(r.net.Nodes)),
		logging.Int("workers", r.workers()))

	records := make([]HydrCalcDataRec, len(r.net.Edges))
	for i, e := range r.net.Edges {
		records[i] = NewRecord(i, e.Length)
	}

	pool, err := parallel.NewWorkerPool(r.workers(), parallel.WithPanicHandler(func(pe *parallel.PanicError) {
		r.logger.Error("subnet solve panicked", logging.Any("panic", pe.Value), logging.String("stack", string(pe.Stack)))
		if r.metrics != nil {
			r.metrics.RecordWorkerPanic()
		}
	}))
	if err != nil {
		timer.EndError(err)
		return nil, fmt.Errorf("create worker pool: %w", err)
	}

	var (
		mu        sync.Mutex
		summaries []SubnetSummary
		subnets   [][]int
	)
	id := 0
	for edges := range partition.New(r.net).Subnets(r.cfg.Seeds...) {
		if ctx.Err() != nil {
			break
		}
		sid := id
		id++
		subnets = append(subnets, edges)
		pool.Submit(func() {
			s := r.solveSubnet(sid, edges, records)
			mu.Lock()
			summaries = append(summaries, s)
			mu.Unlock()
		})
	}
	pool.Close()

	for i := range records {
		if !records[i].Filled() {
			records[i].Fill(nil, math.NaN(), math.NaN())
		}
	}

	sort.Slice(summaries, func(i, j int) bool { return summaries[i].ID < summaries[j].ID })
	result := &Result{Records: records, Subnets: summaries}

	var runErr error
	if panics := pool.Panics(); len(panics) > 0 {
		errs := make([]error, len(panics))
		for i, pe := range panics {
			errs[i] = pe
		}
		runErr = fmt.Errorf("%w: %w", ErrWorkerPanic, errors.Join(errs...))
	} else if ctx.Err() != nil {
		runErr = ctx.Err()
	}

	r.record(result, subnets, runErr, timer.Elapsed())
	if runErr != nil {
		timer.EndError(runErr)
	} else {
		timer.End(logging.Int("subnets", len(summaries)))
	}
	return result, runErr
}

// solveSubnet runs the solver for one subnet and fills its records
func (r *Runner) solveSubnet(id int, edges []int, records []HydrCalcDataRec) SubnetSummary {
	start := time.Now()
	if r.metrics != nil {
		r.metrics.WorkerStarted()
		defer r.metrics.WorkerDone()
	}

	for _, ei := range edges {
		records[ei].SubnetID = id
	}

	logger := r.logger.With(logging.Subnet(id))
	opts := r.cfg.Solver
	opts.Logger = logger
	opts.Observer = &recordObserver{records: records}

	impl := hydraulics.NewImpl(r.net, edges, r.wells, r.dropper, opts)
	impl.Solve()

	infos := impl.EdgeInfos()
	for _, ei := range edges {
		var fluid *network.FluidInfo
		if info, ok := infos[ei]; ok {
			records[ei].SetFlow(info)
			fluid = info.Fluid
		}
		e := r.net.Edges[ei]
		records[ei].Fill(fluid, impl.NodePressure(e.NodeA), impl.NodePressure(e.NodeB))
	}

	summary := SubnetSummary{
		ID:         id,
		Edges:      len(edges),
		Unresolved: len(impl.Unresolved()),
		Duration:   time.Since(start),
	}
	if len(edges) > 0 {
		summary.Commodity = int(r.net.Edges[edges[0]].Commodity)
	}

	if r.cfg.TGFDir != "" {
		if err := r.writeTGF(id, edges, records, impl); err != nil {
			logger.Warn("failed to write subnet graph", logging.Error(err))
		}
	}

	logger.Debug("subnet solved",
		logging.Count(len(edges)),
		logging.Int("unresolved_nodes", summary.Unresolved),
		logging.Latency(summary.Duration))
	if r.metrics != nil {
		r.metrics.RecordSubnet("ok", len(edges), summary.Unresolved, summary.Duration)
		r.metrics.SampleProcess()
	}
	return summary
}

// writeTGF dumps a solved subnet with node pressures and edge statuses
func (r *Runner) writeTGF(id int, edges []int, records []HydrCalcDataRec, impl *hydraulics.Impl) error {
	path := filepath.Join(r.cfg.TGFDir, fmt.Sprintf("subnet-%04d.tgf", id))
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	ann := partition.Annotator{
		Node: func(v int) string {
			p := impl.NodePressure(v)
			if math.IsNaN(p) {
				return ""
			}
			return fmt.Sprintf(" P=%.3f", p)
		},
		Edge: func(ei int) string {
			rec := &records[ei]
			return fmt.Sprintf(" Q=%.2f %s", rec.LiquidRate, rec.Status)
		},
	}
	if err := partition.WriteTGF(f, r.net, edges, ann); err != nil {
		return err
	}
	return f.Close()
}

func (r *Runner) record(result *Result, subnets [][]int, runErr error, elapsed time.Duration) {
	if r.metrics == nil {
		return
	}

	status := "ok"
	switch {
	case errors.Is(runErr, ErrWorkerPanic):
		status = "error"
	case runErr != nil:
		status = "canceled"
	}
	r.metrics.RecordRun(status, elapsed, len(r.net.Edges), len(r.net.Nodes))

	pm := partition.ComputePartitionMetrics(r.net, subnets)
	r.metrics.RecordPartition(pm.SkippedEdges, pm.LargestShare)

	counts := make(map[string]int)
	for status, n := range result.StatusCounts() {
		counts[status.String()] = n
	}
	r.metrics.RecordEdgeStatuses(counts)
}
