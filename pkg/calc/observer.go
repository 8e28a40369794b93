package calc

import (
	"time"

	"github.com/dd0wney/cluso-pipenet/pkg/hydraulics"
	"github.com/dd0wney/cluso-pipenet/pkg/metrics"
)

// recordObserver routes physics callbacks into the result records. The
// records slice is shared by all subnets; each subnet only touches its own
// edge indices.
type recordObserver struct {
	records []HydrCalcDataRec
}

func (o *recordObserver) Step(pos hydraulics.StepPosition, s *hydraulics.Sample, c hydraulics.Cookie) {
	r := &o.records[c.Edge]
	switch pos {
	case hydraulics.StepBegin:
		r.begin()
	case hydraulics.StepInlet, hydraulics.StepOutlet:
		r.point(pos, s, c)
	}
}

func (o *recordObserver) Failed(c hydraulics.Cookie, err error) {
	o.records[c.Edge].fail(err)
}

// meteredDropper times every physics call
type meteredDropper struct {
	inner   hydraulics.PressureDropper
	metrics *metrics.Registry
}

func (d *meteredDropper) DropLiquid(req *hydraulics.DropRequest, step hydraulics.StepFunc) (float64, error) {
	start := time.Now()
	p, err := d.inner.DropLiquid(req, step)
	d.metrics.RecordPhysicsCall(err != nil, time.Since(start))
	return p, err
}
