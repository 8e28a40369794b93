// Package calc runs the hydraulic solver over every subnet of a network and
// collects one classified result record per edge.
package calc

import (
	"fmt"
	"math"
	"strings"
)

// CalcStatus is the progress or final classification of an edge record
type CalcStatus int

const (
	// Virgin: the edge was never calculated
	Virgin CalcStatus = iota
	// Started: the physics call began but reported no point yet
	Started
	// Half: one of the two points was reported
	Half
	// Full: both points were reported
	Full
	// Success: calculated, both end pressures known
	Success
	// ExtraP: both end pressures known without this edge being calculated
	ExtraP
	// NoData: the edge could not be resolved from the available data
	NoData
	// Failed: the calculation failed or did not complete
	Failed
)

var statusNames = [...]string{
	Virgin:  "virgin",
	Started: "started",
	Half:    "half",
	Full:    "full",
	Success: "success",
	ExtraP:  "extrap",
	NoData:  "nodata",
	Failed:  "failed",
}

func (s CalcStatus) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return fmt.Sprintf("status(%d)", int(s))
	}
	return statusNames[s]
}

// ParseCalcStatus returns the status with the given name
func ParseCalcStatus(name string) (CalcStatus, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range statusNames {
		if n == name {
			return CalcStatus(i), nil
		}
	}
	return Virgin, fmt.Errorf("unknown calc status %q", name)
}

// MarshalText encodes the status by name
func (s CalcStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a status name
func (s *CalcStatus) UnmarshalText(b []byte) error {
	v, err := ParseCalcStatus(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// IsTransient reports whether the status only appears while an edge is being calculated
func (s CalcStatus) IsTransient() bool {
	return s == Started || s == Half || s == Full
}

// IsTerminal reports whether the status can be the final classification of a
// filled record. Virgin is terminal for edges no calculation touched.
func (s CalcStatus) IsTerminal() bool {
	return s >= Virgin && s <= Failed && !s.IsTransient()
}

// Classify returns the final status of a record given its progress, whether
// any fluid was seen for the edge, and the pressures at NodeA and NodeB
func Classify(prior CalcStatus, fluidSeen bool, p0, p1 float64) CalcStatus {
	known0, known1 := !math.IsNaN(p0), !math.IsNaN(p1)

	switch prior {
	case Failed, Started, Half:
		return Failed
	case Full:
		if known0 && known1 {
			return Success
		}
		return Failed
	}

	switch {
	case known0 && known1:
		return ExtraP
	case known0 || known1:
		return NoData
	case fluidSeen:
		return NoData
	default:
		return Virgin
	}
}
