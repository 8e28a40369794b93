package logging

import (
	"math"
	"time"
)

// Common field constructors
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

func Float64(key string, value float64) Field {
	return Field{Key: key, Value: value}
}

func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.String()}
}

func Error(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

func Any(key string, value any) Field {
	return Field{Key: key, Value: value}
}

func Component(name string) Field {
	return String("component", name)
}

func Operation(op string) Field {
	return String("operation", op)
}

func Latency(d time.Duration) Field {
	return Duration("latency", d)
}

func Count(n int) Field {
	return Int("count", n)
}

func Path(p string) Field {
	return String("path", p)
}

// Network field helpers

func RunID(id string) Field {
	return String("run_id", id)
}

func Subnet(id int) Field {
	return Int("subnet", id)
}

func EdgeIndex(i int) Field {
	return Int("edge", i)
}

func NodeIndex(i int) Field {
	return Int("node", i)
}

// NodeID is the external identifier of a node
func NodeID(id string) Field {
	return String("node_id", id)
}

func WellID(id string) Field {
	return String("well_id", id)
}

// Pressure records a pressure in atm; undetermined pressures are logged as null
func Pressure(key string, p float64) Field {
	if math.IsNaN(p) {
		return Field{Key: key, Value: nil}
	}
	return Float64(key, p)
}
