package logging

import (
	"strings"
	"sync"
)

// Record is one entry captured by a MemoryLogger
type Record struct {
	Level   Level
	Message string
	Fields  map[string]any
}

// MemoryLogger keeps entries in memory. Children created with With append to
// the same record list.
type MemoryLogger struct {
	sink   *memorySink
	level  *levelHolder
	fields []Field
}

type memorySink struct {
	mu      sync.Mutex
	records []Record
}

// NewMemoryLogger creates a capturing logger at the given level
func NewMemoryLogger(level Level) *MemoryLogger {
	return &MemoryLogger{
		sink:  &memorySink{},
		level: &levelHolder{level: level},
	}
}

func (m *MemoryLogger) record(level Level, msg string, fields []Field) {
	if level < m.level.get() {
		return
	}
	r := Record{Level: level, Message: msg, Fields: make(map[string]any, len(m.fields)+len(fields))}
	for _, f := range m.fields {
		r.Fields[f.Key] = f.Value
	}
	for _, f := range fields {
		r.Fields[f.Key] = f.Value
	}

	m.sink.mu.Lock()
	m.sink.records = append(m.sink.records, r)
	m.sink.mu.Unlock()
}

func (m *MemoryLogger) Debug(msg string, fields ...Field) { m.record(DebugLevel, msg, fields) }
func (m *MemoryLogger) Info(msg string, fields ...Field)  { m.record(InfoLevel, msg, fields) }
func (m *MemoryLogger) Warn(msg string, fields ...Field)  { m.record(WarnLevel, msg, fields) }
func (m *MemoryLogger) Error(msg string, fields ...Field) { m.record(ErrorLevel, msg, fields) }

func (m *MemoryLogger) With(fields ...Field) Logger {
	merged := make([]Field, 0, len(m.fields)+len(fields))
	merged = append(merged, m.fields...)
	merged = append(merged, fields...)
	return &MemoryLogger{sink: m.sink, level: m.level, fields: merged}
}

func (m *MemoryLogger) SetLevel(level Level) { m.level.set(level) }
func (m *MemoryLogger) GetLevel() Level      { return m.level.get() }

// Records returns a copy of everything captured so far
func (m *MemoryLogger) Records() []Record {
	m.sink.mu.Lock()
	defer m.sink.mu.Unlock()
	out := make([]Record, len(m.sink.records))
	copy(out, m.sink.records)
	return out
}

// Find returns the captured records whose message contains substr
func (m *MemoryLogger) Find(substr string) []Record {
	var found []Record
	for _, r := range m.Records() {
		if strings.Contains(r.Message, substr) {
			found = append(found, r)
		}
	}
	return found
}
