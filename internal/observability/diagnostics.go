package observability

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Diagnostics receives non-fatal conversion warnings. *zap.Logger
// satisfies it directly.
type Diagnostics interface {
	Warn(msg string, fields ...zap.Field)
}

// Warning is one collected diagnostic.
type Warning struct {
	Message string         `yaml:"message" json:"message"`
	Fields  map[string]any `yaml:"fields,omitempty" json:"fields,omitempty"`
}

// Collector records warnings in memory and optionally forwards them.
type Collector struct {
	mu       sync.Mutex
	warnings []Warning
	next     Diagnostics
}

// NewCollector returns a collector forwarding to next, which may be nil.
func NewCollector(next Diagnostics) *Collector {
	return &Collector{next: next}
}

// Warn records the warning and forwards it.
func (c *Collector) Warn(msg string, fields ...zap.Field) {
	w := Warning{Message: msg}
	if len(fields) > 0 {
		enc := zapcore.NewMapObjectEncoder()
		for _, f := range fields {
			f.AddTo(enc)
		}
		w.Fields = enc.Fields
	}

	c.mu.Lock()
	c.warnings = append(c.warnings, w)
	c.mu.Unlock()

	if c.next != nil {
		c.next.Warn(msg, fields...)
	}
}

// Warnings returns a copy of what has been collected.
func (c *Collector) Warnings() []Warning {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Warning, len(c.warnings))
	copy(out, c.warnings)
	return out
}

// Len is the number of collected warnings.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.warnings)
}
