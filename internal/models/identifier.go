package models

import (
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	PatientKeyPrefix    = "patient_"
	MedicationKeyPrefix = "medication_"
)

// IDGenerator issues <prefix><unix millis> identifiers. When the clock has
// not advanced since the previous identifier the millisecond is bumped, so a
// single generator never repeats itself.
type IDGenerator struct {
	mu   sync.Mutex
	now  func() time.Time
	last int64
}

func NewIDGenerator(now func() time.Time) *IDGenerator {
	if now == nil {
		now = time.Now
	}
	return &IDGenerator{now: now}
}

func (g *IDGenerator) Next(prefix string) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := g.now().UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms
	return prefix + strconv.FormatInt(ms, 10)
}

// TimestampOf extracts the millisecond part of an identifier.
func TimestampOf(id string) (time.Time, bool) {
	i := strings.LastIndexByte(id, '_')
	if i < 0 || i == len(id)-1 {
		return time.Time{}, false
	}
	ms, err := strconv.ParseInt(id[i+1:], 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.UnixMilli(ms), true
}
