package ingest

import (
	"log"
	"math"
	"time"
)

// Progress reports corpus throughput at a backing-off cadence: after
// document 10, 20, 50, 100, 200, 500, 1000 and so on. It only observes
// the iteration and never affects what is read.
type Progress struct {
	// Logf receives the report lines. Defaults to log.Printf.
	Logf func(format string, args ...any)
	// Now is the clock. Defaults to time.Now.
	Now func() time.Time

	step, scale int
	lastDoc     int
	lastTime    time.Time
}

// NewProgress creates a progress reporter logging through log.Printf.
func NewProgress() *Progress {
	return &Progress{}
}

func (p *Progress) reset() {
	p.step = 1
	p.scale = 10
	p.lastDoc = 0
	p.lastTime = p.now()
}

func (p *Progress) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

// Observe records that doc documents have been read so far and reports
// when doc hits the next reporting boundary.
func (p *Progress) Observe(doc int) {
	if p == nil {
		return
	}
	if p.step == 0 {
		p.reset()
	}
	if doc%(p.step*p.scale) != 0 {
		return
	}

	t := p.now()
	rate := 0.0
	if elapsed := t.Sub(p.lastTime).Seconds(); elapsed > 0 {
		rate = float64(doc-p.lastDoc) / elapsed
	}
	p.logf("Doc %d (%.0f doc/s)", doc, rate)
	p.lastDoc = doc
	p.lastTime = t

	p.step = int(math.Floor(float64(p.step) * 2.55))
	if p.step >= 10 {
		p.step = 1
		p.scale *= 10
	}
}

func (p *Progress) logf(format string, args ...any) {
	if p.Logf != nil {
		p.Logf(format, args...)
		return
	}
	log.Printf(format, args...)
}
