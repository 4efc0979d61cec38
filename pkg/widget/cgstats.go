// Package widget exposes cgroup CPU statistics through the two-phase
// prepare/print protocol of the status report.
package widget

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/srodi/cgstats/pkg/collector/cgroup"
	"github.com/srodi/cgstats/pkg/logger"
	"github.com/srodi/cgstats/pkg/report"
	"github.com/srodi/cgstats/pkg/store"
	"github.com/srodi/cgstats/pkg/types"
	"github.com/srodi/cgstats/pkg/ui"
)

// Constraints is what the widget asks of the host's layout.
type Constraints struct {
	MinWidth int
}

// Options wires a CgStats widget.
type Options struct {
	Reader    *cgroup.Reader
	Store     store.Store
	CPUs      int // CPUs to average over; 0 detects them
	Threshold float64
	Style     ui.Style
	Log       logger.Logger
	Now       func() time.Time
}

// CgStats compares live cgroup counters against the snapshot left by the
// previous run and replaces that snapshot.
type CgStats struct {
	reader    *cgroup.Reader
	store     store.Store
	cpus      int
	threshold float64
	style     ui.Style
	log       logger.Logger
	now       func() time.Time

	prepared *types.PreparedResult
	err      error
}

// New returns a widget ready for Prepare.
func New(opts Options) *CgStats {
	c := &CgStats{
		reader:    opts.Reader,
		store:     opts.Store,
		cpus:      opts.CPUs,
		threshold: opts.Threshold,
		style:     opts.Style,
		log:       opts.Log,
		now:       opts.Now,
	}
	if c.reader == nil {
		c.reader = cgroup.NewReader("", nil)
	}
	if c.cpus <= 0 {
		c.cpus = cgroup.CPUCount()
	}
	if c.log == nil {
		c.log = logger.Nop()
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c
}

// Prepare collects the data and reports the minimum width needed to print
// it. When only saving the new snapshot fails, the result is kept for Print
// and the save error is returned alongside the constraints.
func (c *CgStats) Prepare(ctx context.Context) (Constraints, error) {
	result, err := c.prepare(ctx)
	c.prepared = result
	c.err = err
	if err != nil {
		c.log.Error("cgroup statistics failed", "error", err)
	}
	if result == nil {
		return Constraints{}, err
	}
	return Constraints{MinWidth: ui.MinWidth(result.MaxNameWidth)}, err
}

// Result returns the prepared data, or nil when Prepare failed.
func (c *CgStats) Result() *types.PreparedResult {
	return c.prepared
}

// Print writes the report at the negotiated width, followed by the error
// line when Prepare failed.
func (c *CgStats) Print(w io.Writer, width int) error {
	if c.prepared != nil {
		if err := ui.Render(w, c.style, *c.prepared, width); err != nil {
			return err
		}
	}
	if c.err != nil {
		return ui.RenderError(w, c.err)
	}
	return nil
}

func (c *CgStats) prepare(ctx context.Context) (*types.PreparedResult, error) {
	if c.store == nil {
		return nil, errors.New("no snapshot store configured")
	}

	current, warnings, err := c.reader.Snapshot(c.now())
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		c.log.Warn("cannot determine user name", "key", w.Key, "fallback", w.Fallback, "reason", w.Reason)
	}

	result := &types.PreparedResult{}
	var computeErr error

	prior, err := c.store.Load(ctx)
	switch {
	case errors.Is(err, store.ErrNoSnapshot):
		c.log.Debug("no previous snapshot, starting a new baseline", "error", err)
	case err != nil:
		c.log.Warn("ignoring previous snapshot", "error", err)
	default:
		computed, err := report.Compute(current, prior, c.cpus, c.threshold)
		if err != nil {
			result, computeErr = nil, err
		} else {
			result = &computed
		}
	}

	// Replaced even when the old snapshot was unusable.
	if err := c.store.Save(ctx, current); err != nil {
		return result, errors.Join(computeErr, err)
	}
	return result, computeErr
}
