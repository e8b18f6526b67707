package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/uptimemon/internal/domain"
	"github.com/hamed0406/uptimemon/internal/metrics"
	"github.com/hamed0406/uptimemon/internal/notify"
	"github.com/hamed0406/uptimemon/internal/probe"
	"github.com/hamed0406/uptimemon/internal/repo"
)

// Sweeper drives the monitoring engine: one full pass over the stored
// checks at startup and on every interval tick after that. Each check
// runs its own pipeline (read, normalize, probe, persist, alert) and no
// pipeline failure reaches another check or the loop itself.
type Sweeper struct {
	Logger      *zap.Logger
	Store       repo.RecordStore
	Prober      probe.Prober
	Notifier    notify.Notifier
	Metrics     *metrics.Collector
	Interval    time.Duration
	Concurrency int

	now func() time.Time // test seam
}

func NewSweeper(
	logger *zap.Logger,
	store repo.RecordStore,
	prober probe.Prober,
	notifier notify.Notifier,
	mc *metrics.Collector,
	interval time.Duration,
	concurrency int,
) *Sweeper {
	if concurrency < 1 {
		concurrency = 1
	}
	if interval <= 0 {
		interval = time.Minute
	}
	if mc == nil {
		mc = metrics.NewCollector()
	}
	return &Sweeper{
		Logger:      logger,
		Store:       store,
		Prober:      prober,
		Notifier:    notifier,
		Metrics:     mc,
		Interval:    interval,
		Concurrency: concurrency,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Run starts the loop: an immediate sweep, then one per tick until ctx is
// cancelled. Sweeps never overlap: runOnce returns only after every
// pipeline in the pass has finished, and ticks are consumed serially. A
// tick that fires mid-sweep starts the next sweep as soon as the current
// one completes.
func (s *Sweeper) Run(ctx context.Context) {
	t := time.NewTicker(s.Interval)
	defer t.Stop()

	s.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			s.Logger.Info("sweeper_stopped")
			return
		case <-t.C:
			s.runOnce(ctx)
		}
	}
}

func (s *Sweeper) runOnce(ctx context.Context) {
	ids, err := s.Store.List(ctx, repo.Checks)
	if err != nil {
		s.Logger.Warn("sweep_list_error", zap.Error(err))
		return
	}

	sem := make(chan struct{}, s.Concurrency)
	var wg sync.WaitGroup

	for _, id := range ids {
		id := id
		sem <- struct{}{}
		wg.Add(1)
		go func() {
			defer func() { <-sem }()
			defer wg.Done()
			s.pipeline(ctx, id)
		}()
	}

	wg.Wait()
	s.Metrics.SweepDone()
}

// pipeline runs one check end to end. Every failure is terminal for this
// check and this sweep only; the stored record is left for the next sweep
// to retry.
func (s *Sweeper) pipeline(ctx context.Context, id string) {
	var chk domain.Check
	if err := s.Store.Read(ctx, repo.Checks, id, &chk); err != nil {
		switch {
		case errors.Is(err, repo.ErrNotFound):
			// deleted between List and Read; not an error
			s.Logger.Debug("check_vanished", zap.String("check_id", id))
			s.Metrics.Skipped("vanished")
		case errors.Is(err, repo.ErrCorrupt):
			s.Logger.Warn("check_corrupt", zap.String("check_id", id), zap.Error(err))
			s.Metrics.Skipped("corrupt")
		default:
			s.Logger.Warn("check_read_error", zap.String("check_id", id), zap.Error(err))
			s.Metrics.Skipped("read_error")
		}
		return
	}

	if err := domain.Normalize(&chk); err != nil {
		s.Logger.Warn("check_invalid", zap.String("check_id", id), zap.Error(err))
		s.Metrics.Skipped("invalid")
		return
	}

	s.Metrics.ProbeStarted()
	out := s.Prober.Probe(ctx, chk)
	s.Metrics.ProbeFinished()

	s.processOutcome(ctx, chk, out)
}

// processOutcome classifies the probe result, persists the new state and
// dispatches an alert when the transition warrants one. The stored record
// stays the source of truth: if the update fails the computed result is
// discarded and no alert goes out.
func (s *Sweeper) processOutcome(ctx context.Context, chk domain.Check, out probe.Outcome) {
	newState := domain.StateDown
	if !out.Failed() && chk.AcceptsCode(out.ResponseCode) {
		newState = domain.StateUp
	}

	// A check's very first probe never alerts, whatever it finds.
	alertWarranted := chk.LastChecked != nil && chk.State != newState

	now := s.now()
	chk.State = newState
	chk.LastChecked = &now

	if err := s.Store.Update(ctx, repo.Checks, chk.ID, &chk); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			s.Logger.Info("check_deleted_midsweep", zap.String("check_id", chk.ID))
		} else {
			s.Logger.Warn("check_update_error", zap.String("check_id", chk.ID), zap.Error(err))
		}
		return
	}

	s.Metrics.ProbeDone(string(newState))
	s.Logger.Debug("check_probed",
		zap.String("check_id", chk.ID),
		zap.String("url", chk.Target()),
		zap.Int("status", out.ResponseCode),
		zap.String("err_kind", string(out.ErrKind)),
		zap.Float64("latency_ms", out.LatencyMS),
		zap.String("state", string(newState)),
	)

	if alertWarranted {
		s.alert(ctx, chk)
	}
}

func (s *Sweeper) alert(ctx context.Context, chk domain.Check) {
	msg := fmt.Sprintf("Alert: your check for %s %s is currently %s",
		strings.ToUpper(chk.Method), chk.Target(), chk.State)

	if s.Notifier == nil {
		s.Logger.Warn("alert_no_transport", zap.String("check_id", chk.ID))
		return
	}
	if err := s.Notifier.Send(ctx, chk.Phone, msg); err != nil {
		// best effort: state is already persisted, delivery is not rolled back
		s.Logger.Warn("alert_send_error", zap.String("check_id", chk.ID), zap.Error(err))
		s.Metrics.AlertFailed()
		return
	}
	s.Metrics.AlertSent()
	s.Logger.Info("alert_sent",
		zap.String("check_id", chk.ID),
		zap.String("phone", chk.Phone),
		zap.String("state", string(chk.State)),
	)
}
