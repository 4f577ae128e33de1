package store

import (
	"context"
	"time"

	"github.com/avido/experiments-data-api/log"
	"github.com/avido/experiments-data-api/query"
	"github.com/hashicorp/go-multierror"
	"go.uber.org/atomic"
)

type snapshot map[string][]query.Record

// Snapshotter serves collections from an in-memory copy of another source. The copy is replaced
// as a whole on each refresh so readers never observe a partially refreshed state.
type Snapshotter struct {
	ctx             context.Context
	cancel          context.CancelFunc
	source          Source
	refreshInterval time.Duration
	current         atomic.Value
	refreshes       atomic.Int64
	logger          log.Logger
}

// NewSnapshotter loads the first snapshot, failing when any collection cannot be read.
func NewSnapshotter(ctx context.Context, source Source, refreshInterval time.Duration, logger log.Logger) (*Snapshotter, error) {
	s := &Snapshotter{
		source:          source,
		refreshInterval: refreshInterval,
		logger:          logger,
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())

	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Snapshotter) Collection(_ context.Context, name string) ([]query.Record, error) {
	current := s.current.Load().(snapshot)
	records, ok := current[name]
	if !ok {
		return nil, &UnknownCollectionError{Name: name}
	}
	result := make([]query.Record, len(records))
	copy(result, records)
	return result, nil
}

// Refresh reads every collection and swaps the snapshot. The previous snapshot is kept on error.
func (s *Snapshotter) Refresh(ctx context.Context) error {
	next := make(snapshot, len(Collections))
	var result *multierror.Error
	for _, name := range Collections {
		records, err := s.source.Collection(ctx, name)
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		next[name] = records
	}

	if err := result.ErrorOrNil(); err != nil {
		return err
	}

	s.current.Store(next)
	s.refreshes.Inc()
	return nil
}

// Refreshes returns the amount of snapshots loaded so far, including the first one.
func (s *Snapshotter) Refreshes() int64 {
	return s.refreshes.Load()
}

// Start refreshes the snapshot periodically until Stop is called. It blocks, a refresh interval
// of zero or less returns immediately.
func (s *Snapshotter) Start() {
	if s.refreshInterval <= 0 {
		return
	}
	for s.sleep() {
		if err := s.Refresh(s.ctx); err != nil {
			s.logger.Error("unable to refresh snapshot, serving previous one",
				"error", err)
		} else {
			s.logger.Debug("snapshot refreshed", "refreshes", s.Refreshes())
		}
	}
}

func (s *Snapshotter) Stop() {
	s.cancel()
}

func (s *Snapshotter) sleep() bool {
	select {
	case <-time.After(s.refreshInterval):
		return true
	case <-s.ctx.Done():
		return false
	}
}
