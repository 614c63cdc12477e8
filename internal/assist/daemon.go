package assist

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kakuhq/kaku-assist/internal/history"
	"github.com/kakuhq/kaku-assist/internal/logging"
)

// evictionInterval is how often dead panes and orphan job dirs are swept.
const evictionInterval = time.Minute

// Daemon is the long-running background process. It owns the spool
// watcher, the Manager, and periodic maintenance.
type Daemon struct {
	manager *Manager
	watcher *SpoolWatcher
	jobsDir string
	history *history.Store
}

// NewDaemon assembles the daemon from the state directory layout.
func NewDaemon() (*Daemon, error) {
	if err := EnsureStateDirs(); err != nil {
		return nil, fmt.Errorf("preparing state dirs: %w", err)
	}
	eventsDir, err := EventsDir()
	if err != nil {
		return nil, err
	}
	jobsDir, err := JobsDir()
	if err != nil {
		return nil, err
	}
	if _, err := EnsureSettingsFile(); err != nil {
		return nil, fmt.Errorf("preparing settings: %w", err)
	}

	runner, err := NewRunner(jobsDir)
	if err != nil {
		return nil, err
	}

	hist, err := history.Open(HistoryDBPath())
	if err != nil {
		// History is an add-on; the assistant still works without it.
		logging.ForComponent(logging.CompHistory).Warn("history_unavailable", slog.Any("error", err))
		hist = nil
	}

	return &Daemon{
		manager: NewManager(runner, hist),
		watcher: NewSpoolWatcher(eventsDir),
		jobsDir: jobsDir,
		history: hist,
	}, nil
}

// Run processes events until ctx ends.
func (d *Daemon) Run(ctx context.Context) error {
	log := logging.ForComponent(logging.CompDaemon)
	log.Info("daemon_started", slog.String("jobs_dir", d.jobsDir))
	defer d.history.Close()

	SweepOrphanJobs(d.jobsDir)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return d.watcher.Run(ctx)
	})

	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case ev, ok := <-d.watcher.Events():
				if !ok {
					return nil
				}
				d.manager.Handle(ctx, ev)
			}
		}
	})

	g.Go(func() error {
		tick := time.NewTicker(evictionInterval)
		defer tick.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-tick.C:
				d.manager.EvictDeadPanes()
				SweepOrphanJobs(d.jobsDir)
			}
		}
	})

	err := g.Wait()
	log.Info("daemon_stopped")
	return err
}
