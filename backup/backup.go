// Package backup keeps timestamped copies of the ledger.
package backup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/etnz/vendas"
)

const (
	prefix = "vendas-"
	suffix = ".json"
	layout = "20060102-150405"
)

// Source provides the data to back up. *vendas.Ledger is a Source.
type Source interface {
	Snapshot() *vendas.Snapshot
}

// Now writes a copy of the current snapshot in dir and returns its path.
//
// Copies are named after the time they are taken, so that listing the
// directory in lexical order lists them from the oldest to the newest.
func Now(src Source, dir string, at time.Time) (string, error) {
	name := prefix + at.Format(layout) + "-" + uuid.NewString()[:8] + suffix
	path := filepath.Join(dir, name)
	if err := vendas.NewFileStore(path, nil).Save(src.Snapshot()); err != nil {
		return "", fmt.Errorf("could not write backup %q: %w", path, err)
	}
	return path, nil
}

// List returns the backups in dir, oldest first.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), prefix) && strings.HasSuffix(e.Name(), suffix) {
			names = append(names, filepath.Join(dir, e.Name()))
		}
	}
	slices.Sort(names)
	return names, nil
}

// Prune removes the oldest backups in dir, keeping the newest keep ones. It
// returns the removed files.
func Prune(dir string, keep int) ([]string, error) {
	names, err := List(dir)
	if err != nil {
		return nil, err
	}
	if len(names) <= keep {
		return nil, nil
	}
	old := names[:len(names)-keep]
	for _, name := range old {
		if err := os.Remove(name); err != nil {
			return nil, fmt.Errorf("could not remove old backup: %w", err)
		}
	}
	return old, nil
}

// Scheduler takes backups on a cron schedule.
type Scheduler struct {
	cron   *cron.Cron
	src    Source
	dir    string
	keep   int
	logger *zap.Logger
	now    func() time.Time
}

// NewScheduler returns a scheduler backing src up to dir according to the
// cron spec (like "0 3 * * *" or "@daily"), keeping the newest keep copies.
func NewScheduler(src Source, dir, spec string, keep int, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if keep < 1 {
		return nil, fmt.Errorf("backups to keep must be at least 1, got %d", keep)
	}
	s := &Scheduler{
		cron:   cron.New(),
		src:    src,
		dir:    dir,
		keep:   keep,
		logger: logger,
		now:    time.Now,
	}
	if _, err := s.cron.AddFunc(spec, s.run); err != nil {
		return nil, fmt.Errorf("invalid backup schedule %q: %w", spec, err)
	}
	return s, nil
}

// Start runs the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("backup scheduler started", zap.String("dir", s.dir), zap.Int("keep", s.keep))
}

// Stop stops the scheduler and waits for a running backup to complete, or for
// ctx to be done.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

func (s *Scheduler) run() {
	path, err := Now(s.src, s.dir, s.now())
	if err != nil {
		s.logger.Error("backup failed", zap.Error(err))
		return
	}
	s.logger.Info("backup written", zap.String("path", path))

	removed, err := Prune(s.dir, s.keep)
	if err != nil {
		s.logger.Error("backup pruning failed", zap.Error(err))
		return
	}
	for _, name := range removed {
		s.logger.Debug("old backup removed", zap.String("path", name))
	}
}
