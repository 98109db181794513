package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/subcommands"
	"go.uber.org/zap"

	"github.com/etnz/vendas"
	"github.com/etnz/vendas/backup"
	"github.com/etnz/vendas/logger"
	"github.com/etnz/vendas/web"
)

type serveCmd struct{ addr string }

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "run the web application" }
func (*serveCmd) Usage() string {
	return `vendas serve [-addr <host:port>]

  Serves the web application until interrupted. When backup.schedule is
  configured, the ledger is also backed up on that schedule.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", "", "listen address, overrides server.addr")
}

func (c *serveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	if c.addr != "" {
		cfg.Server.Addr = c.addr
	}
	mode := cfg.Server.Mode
	if *Verbose {
		mode = "debug"
	}
	log, err := logger.New(mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		return subcommands.ExitFailure
	}
	defer log.Sync()

	ledger := vendas.Open(vendas.NewFileStore(cfg.DataFile, log), vendas.WithLogger(log))

	var scheduler *backup.Scheduler
	if cfg.Backup.Schedule != "" {
		scheduler, err = backup.NewScheduler(ledger, cfg.Backup.Dir, cfg.Backup.Schedule, cfg.Backup.Keep, log)
		if err != nil {
			log.Error("invalid backup schedule", zap.Error(err))
			return subcommands.ExitFailure
		}
		scheduler.Start()
	}

	server := web.NewServer(ledger, log, cfg.Server.Addr, mode)
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() { errc <- server.Run() }()

	status := subcommands.ExitSuccess
	select {
	case err := <-errc:
		if err != nil {
			log.Error("web server failed", zap.Error(err))
			status = subcommands.ExitFailure
		}
	case <-ctx.Done():
		log.Info("shutting down")
	}

	shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdown); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		log.Error("could not stop the web server", zap.Error(err))
	}
	if scheduler != nil {
		scheduler.Stop(shutdown)
	}
	return status
}

type backupCmd struct{ keep int }

func (*backupCmd) Name() string     { return "backup" }
func (*backupCmd) Synopsis() string { return "copy the ledger into the backup directory" }
func (*backupCmd) Usage() string {
	return `vendas backup [-keep <n>]

  Writes a timestamped copy of the ledger in backup.dir, then removes the
  oldest copies so that only the newest ones are kept.
`
}

func (c *backupCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.keep, "keep", 0, "number of backups to keep, overrides backup.keep")
}

func (c *backupCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, cfg, err := OpenLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	keep := cfg.Backup.Keep
	if c.keep > 0 {
		keep = c.keep
	}
	path, err := backup.Now(ledger, cfg.Backup.Dir, time.Now())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(stdout, "Backup written to %s\n", path)

	removed, err := backup.Prune(cfg.Backup.Dir, keep)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error pruning backups: %v\n", err)
		return subcommands.ExitFailure
	}
	for _, r := range removed {
		fmt.Fprintf(stdout, "Removed old backup %s\n", r)
	}
	return subcommands.ExitSuccess
}
