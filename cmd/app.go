// Package cmd implements the CLI application to manage the sales ledger.
package cmd

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"go.uber.org/zap"

	"github.com/etnz/vendas"
	"github.com/etnz/vendas/config"
	"github.com/etnz/vendas/logger"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	for _, cmd := range Commands() {
		c.Register(cmd, groups[cmd.Name()])
	}
}

// Commands returns every subcommand, in display order.
func Commands() []subcommands.Command {
	return []subcommands.Command{
		&addClientCmd{}, &editClientCmd{}, &rmClientCmd{}, &clientsCmd{},
		&addStockCmd{}, &editStockCmd{}, &rmStockCmd{}, &stockCmd{}, &findStockCmd{},
		&saleCmd{}, &payCmd{},
		&dashboardCmd{}, &historyCmd{}, &reportCmd{},
		&serveCmd{}, &backupCmd{},
		&topicCmd{},
	}
}

var groups = map[string]string{
	"add-client": "clients", "edit-client": "clients", "rm-client": "clients", "clients": "clients",
	"add-stock": "stock", "edit-stock": "stock", "rm-stock": "stock", "stock": "stock", "find-stock": "stock",
	"sale": "transactions", "pay": "transactions",
	"dashboard": "reports", "history": "reports", "report": "reports",
	"serve": "server", "backup": "server",
	"topic": "help",
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	configFile = flag.String("config", "", "Path to an optional YAML configuration file")
	dataFile   = flag.String("data-file", "", "Path to the ledger JSON file, overrides the data_file setting")
	Verbose    = flag.Bool("v", false, "log debug messages to stderr")
	plain      = flag.Bool("plain", false, "print raw Markdown instead of styling it for the terminal")
)

// stdout receives the command output.
var stdout io.Writer = os.Stdout

// loadConfig reads the configuration and applies the global flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(*configFile)
	if err != nil {
		return nil, err
	}
	if *dataFile != "" {
		cfg.DataFile = *dataFile
	}
	return cfg, nil
}

// newLogger returns the CLI logger: silent unless -v is set.
func newLogger() *zap.Logger {
	if !*Verbose {
		return zap.NewNop()
	}
	l, err := logger.New("debug")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not create logger: %v\n", err)
		return zap.NewNop()
	}
	return l
}

// OpenLedger is the central function to open the ledger from the configured data file.
func OpenLedger() (*vendas.Ledger, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	log := newLogger()
	store := vendas.NewFileStore(cfg.DataFile, log)
	return vendas.Open(store, vendas.WithLogger(log)), cfg, nil
}

// printMarkdown prints a Markdown document, styled when stdout is a terminal.
func printMarkdown(md string) {
	if *plain {
		fmt.Fprint(stdout, md)
		return
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err != nil {
		fmt.Fprint(stdout, md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Fprint(stdout, md)
		return
	}
	fmt.Fprint(stdout, out)
}
