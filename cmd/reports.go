package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/etnz/vendas/date"
	"github.com/etnz/vendas/renderer"
)

type dashboardCmd struct{}

func (*dashboardCmd) Name() string     { return "dashboard" }
func (*dashboardCmd) Synopsis() string { return "display the totals and the clients owing money" }
func (*dashboardCmd) Usage() string {
	return `vendas dashboard

  Displays the totals, the latest transactions and the clients with an
  outstanding balance.
`
}

func (c *dashboardCmd) SetFlags(f *flag.FlagSet) {}

func (c *dashboardCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, _, err := OpenLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.RenderDashboard(renderer.NewDashboard(ledger.Snapshot())))
	return subcommands.ExitSuccess
}

type historyCmd struct {
	period string
	date   string
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "display sales and payments, most recent first" }
func (*historyCmd) Usage() string {
	return `vendas history [-period day|week|month|year] [-d <date>]

  Displays every sale and payment, most recent first. With -period, only the
  transactions from the start of the period up to the date are shown.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.period, "period", "", "restrict to the current day, week, month or year")
	f.StringVar(&c.date, "d", date.Today().String(), "end date of the period")
}

func (c *historyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := date.Parse(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	ledger, _, err := OpenLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	h, err := renderer.NewHistory(ledger.Snapshot(), c.period, on)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	printMarkdown(renderer.RenderHistory(h))
	return subcommands.ExitSuccess
}

type reportCmd struct{ n int }

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "rank clients by revenue and products by quantity sold" }
func (*reportCmd) Usage() string {
	return `vendas report [-n <count>]

  Displays the top clients by revenue and the best selling products.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.n, "n", 5, "length of the rankings, 0 for all")
}

func (c *reportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, _, err := OpenLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.RenderReport(renderer.NewReport(ledger.Snapshot(), c.n)))
	return subcommands.ExitSuccess
}
