package cmd

import (
	"bytes"
	"context"
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"github.com/etnz/vendas"
	"github.com/etnz/vendas/backup"
)

func setGlobal[T any](t *testing.T, p *T, v T) {
	t.Helper()
	old := *p
	*p = v
	t.Cleanup(func() { *p = old })
}

func setOutput(t *testing.T, w io.Writer) {
	t.Helper()
	old := stdout
	stdout = w
	t.Cleanup(func() { stdout = old })
}

// newTestEnv runs the test in an empty directory with a fresh ledger file,
// and returns the ledger file path.
func newTestEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	chdir(t, dir)
	path := filepath.Join(dir, "vendas.json")
	setGlobal(t, dataFile, path)
	setGlobal(t, configFile, "")
	setGlobal(t, plain, true)
	return path
}

// run parses args for the command and executes it, it returns the exit
// status and the output.
func run(t *testing.T, cmd subcommands.Command, args ...string) (subcommands.ExitStatus, string) {
	t.Helper()
	f := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	cmd.SetFlags(f)
	if err := f.Parse(args); err != nil {
		t.Fatalf("%s: invalid arguments %q: %v", cmd.Name(), args, err)
	}
	var out bytes.Buffer
	setOutput(t, &out)
	return cmd.Execute(context.Background(), f), out.String()
}

func mustRun(t *testing.T, cmd subcommands.Command, args ...string) string {
	t.Helper()
	status, out := run(t, cmd, args...)
	if status != subcommands.ExitSuccess {
		t.Fatalf("%s %q: status = %v, want success", cmd.Name(), args, status)
	}
	return out
}

func TestCommands(t *testing.T) {
	path := newTestEnv(t)

	steps := []struct {
		cmd    subcommands.Command
		args   []string
		status subcommands.ExitStatus
		want   string
	}{
		{&addClientCmd{}, []string{"-name", "Ana", "-phone", "11999999999"}, subcommands.ExitSuccess, "Client #1 Ana registered"},
		{&addClientCmd{}, []string{"-name", "ana", "-phone", "2"}, subcommands.ExitFailure, ""},
		{&addClientCmd{}, []string{"-name", "Bia"}, subcommands.ExitFailure, ""},
		{&addStockCmd{}, []string{"-name", "Perfume X", "-category", "Natura", "-code", "P1", "-q", "3"}, subcommands.ExitSuccess, "Product #1 Perfume X (P1) added with 3 units"},
		{&findStockCmd{}, []string{"-path", "$.quantity", "p1"}, subcommands.ExitSuccess, "3"},
		{&findStockCmd{}, []string{"-path", "$.name", "P1"}, subcommands.ExitSuccess, "Perfume X"},
		{&findStockCmd{}, []string{"zz"}, subcommands.ExitFailure, ""},
		{&findStockCmd{}, nil, subcommands.ExitUsageError, ""},
		{&saleCmd{}, []string{"-client", "Ana", "-code", "P1", "-n", "2", "-price", "89,90", "-d", "2025-01-01"}, subcommands.ExitSuccess, "Sale #1: 2x Perfume X to Ana for R$ 179,80"},
		{&saleCmd{}, []string{"-client", "Ana", "-id", "1", "-n", "5", "-price", "10"}, subcommands.ExitFailure, ""},
		{&saleCmd{}, []string{"-client", "Ana", "-id", "1", "-price", "dez"}, subcommands.ExitUsageError, ""},
		{&payCmd{}, []string{"-client", "Ana", "-value", "200"}, subcommands.ExitFailure, ""},
		{&payCmd{}, []string{"-client", "Ana", "-value", "79,80", "-d", "2025-01-02"}, subcommands.ExitSuccess, "Payment #1 of R$ 79,80 from Ana, balance is now R$ 100,00"},
		{&editClientCmd{}, []string{"-id", "1", "-name", "Ana Maria"}, subcommands.ExitSuccess, "Client #1 Ana Maria updated"},
		{&editStockCmd{}, []string{"-id", "1", "-q", "10"}, subcommands.ExitSuccess, "Product #1 Perfume X updated"},
		{&clientsCmd{}, []string{"-s", "maria"}, subcommands.ExitSuccess, "| 1 | Ana Maria | 11999999999 |"},
		{&stockCmd{}, nil, subcommands.ExitSuccess, "| 1 | P1 | Perfume X | Natura |  | 10 |"},
		{&dashboardCmd{}, nil, subcommands.ExitSuccess, "R$ 179,80"},
		{&historyCmd{}, []string{"-period", "month", "-d", "2025-01-31"}, subcommands.ExitSuccess, "Período: 01/01/2025 a 31/01/2025"},
		{&historyCmd{}, []string{"-period", "fortnight"}, subcommands.ExitUsageError, ""},
		{&reportCmd{}, []string{"-n", "1"}, subcommands.ExitSuccess, "| 1 | Ana | R$ 179,80 |"},
		{&rmClientCmd{}, []string{"-id", "1"}, subcommands.ExitFailure, ""},
		{&rmStockCmd{}, []string{"-id", "1"}, subcommands.ExitSuccess, "Product #1 Perfume X deleted"},
		{&rmStockCmd{}, []string{"-id", "1"}, subcommands.ExitFailure, ""},
		{&topicCmd{}, nil, subcommands.ExitSuccess, "* data-file:"},
		{&topicCmd{}, []string{"web"}, subcommands.ExitSuccess, "/api/produto/<code>"},
		{&topicCmd{}, []string{"nope"}, subcommands.ExitFailure, ""},
	}
	for _, s := range steps {
		status, out := run(t, s.cmd, s.args...)
		if status != s.status {
			t.Fatalf("%s %q: status = %v, want %v; output:\n%s", s.cmd.Name(), s.args, status, s.status, out)
		}
		if !strings.Contains(out, s.want) {
			t.Errorf("%s %q: output does not contain %q:\n%s", s.cmd.Name(), s.args, s.want, out)
		}
	}

	snap := vendas.NewFileStore(path, nil).Load()
	if len(snap.Clients) != 1 || snap.Clients[0].Phone != "11999999999" {
		t.Errorf("clients = %+v, want Ana Maria with her phone kept", snap.Clients)
	}
	if len(snap.Sales) != 1 || snap.Sales[0].ClientID != 1 {
		t.Errorf("sales = %+v, want one sale attached to client #1", snap.Sales)
	}
	if got := vendas.ClientBalance(snap, "Ana Maria"); !got.Equal(decimal.NewFromInt(100)) {
		t.Errorf("ClientBalance(Ana Maria) = %v, want 100", got)
	}
}

func TestTransactionDatesAreZeroPadded(t *testing.T) {
	path := newTestEnv(t)
	mustRun(t, &addClientCmd{}, "-name", "Ana", "-phone", "1")
	mustRun(t, &addStockCmd{}, "-name", "Perfume X", "-category", "Natura", "-code", "P1", "-q", "3")
	mustRun(t, &saleCmd{}, "-client", "Ana", "-id", "1", "-price", "10", "-d", "2025-1-5")
	mustRun(t, &payCmd{}, "-client", "Ana", "-value", "5", "-d", "2025-2-3")

	snap := vendas.NewFileStore(path, nil).Load()
	if got := snap.Sales[0].SaleDate; got != "2025-01-05" {
		t.Errorf("SaleDate = %q, want %q", got, "2025-01-05")
	}
	if got := snap.Payments[0].PaymentDate; got != "2025-02-03" {
		t.Errorf("PaymentDate = %q, want %q", got, "2025-02-03")
	}
}

func TestBackupCmd(t *testing.T) {
	newTestEnv(t)
	mustRun(t, &addClientCmd{}, "-name", "Ana", "-phone", "1")

	out := mustRun(t, &backupCmd{})
	if !strings.Contains(out, "Backup written to backups") {
		t.Errorf("backup output = %q", out)
	}
	mustRun(t, &backupCmd{})
	out = mustRun(t, &backupCmd{}, "-keep", "1")
	if !strings.Contains(out, "Removed old backup") {
		t.Errorf("backup -keep 1 removed nothing:\n%s", out)
	}

	files, err := backup.List("backups")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("backups = %v, want 1", files)
	}
	if got := vendas.NewFileStore(files[0], nil).Load(); len(got.Clients) != 1 {
		t.Errorf("backup has %d clients, want 1", len(got.Clients))
	}
}

func TestCommandsAreRegistered(t *testing.T) {
	seen := map[string]bool{}
	for _, c := range Commands() {
		if seen[c.Name()] {
			t.Errorf("command %q is listed twice", c.Name())
		}
		seen[c.Name()] = true
		if groups[c.Name()] == "" {
			t.Errorf("command %q has no group", c.Name())
		}
	}
	if len(seen) != len(groups) {
		t.Errorf("%d commands for %d groups", len(seen), len(groups))
	}
}

// chdir changes the working directory to dir for the duration of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}
