package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/etnz/vendas"
	"github.com/etnz/vendas/renderer"
)

// clientFlags are the editable fields of a client.
type clientFlags struct {
	name, phone, email, address, cpf, notes string
}

func (c *clientFlags) set(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "full name of the client")
	f.StringVar(&c.phone, "phone", "", "phone number")
	f.StringVar(&c.email, "email", "", "email address")
	f.StringVar(&c.address, "address", "", "postal address")
	f.StringVar(&c.cpf, "cpf", "", "CPF number")
	f.StringVar(&c.notes, "notes", "", "free text notes")
}

// apply overwrites the fields of in whose flag was given on the command line.
func (c *clientFlags) apply(f *flag.FlagSet, in vendas.ClientInput) vendas.ClientInput {
	f.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "name":
			in.Name = c.name
		case "phone":
			in.Phone = c.phone
		case "email":
			in.Email = c.email
		case "address":
			in.Address = c.address
		case "cpf":
			in.CPF = c.cpf
		case "notes":
			in.Notes = c.notes
		}
	})
	return in
}

type addClientCmd struct{ clientFlags }

func (*addClientCmd) Name() string     { return "add-client" }
func (*addClientCmd) Synopsis() string { return "register a new client" }
func (*addClientCmd) Usage() string {
	return `vendas add-client -name <name> -phone <phone> [-email <email>] [-address <address>] [-cpf <cpf>] [-notes <notes>]

  Registers a new client. Names are unique, ignoring case.
`
}

func (c *addClientCmd) SetFlags(f *flag.FlagSet) { c.clientFlags.set(f) }

func (c *addClientCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, _, err := OpenLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	cl, err := ledger.AddClient(c.apply(f, vendas.ClientInput{}))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error adding client: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(stdout, "Client #%d %s registered\n", cl.ID, cl.Name)
	return subcommands.ExitSuccess
}

type editClientCmd struct {
	id int
	clientFlags
}

func (*editClientCmd) Name() string     { return "edit-client" }
func (*editClientCmd) Synopsis() string { return "update a client" }
func (*editClientCmd) Usage() string {
	return `vendas edit-client -id <id> [-name <name>] [-phone <phone>] [-email <email>] [-address <address>] [-cpf <cpf>] [-notes <notes>]

  Updates the given fields of a client, the others are kept. Sales and
  payments of a renamed client stay attached to it.
`
}

func (c *editClientCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.id, "id", 0, "id of the client to update")
	c.clientFlags.set(f)
}

func (c *editClientCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, _, err := OpenLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	cur, err := ledger.Client(c.id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	in := vendas.ClientInput{Name: cur.Name, Phone: cur.Phone, Email: cur.Email, Address: cur.Address, CPF: cur.CPF, Notes: cur.Notes}
	cl, err := ledger.UpdateClient(c.id, c.apply(f, in))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error updating client: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(stdout, "Client #%d %s updated\n", cl.ID, cl.Name)
	return subcommands.ExitSuccess
}

type rmClientCmd struct{ id int }

func (*rmClientCmd) Name() string     { return "rm-client" }
func (*rmClientCmd) Synopsis() string { return "delete a client without sales or payments" }
func (*rmClientCmd) Usage() string {
	return `vendas rm-client -id <id>

  Deletes a client. Clients with sales or payments cannot be deleted.
`
}

func (c *rmClientCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.id, "id", 0, "id of the client to delete")
}

func (c *rmClientCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, _, err := OpenLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	cl, err := ledger.DeleteClient(c.id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error deleting client: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(stdout, "Client #%d %s deleted\n", cl.ID, cl.Name)
	return subcommands.ExitSuccess
}

type clientsCmd struct{ search string }

func (*clientsCmd) Name() string     { return "clients" }
func (*clientsCmd) Synopsis() string { return "list clients with their balance" }
func (*clientsCmd) Usage() string {
	return `vendas clients [-s <term>]

  Lists the clients whose name or phone contains the search term, with their
  outstanding balance.
`
}

func (c *clientsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.search, "s", "", "search term, matched against names and phones ignoring case")
}

func (c *clientsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, _, err := OpenLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	list := renderer.NewClientList(ledger.Snapshot(), c.search, ledger.SearchClients(c.search))
	printMarkdown(renderer.RenderClients(list))
	return subcommands.ExitSuccess
}
