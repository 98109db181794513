package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/etnz/vendas"
	"github.com/etnz/vendas/date"
)

type saleCmd struct {
	client    string
	productID int
	code      string
	quantity  int
	price     string
	date      string
	notes     string
}

func (*saleCmd) Name() string     { return "sale" }
func (*saleCmd) Synopsis() string { return "record a sale and decrement the stock" }
func (*saleCmd) Usage() string {
	return `vendas sale -client <name> (-id <product id> | -code <product code>) -price <unit price> [-n <quantity>] [-d <date>] [-notes <notes>]

  Records a sale of a product in stock. The amount is the unit price times
  the quantity. Both "," and "." are accepted as decimal separator.

Usage Examples:
$ vendas sale -client Ana -code P1 -n 2 -price 89,90
`
}

func (c *saleCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.client, "client", "", "client name")
	f.IntVar(&c.productID, "id", 0, "id of the product sold")
	f.StringVar(&c.code, "code", "", "code of the product sold, when -id is not given")
	f.IntVar(&c.quantity, "n", 1, "quantity sold")
	f.StringVar(&c.price, "price", "", "unit price")
	f.StringVar(&c.date, "d", date.Today().String(), "date of the sale")
	f.StringVar(&c.notes, "notes", "", "free text notes")
}

func (c *saleCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	day, err := date.Parse(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	price, err := vendas.ParseAmount(c.price)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing price: %v\n", err)
		return subcommands.ExitUsageError
	}

	ledger, _, err := OpenLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	id := c.productID
	if id == 0 && c.code != "" {
		p, err := ledger.FindStockByCode(c.code)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		id = p.ID
	}

	sale, err := ledger.RecordSale(vendas.SaleInput{
		ClientName: c.client,
		ProductID:  id,
		Quantity:   c.quantity,
		UnitPrice:  price,
		SaleDate:   day.String(),
		Notes:      c.notes,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error recording sale: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(stdout, "Sale #%d: %dx %s to %s for %s\n", sale.ID, sale.Quantity, sale.ProductName, sale.ClientName, sale.Amount)
	return subcommands.ExitSuccess
}

type payCmd struct {
	client string
	value  string
	date   string
	notes  string
}

func (*payCmd) Name() string     { return "pay" }
func (*payCmd) Synopsis() string { return "record a payment from a client" }
func (*payCmd) Usage() string {
	return `vendas pay -client <name> -value <value> [-d <date>] [-notes <notes>]

  Records a payment. A payment cannot exceed the client's outstanding balance.
`
}

func (c *payCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.client, "client", "", "client name")
	f.StringVar(&c.value, "value", "", "amount paid")
	f.StringVar(&c.date, "d", date.Today().String(), "date of the payment")
	f.StringVar(&c.notes, "notes", "", "free text notes")
}

func (c *payCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	day, err := date.Parse(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	value, err := vendas.ParseAmount(c.value)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing value: %v\n", err)
		return subcommands.ExitUsageError
	}

	ledger, _, err := OpenLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	p, err := ledger.RecordPayment(vendas.PaymentInput{
		ClientName:  c.client,
		Value:       value,
		PaymentDate: day.String(),
		Notes:       c.notes,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error recording payment: %v\n", err)
		return subcommands.ExitFailure
	}
	balance := vendas.ClientBalance(ledger.Snapshot(), p.ClientName)
	fmt.Fprintf(stdout, "Payment #%d of %s from %s, balance is now %s\n", p.ID, p.Value, p.ClientName, vendas.FormatAmount(balance))
	return subcommands.ExitSuccess
}
