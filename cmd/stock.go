package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/PaesslerAG/jsonpath"
	"github.com/google/subcommands"

	"github.com/etnz/vendas"
	"github.com/etnz/vendas/renderer"
)

// stockFlags are the editable fields of a stock item.
type stockFlags struct {
	name, category, code, size string
	quantity                   int
}

func (c *stockFlags) set(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "product name")
	f.StringVar(&c.category, "category", "", "product category, usually the brand")
	f.StringVar(&c.code, "code", "", "product code, unique ignoring case")
	f.StringVar(&c.size, "size", "", "product size")
	f.IntVar(&c.quantity, "q", 0, "quantity in stock")
}

// apply overwrites the fields of in whose flag was given on the command line.
func (c *stockFlags) apply(f *flag.FlagSet, in vendas.StockInput) vendas.StockInput {
	f.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "name":
			in.Name = c.name
		case "category":
			in.Category = c.category
		case "code":
			in.Code = c.code
		case "size":
			in.Size = c.size
		case "q":
			in.Quantity = c.quantity
		}
	})
	return in
}

type addStockCmd struct{ stockFlags }

func (*addStockCmd) Name() string     { return "add-stock" }
func (*addStockCmd) Synopsis() string { return "add a product to the stock" }
func (*addStockCmd) Usage() string {
	return `vendas add-stock -name <name> -category <category> -code <code> [-size <size>] [-q <quantity>]

  Adds a product to the stock.
`
}

func (c *addStockCmd) SetFlags(f *flag.FlagSet) { c.stockFlags.set(f) }

func (c *addStockCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, _, err := OpenLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	p, err := ledger.AddStockItem(c.apply(f, vendas.StockInput{}))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error adding product: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(stdout, "Product #%d %s (%s) added with %d units\n", p.ID, p.Name, p.Code, p.Quantity)
	return subcommands.ExitSuccess
}

type editStockCmd struct {
	id int
	stockFlags
}

func (*editStockCmd) Name() string     { return "edit-stock" }
func (*editStockCmd) Synopsis() string { return "update a product" }
func (*editStockCmd) Usage() string {
	return `vendas edit-stock -id <id> [-name <name>] [-category <category>] [-code <code>] [-size <size>] [-q <quantity>]

  Updates the given fields of a product, the others are kept.
`
}

func (c *editStockCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.id, "id", 0, "id of the product to update")
	c.stockFlags.set(f)
}

func (c *editStockCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, _, err := OpenLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	cur, err := ledger.StockItem(c.id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	in := vendas.StockInput{Name: cur.Name, Category: cur.Category, Code: cur.Code, Size: cur.Size, Quantity: cur.Quantity}
	p, err := ledger.UpdateStockItem(c.id, c.apply(f, in))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error updating product: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(stdout, "Product #%d %s updated\n", p.ID, p.Name)
	return subcommands.ExitSuccess
}

type rmStockCmd struct{ id int }

func (*rmStockCmd) Name() string     { return "rm-stock" }
func (*rmStockCmd) Synopsis() string { return "delete a product" }
func (*rmStockCmd) Usage() string {
	return `vendas rm-stock -id <id>

  Deletes a product from the stock. Past sales keep the product name.
`
}

func (c *rmStockCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.id, "id", 0, "id of the product to delete")
}

func (c *rmStockCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, _, err := OpenLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	p, err := ledger.DeleteStockItem(c.id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error deleting product: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(stdout, "Product #%d %s deleted\n", p.ID, p.Name)
	return subcommands.ExitSuccess
}

type stockCmd struct{}

func (*stockCmd) Name() string     { return "stock" }
func (*stockCmd) Synopsis() string { return "list the stock" }
func (*stockCmd) Usage() string {
	return `vendas stock

  Lists every product with its quantity in stock.
`
}

func (c *stockCmd) SetFlags(f *flag.FlagSet) {}

func (c *stockCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, _, err := OpenLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.RenderStock(&renderer.StockList{Items: ledger.Snapshot().Stock}))
	return subcommands.ExitSuccess
}

type findStockCmd struct{ path string }

func (*findStockCmd) Name() string     { return "find-stock" }
func (*findStockCmd) Synopsis() string { return "look up a product by code" }
func (*findStockCmd) Usage() string {
	return `vendas find-stock [-path <jsonpath>] <code>

  Prints the product with this code as JSON, or only the value selected by
  the JSONPath expression.

Usage Examples:
$ vendas find-stock -path '$.quantity' P1
3
`
}

func (c *findStockCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.path, "path", "$", "JSONPath expression applied to the product")
}

func (c *findStockCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: find-stock takes exactly one product code")
		return subcommands.ExitUsageError
	}
	ledger, _, err := OpenLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	p, err := ledger.FindStockByCode(f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	out, err := selectJSON(p, c.path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintln(stdout, out)
	return subcommands.ExitSuccess
}

// selectJSON evaluates a JSONPath expression on the JSON form of v. Strings
// are printed raw, other values as JSON.
func selectJSON(v any, path string) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	var obj any
	if err := json.Unmarshal(data, &obj); err != nil {
		return "", err
	}
	val, err := jsonpath.Get(path, obj)
	if err != nil {
		return "", fmt.Errorf("invalid path %q: %w", path, err)
	}
	if s, ok := val.(string); ok {
		return s, nil
	}
	out, err := json.MarshalIndent(val, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}
