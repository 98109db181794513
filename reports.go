package vendas

import (
	"cmp"
	"slices"

	"github.com/shopspring/decimal"
)

// TotalSales sums the amount of every sale. Amounts that are not numbers are
// skipped.
func TotalSales(s *Snapshot) decimal.Decimal {
	total := decimal.Zero
	for _, v := range s.Sales {
		total = total.Add(v.Amount.Decimal())
	}
	return total
}

// TotalPayments sums the value of every payment. Values that are not numbers
// are skipped.
func TotalPayments(s *Snapshot) decimal.Decimal {
	total := decimal.Zero
	for _, p := range s.Payments {
		total = total.Add(p.Value.Decimal())
	}
	return total
}

// OutstandingBalance is what clients owe overall.
func OutstandingBalance(s *Snapshot) decimal.Decimal {
	return TotalSales(s).Sub(TotalPayments(s))
}

// ClientBalance is what a client owes: its sales minus its payments.
//
// When name is a registered client, records are matched by client id, and by
// name for records that carry no id. A renamed client keeps its balance.
// Otherwise records without id are matched by name.
func ClientBalance(s *Snapshot, name string) decimal.Decimal {
	c, ok := s.ClientByName(name)
	if !ok {
		c = Client{Name: name}
	}
	balance := decimal.Zero
	for _, v := range s.Sales {
		if refersTo(v.ClientID, v.ClientName, c) {
			balance = balance.Add(v.Amount.Decimal())
		}
	}
	for _, p := range s.Payments {
		if refersTo(p.ClientID, p.ClientName, c) {
			balance = balance.Sub(p.Value.Decimal())
		}
	}
	return balance
}

// Status classifies a balance.
type Status string

const (
	Owing   Status = "owing"
	Settled Status = "settled"
)

// BalanceStatus returns Owing for a positive balance, Settled otherwise.
func BalanceStatus(balance decimal.Decimal) Status {
	if balance.IsPositive() {
		return Owing
	}
	return Settled
}

// ClientRevenue is a client's total in TopClientsByRevenue.
type ClientRevenue struct {
	Name    string
	Revenue decimal.Decimal
}

// ProductQuantity is a product's total in TopProductsByQuantity.
type ProductQuantity struct {
	Name     string
	Quantity int
}

// TopClientsByRevenue groups sales by client name and returns the n biggest
// revenues, in decreasing order. Equal revenues keep the order in which the
// clients first appear. Sales with a malformed amount are ignored. n <= 0
// returns every client.
func TopClientsByRevenue(s *Snapshot, n int) []ClientRevenue {
	var res []ClientRevenue
	index := make(map[string]int)
	for _, v := range s.Sales {
		if !v.Amount.Valid() {
			continue
		}
		i, ok := index[v.ClientName]
		if !ok {
			i = len(res)
			index[v.ClientName] = i
			res = append(res, ClientRevenue{Name: v.ClientName, Revenue: decimal.Zero})
		}
		res[i].Revenue = res[i].Revenue.Add(v.Amount.Decimal())
	}
	slices.SortStableFunc(res, func(a, b ClientRevenue) int { return b.Revenue.Cmp(a.Revenue) })
	return top(res, n)
}

// TopProductsByQuantity groups sales by product name and returns the n
// biggest sold quantities, in decreasing order. Ties keep first appearance
// order. n <= 0 returns every product.
func TopProductsByQuantity(s *Snapshot, n int) []ProductQuantity {
	var res []ProductQuantity
	index := make(map[string]int)
	for _, v := range s.Sales {
		i, ok := index[v.ProductName]
		if !ok {
			i = len(res)
			index[v.ProductName] = i
			res = append(res, ProductQuantity{Name: v.ProductName})
		}
		res[i].Quantity += v.Quantity
	}
	slices.SortStableFunc(res, func(a, b ProductQuantity) int { return cmp.Compare(b.Quantity, a.Quantity) })
	return top(res, n)
}

func top[T any](list []T, n int) []T {
	if n > 0 && len(list) > n {
		return list[:n]
	}
	return list
}

// EntryKind tells sales and payments apart in the transaction history.
type EntryKind string

const (
	SaleEntry    EntryKind = "sale"
	PaymentEntry EntryKind = "payment"
)

// Entry is a line of the transaction history.
type Entry struct {
	Kind       EntryKind
	ID         int
	Date       string // as recorded
	ClientName string
	Product    string // sales only
	Quantity   int    // sales only
	Amount     Amount
	Notes      string
}

// TransactionHistory merges sales and payments, most recent first.
//
// Entries are sorted on the raw date string, which orders correctly only for
// ISO dates (yyyy-mm-dd). Entries with the same date keep sales before
// payments, each in recording order.
func TransactionHistory(s *Snapshot) []Entry {
	entries := make([]Entry, 0, len(s.Sales)+len(s.Payments))
	for _, v := range s.Sales {
		entries = append(entries, Entry{
			Kind:       SaleEntry,
			ID:         v.ID,
			Date:       v.SaleDate,
			ClientName: v.ClientName,
			Product:    v.ProductName,
			Quantity:   v.Quantity,
			Amount:     v.Amount,
			Notes:      v.Notes,
		})
	}
	for _, p := range s.Payments {
		entries = append(entries, Entry{
			Kind:       PaymentEntry,
			ID:         p.ID,
			Date:       p.PaymentDate,
			ClientName: p.ClientName,
			Amount:     p.Value,
			Notes:      p.Notes,
		})
	}
	slices.SortStableFunc(entries, func(a, b Entry) int { return cmp.Compare(b.Date, a.Date) })
	return entries
}

// Dashboard holds the headline figures of the ledger.
type Dashboard struct {
	Clients       int
	Sales         int
	Payments      int
	StockItems    int
	OutOfStock    int // stock items with no unit left
	TotalSales    decimal.Decimal
	TotalPayments decimal.Decimal
	Outstanding   decimal.Decimal
}

// NewDashboard computes the dashboard figures.
func NewDashboard(s *Snapshot) Dashboard {
	d := Dashboard{
		Clients:       len(s.Clients),
		Sales:         len(s.Sales),
		Payments:      len(s.Payments),
		StockItems:    len(s.Stock),
		TotalSales:    TotalSales(s),
		TotalPayments: TotalPayments(s),
	}
	d.Outstanding = d.TotalSales.Sub(d.TotalPayments)
	for _, p := range s.Stock {
		if !p.Available() {
			d.OutOfStock++
		}
	}
	return d
}

// ClientSummary is a client with its current balance.
type ClientSummary struct {
	Client
	Balance decimal.Decimal
	Status  Status
	Sales   int // number of sales
}

// ClientSummaries computes the balance of each client.
func ClientSummaries(s *Snapshot, clients []Client) []ClientSummary {
	res := make([]ClientSummary, 0, len(clients))
	for _, c := range clients {
		sum := ClientSummary{Client: c, Balance: decimal.Zero}
		for _, v := range s.Sales {
			if refersTo(v.ClientID, v.ClientName, c) {
				sum.Balance = sum.Balance.Add(v.Amount.Decimal())
				sum.Sales++
			}
		}
		for _, p := range s.Payments {
			if refersTo(p.ClientID, p.ClientName, c) {
				sum.Balance = sum.Balance.Sub(p.Value.Decimal())
			}
		}
		sum.Status = BalanceStatus(sum.Balance)
		res = append(res, sum)
	}
	return res
}

// OwingClients returns the registered clients that owe something, in
// registration order.
func OwingClients(s *Snapshot) []ClientSummary {
	var res []ClientSummary
	for _, sum := range ClientSummaries(s, s.Clients) {
		if sum.Status == Owing {
			res = append(res, sum)
		}
	}
	return res
}
