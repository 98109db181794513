package renderer

import (
	"github.com/etnz/vendas"
	"github.com/etnz/vendas/date"
)

// RecentEntries is the number of transactions shown on the dashboard.
const RecentEntries = 5

// Dashboard is the home page view.
type Dashboard struct {
	Stats  vendas.Dashboard
	Recent []vendas.Entry
	Owing  []vendas.ClientSummary
}

// NewDashboard builds the dashboard view of a snapshot.
func NewDashboard(s *vendas.Snapshot) *Dashboard {
	recent := vendas.TransactionHistory(s)
	if len(recent) > RecentEntries {
		recent = recent[:RecentEntries]
	}
	return &Dashboard{
		Stats:  vendas.NewDashboard(s),
		Recent: recent,
		Owing:  vendas.OwingClients(s),
	}
}

// ClientList is the client list view.
type ClientList struct {
	Search  string
	Links   bool // link ids to the edit pages
	Clients []vendas.ClientSummary
}

// NewClientList builds the list of clients with their balance.
func NewClientList(s *vendas.Snapshot, search string, clients []vendas.Client) *ClientList {
	return &ClientList{
		Search:  search,
		Clients: vendas.ClientSummaries(s, clients),
	}
}

// StockList is the stock view.
type StockList struct {
	Links bool // link ids to the edit pages
	Items []vendas.StockItem
}

// History is the transaction history view.
type History struct {
	Period  string // empty for the whole history
	Range   date.Range
	Entries []vendas.Entry
}

// NewHistory builds the transaction history. When period is not empty, only
// the entries of the current period ending on 'on' are kept.
func NewHistory(s *vendas.Snapshot, period string, on date.Date) (*History, error) {
	h := &History{Entries: vendas.TransactionHistory(s)}
	if period == "" {
		return h, nil
	}
	r, err := date.Current(period, on)
	if err != nil {
		return nil, err
	}
	h.Period, h.Range = period, r
	kept := h.Entries[:0]
	for _, e := range h.Entries {
		if r.ContainsRaw(e.Date) {
			kept = append(kept, e)
		}
	}
	h.Entries = kept
	return h, nil
}

// Report is the rankings view.
type Report struct {
	Limit       int
	Stats       vendas.Dashboard
	TopClients  []vendas.ClientRevenue
	TopProducts []vendas.ProductQuantity
}

// NewReport builds the top n clients and products.
func NewReport(s *vendas.Snapshot, n int) *Report {
	return &Report{
		Limit:       n,
		Stats:       vendas.NewDashboard(s),
		TopClients:  vendas.TopClientsByRevenue(s, n),
		TopProducts: vendas.TopProductsByQuantity(s, n),
	}
}
