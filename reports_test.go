package vendas

import (
	"strings"
	"testing"
)

// reportSnapshot returns a hand made data set, including records written before
// client ids existed and an amount that is not a number.
func reportSnapshot() *Snapshot {
	s := NewSnapshot()
	s.Clients = []Client{
		{ID: 1, Name: "Ana", Phone: "1"},
		{ID: 2, Name: "Bia", Phone: "2"},
		{ID: 3, Name: "Carla", Phone: "3"},
	}
	s.Stock = []StockItem{
		{ID: 1, Name: "Perfume", Code: "P1", Quantity: 4},
		{ID: 2, Name: "Batom", Code: "B1", Quantity: 0},
	}
	s.Sales = []Sale{
		{ID: 1, ClientID: 1, ClientName: "Ana", ProductName: "Perfume", Quantity: 2, Amount: A(100), SaleDate: "2025-01-01"},
		{ID: 2, ClientName: "Bia", ProductName: "Batom", Quantity: 3, Amount: A(30), SaleDate: "2025-01-03"},
		{ID: 3, ClientID: 1, ClientName: "Ana", ProductName: "Batom", Quantity: 1, Amount: A(20), SaleDate: "2025-01-02"},
		{ID: 4, ClientName: "Bia", ProductName: "Perfume", Quantity: 1, Amount: Amount{invalid: true, raw: []byte(`"abc"`)}, SaleDate: "2025-01-02"},
		{ID: 5, ClientName: "Walk-in", ProductName: "Creme", Quantity: 1, Amount: A(90), SaleDate: "2025-01-01"},
	}
	s.Payments = []Payment{
		{ID: 1, ClientID: 1, ClientName: "Ana", Value: A(70), PaymentDate: "2025-01-02"},
		{ID: 2, ClientName: "Bia", Value: A(30), PaymentDate: "2025-01-04"},
		{ID: 3, ClientName: "Walk-in", Value: A(5.5), PaymentDate: "2025-01-01"},
	}
	return s
}

func TestTotals(t *testing.T) {
	s := reportSnapshot()
	if got := TotalSales(s); !got.Equal(D("240")) {
		t.Errorf("TotalSales() = %v, want 240", got)
	}
	if got := TotalPayments(s); !got.Equal(D("105.5")) {
		t.Errorf("TotalPayments() = %v, want 105.5", got)
	}
	if got := OutstandingBalance(s); !got.Equal(D("134.5")) {
		t.Errorf("OutstandingBalance() = %v, want 134.5", got)
	}
	if got := TotalSales(NewSnapshot()); !got.IsZero() {
		t.Errorf("TotalSales(empty) = %v, want 0", got)
	}
}

func TestClientBalance(t *testing.T) {
	s := reportSnapshot()
	tests := []struct {
		name   string
		want   string
		status Status
	}{
		{"Ana", "50", Owing},
		{"ana", "50", Owing},
		{"Bia", "0", Settled},
		{"Carla", "0", Settled},
		{"Walk-in", "84.5", Owing},
		{"Nobody", "0", Settled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClientBalance(s, tt.name)
			if !got.Equal(D(tt.want)) {
				t.Errorf("ClientBalance(%q) = %v, want %v", tt.name, got, tt.want)
			}
			if again := ClientBalance(s, tt.name); !again.Equal(got) {
				t.Errorf("ClientBalance(%q) is not stable: %v then %v", tt.name, got, again)
			}
			if st := BalanceStatus(got); st != tt.status {
				t.Errorf("BalanceStatus(%v) = %q, want %q", got, st, tt.status)
			}
		})
	}
	if got := BalanceStatus(D("-1")); got != Settled {
		t.Errorf("BalanceStatus(-1) = %q, want %q", got, Settled)
	}
}

func TestTopClientsByRevenue(t *testing.T) {
	s := reportSnapshot()
	got := TopClientsByRevenue(s, 5)
	want := []ClientRevenue{
		{"Ana", D("120")},
		{"Walk-in", D("90")},
		{"Bia", D("30")},
	}
	if len(got) != len(want) {
		t.Fatalf("TopClientsByRevenue() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i].Name != want[i].Name || !got[i].Revenue.Equal(want[i].Revenue) {
			t.Errorf("TopClientsByRevenue()[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	if got := TopClientsByRevenue(s, 1); len(got) != 1 || got[0].Name != "Ana" {
		t.Errorf("TopClientsByRevenue(1) = %v, want [Ana]", got)
	}

	t.Run("malformed amounts are ignored", func(t *testing.T) {
		s := NewSnapshot()
		s.Sales = []Sale{
			{ClientName: "Zoe", Amount: Amount{invalid: true, raw: []byte(`"abc"`)}},
			{ClientName: "Ana", Amount: A(10)},
		}
		got := TopClientsByRevenue(s, 0)
		if len(got) != 1 || got[0].Name != "Ana" {
			t.Errorf("TopClientsByRevenue() = %v, want only Ana", got)
		}
	})

	t.Run("ties keep first appearance", func(t *testing.T) {
		s := NewSnapshot()
		s.Sales = []Sale{
			{ClientName: "Zoe", Amount: A(10)},
			{ClientName: "Ana", Amount: A(10)},
			{ClientName: "Mia", Amount: A(20)},
		}
		got := TopClientsByRevenue(s, 0)
		names := []string{got[0].Name, got[1].Name, got[2].Name}
		if names[0] != "Mia" || names[1] != "Zoe" || names[2] != "Ana" {
			t.Errorf("TopClientsByRevenue() order = %v, want [Mia Zoe Ana]", names)
		}
	})
}

func TestTopProductsByQuantity(t *testing.T) {
	s := reportSnapshot()
	got := TopProductsByQuantity(s, 5)
	// Batom: 3 + 1, Perfume: 2 + 1.
	want := []ProductQuantity{{"Batom", 4}, {"Perfume", 3}, {"Creme", 1}}
	if len(got) != len(want) {
		t.Fatalf("TopProductsByQuantity() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("TopProductsByQuantity()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if got := TopProductsByQuantity(NewSnapshot(), 5); len(got) != 0 {
		t.Errorf("TopProductsByQuantity(empty) = %v, want none", got)
	}

	t.Run("missing and zero quantities", func(t *testing.T) {
		s, err := DecodeSnapshot(strings.NewReader(`{"sales": [
			{"id": 1, "client": "Ana", "product": "Perfume", "amount": 10},
			{"id": 2, "client": "Ana", "product": "Batom", "quantity": 0, "amount": 10},
			{"id": 3, "client": "Ana", "product": "Batom", "quantity": 0, "amount": 10}
		]}`))
		if err != nil {
			t.Fatalf("DecodeSnapshot() error = %v", err)
		}
		got := TopProductsByQuantity(s, 0)
		want := []ProductQuantity{{"Perfume", 1}, {"Batom", 0}}
		if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
			t.Errorf("TopProductsByQuantity() = %v, want %v", got, want)
		}
	})
}

func TestTransactionHistory(t *testing.T) {
	s := reportSnapshot()
	got := TransactionHistory(s)

	type line struct {
		kind EntryKind
		id   int
	}
	want := []line{
		{PaymentEntry, 2}, // 2025-01-04
		{SaleEntry, 2},    // 2025-01-03
		{SaleEntry, 3},    // 2025-01-02
		{SaleEntry, 4},
		{PaymentEntry, 1},
		{SaleEntry, 1}, // 2025-01-01
		{SaleEntry, 5},
		{PaymentEntry, 3},
	}
	if len(got) != len(want) {
		t.Fatalf("len(TransactionHistory()) = %d, want %d", len(got), len(want))
	}
	for i, w := range want {
		if got[i].Kind != w.kind || got[i].ID != w.id {
			t.Errorf("TransactionHistory()[%d] = %s #%d, want %s #%d", i, got[i].Kind, got[i].ID, w.kind, w.id)
		}
	}
	if got[0].Amount.Decimal().String() != "30" || got[0].ClientName != "Bia" {
		t.Errorf("TransactionHistory()[0] = %+v", got[0])
	}
	if got[1].Product != "Batom" || got[1].Quantity != 3 {
		t.Errorf("TransactionHistory()[1] = %+v", got[1])
	}
}

func TestNewDashboard(t *testing.T) {
	got := NewDashboard(reportSnapshot())
	if got.Clients != 3 || got.Sales != 5 || got.Payments != 3 || got.StockItems != 2 || got.OutOfStock != 1 {
		t.Errorf("NewDashboard() counts = %+v", got)
	}
	if !got.Outstanding.Equal(D("134.5")) {
		t.Errorf("NewDashboard().Outstanding = %v, want 134.5", got.Outstanding)
	}
}

func TestClientSummaries(t *testing.T) {
	s := reportSnapshot()
	got := ClientSummaries(s, s.Clients)
	if len(got) != 3 {
		t.Fatalf("len(ClientSummaries()) = %d, want 3", len(got))
	}
	if got[0].Name != "Ana" || !got[0].Balance.Equal(D("50")) || got[0].Sales != 2 || got[0].Status != Owing {
		t.Errorf("ClientSummaries()[0] = %+v", got[0])
	}
	if got[1].Sales != 2 || got[1].Status != Settled {
		t.Errorf("ClientSummaries()[1] = %+v", got[1])
	}

	owing := OwingClients(s)
	if len(owing) != 1 || owing[0].Name != "Ana" {
		t.Errorf("OwingClients() = %v, want [Ana]", owing)
	}
}
