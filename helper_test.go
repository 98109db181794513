package vendas

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

// D is a helper for test to create a decimal from a literal.
func D(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// fixedClock always returns the same instant.
func fixedClock() time.Time { return time.Date(2025, 1, 1, 10, 30, 0, 0, time.UTC) }

// newTestLedger returns an empty ledger backed by memory.
func newTestLedger(t *testing.T) (*Ledger, *MemoryStore) {
	t.Helper()
	store := new(MemoryStore)
	return Open(store, WithClock(fixedClock)), store
}

// failingStore refuses every save.
type failingStore struct{ MemoryStore }

var errDiskFull = errors.New("disk full")

func (f *failingStore) Save(*Snapshot) error { return errDiskFull }

// mustClient adds a client or fails the test.
func mustClient(t *testing.T, l *Ledger, name, phone string) Client {
	t.Helper()
	c, err := l.AddClient(ClientInput{Name: name, Phone: phone})
	if err != nil {
		t.Fatalf("AddClient(%q) error = %v", name, err)
	}
	return c
}

// mustStock adds a stock item or fails the test.
func mustStock(t *testing.T, l *Ledger, name, code string, quantity int) StockItem {
	t.Helper()
	p, err := l.AddStockItem(StockInput{Name: name, Category: "Natura", Code: code, Quantity: quantity})
	if err != nil {
		t.Fatalf("AddStockItem(%q) error = %v", code, err)
	}
	return p
}

// mustSale records a sale or fails the test.
func mustSale(t *testing.T, l *Ledger, client string, productID, quantity int, price, day string) Sale {
	t.Helper()
	s, err := l.RecordSale(SaleInput{ClientName: client, ProductID: productID, Quantity: quantity, UnitPrice: D(price), SaleDate: day})
	if err != nil {
		t.Fatalf("RecordSale(%q, %d) error = %v", client, productID, err)
	}
	return s
}

// mustPay records a payment or fails the test.
func mustPay(t *testing.T, l *Ledger, client, value, day string) Payment {
	t.Helper()
	p, err := l.RecordPayment(PaymentInput{ClientName: client, Value: D(value), PaymentDate: day})
	if err != nil {
		t.Fatalf("RecordPayment(%q, %s) error = %v", client, value, err)
	}
	return p
}
