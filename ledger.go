package vendas

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/etnz/vendas/date"
)

// Ledger owns the sales data set and enforces its invariants.
//
// Every mutation runs validate, mutate, persist as one step under a single
// lock: the change is applied to a copy of the snapshot, the copy is saved and
// only then published. A failed save leaves the Ledger unchanged.
type Ledger struct {
	mu     sync.Mutex
	snap   *Snapshot
	store  Store
	logger *zap.Logger
	now    func() time.Time
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithLogger sets the logger used to trace mutations.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Ledger) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithClock sets the clock used to stamp records.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// Open loads the ledger from the store.
func Open(store Store, opts ...Option) *Ledger {
	l := &Ledger{
		store:  store,
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.snap = store.Load()
	l.snap.normalize()
	return l
}

// Snapshot returns a copy of the current data set, for read only views.
func (l *Ledger) Snapshot() *Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snap.Clone()
}

// apply runs op on a copy of the snapshot and publishes the copy once saved.
func (l *Ledger) apply(name string, op func(s *Snapshot) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	next := l.snap.Clone()
	if err := op(next); err != nil {
		l.logger.Debug("ledger operation rejected", zap.String("op", name), zap.Error(err))
		return err
	}
	if err := l.store.Save(next); err != nil {
		l.logger.Error("ledger operation not persisted", zap.String("op", name), zap.Error(err))
		return persistenceError(err)
	}
	l.snap = next
	return nil
}

func (l *Ledger) timestamp() string { return date.Timestamp(l.now()) }

// Client returns the client with this id.
func (l *Ledger) Client(id int) (Client, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	c, ok := l.snap.Client(id)
	if !ok {
		return Client{}, fmt.Errorf("%w: client %d", ErrNotFound, id)
	}
	return c, nil
}

// SearchClients returns clients whose name or phone contains term, ignoring
// case. An empty term returns all clients.
func (l *Ledger) SearchClients(term string) []Client {
	l.mu.Lock()
	defer l.mu.Unlock()
	term = strings.ToLower(strings.TrimSpace(term))
	var res []Client
	for _, c := range l.snap.Clients {
		if term == "" ||
			strings.Contains(strings.ToLower(c.Name), term) ||
			strings.Contains(strings.ToLower(c.Phone), term) {
			res = append(res, c)
		}
	}
	return res
}

// AddClient registers a new client. Names are unique, ignoring case.
func (l *Ledger) AddClient(in ClientInput) (Client, error) {
	in = in.trimmed()
	var c Client
	err := l.apply("add-client", func(s *Snapshot) error {
		if err := check(in); err != nil {
			return err
		}
		for _, existing := range s.Clients {
			if sameName(existing.Name, in.Name) {
				return fmt.Errorf("%w: %q", ErrDuplicateClient, in.Name)
			}
		}
		c = Client{
			ID:           nextID(s.Clients, func(c Client) int { return c.ID }),
			Name:         in.Name,
			Phone:        in.Phone,
			Email:        in.Email,
			Address:      in.Address,
			CPF:          in.CPF,
			RegisteredAt: l.timestamp(),
			Notes:        in.Notes,
		}
		s.Clients = append(s.Clients, c)
		return nil
	})
	if err != nil {
		return Client{}, err
	}
	l.logger.Info("client added", zap.Int("id", c.ID), zap.String("name", c.Name))
	return c, nil
}

// UpdateClient replaces the editable fields of a client.
//
// Name uniqueness is not checked again. Sales and payments keep the name they
// were recorded with, but stay attached to the client through its id.
func (l *Ledger) UpdateClient(id int, in ClientInput) (Client, error) {
	in = in.trimmed()
	var c Client
	err := l.apply("update-client", func(s *Snapshot) error {
		i := slices.IndexFunc(s.Clients, func(c Client) bool { return c.ID == id })
		if i < 0 {
			return fmt.Errorf("%w: client %d", ErrNotFound, id)
		}
		if err := check(in); err != nil {
			return err
		}
		c = s.Clients[i]
		c.Name, c.Phone, c.Email, c.Address, c.CPF, c.Notes = in.Name, in.Phone, in.Email, in.Address, in.CPF, in.Notes
		s.Clients[i] = c
		return nil
	})
	if err != nil {
		return Client{}, err
	}
	l.logger.Info("client updated", zap.Int("id", c.ID), zap.String("name", c.Name))
	return c, nil
}

// DeleteClient removes a client that has no sale and no payment.
func (l *Ledger) DeleteClient(id int) (Client, error) {
	var c Client
	err := l.apply("delete-client", func(s *Snapshot) error {
		i := slices.IndexFunc(s.Clients, func(c Client) bool { return c.ID == id })
		if i < 0 {
			return fmt.Errorf("%w: client %d", ErrNotFound, id)
		}
		c = s.Clients[i]
		if s.hasDependents(c) {
			return fmt.Errorf("%w: client %q", ErrHasDependents, c.Name)
		}
		s.Clients = slices.Delete(s.Clients, i, i+1)
		return nil
	})
	if err != nil {
		return Client{}, err
	}
	l.logger.Info("client deleted", zap.Int("id", c.ID), zap.String("name", c.Name))
	return c, nil
}

// hasDependents reports whether a sale or a payment references c.
func (s *Snapshot) hasDependents(c Client) bool {
	for _, v := range s.Sales {
		if refersTo(v.ClientID, v.ClientName, c) {
			return true
		}
	}
	for _, p := range s.Payments {
		if refersTo(p.ClientID, p.ClientName, c) {
			return true
		}
	}
	return false
}

// refersTo matches a record to a client: by id when the record has one, by
// name for records written before ids were stored.
func refersTo(clientID int, clientName string, c Client) bool {
	if clientID != 0 {
		return clientID == c.ID
	}
	return clientName == c.Name
}

// StockItem returns the stock item with this id.
func (l *Ledger) StockItem(id int) (StockItem, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	p, ok := l.snap.StockItem(id)
	if !ok {
		return StockItem{}, fmt.Errorf("%w: product %d", ErrNotFound, id)
	}
	return p, nil
}

// FindStockByCode returns the stock item with this code, ignoring case.
func (l *Ledger) FindStockByCode(code string) (StockItem, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	p, ok := l.snap.StockByCode(strings.TrimSpace(code))
	if !ok {
		return StockItem{}, fmt.Errorf("%w: product code %q", ErrNotFound, code)
	}
	return p, nil
}

// AddStockItem adds a product to the stock. Codes are unique, ignoring case.
func (l *Ledger) AddStockItem(in StockInput) (StockItem, error) {
	in = in.trimmed()
	var p StockItem
	err := l.apply("add-stock", func(s *Snapshot) error {
		if err := check(in); err != nil {
			return err
		}
		if _, exists := s.StockByCode(in.Code); exists {
			return fmt.Errorf("%w: %q", ErrDuplicateCode, in.Code)
		}
		p = StockItem{
			ID:       nextID(s.Stock, func(p StockItem) int { return p.ID }),
			Name:     in.Name,
			Category: in.Category,
			Code:     in.Code,
			Size:     in.Size,
			Quantity: in.Quantity,
		}
		s.Stock = append(s.Stock, p)
		return nil
	})
	if err != nil {
		return StockItem{}, err
	}
	l.logger.Info("stock item added", zap.Int("id", p.ID), zap.String("code", p.Code), zap.Int("quantity", p.Quantity))
	return p, nil
}

// UpdateStockItem replaces the fields of a stock item. Code uniqueness is not
// checked again.
func (l *Ledger) UpdateStockItem(id int, in StockInput) (StockItem, error) {
	in = in.trimmed()
	var p StockItem
	err := l.apply("update-stock", func(s *Snapshot) error {
		i := slices.IndexFunc(s.Stock, func(p StockItem) bool { return p.ID == id })
		if i < 0 {
			return fmt.Errorf("%w: product %d", ErrNotFound, id)
		}
		if err := check(in); err != nil {
			return err
		}
		p = StockItem{ID: id, Name: in.Name, Category: in.Category, Code: in.Code, Size: in.Size, Quantity: in.Quantity}
		s.Stock[i] = p
		return nil
	})
	if err != nil {
		return StockItem{}, err
	}
	l.logger.Info("stock item updated", zap.Int("id", p.ID), zap.String("code", p.Code), zap.Int("quantity", p.Quantity))
	return p, nil
}

// DeleteStockItem removes a stock item. Sales keep the product name they were
// recorded with.
func (l *Ledger) DeleteStockItem(id int) (StockItem, error) {
	var p StockItem
	err := l.apply("delete-stock", func(s *Snapshot) error {
		i := slices.IndexFunc(s.Stock, func(p StockItem) bool { return p.ID == id })
		if i < 0 {
			return fmt.Errorf("%w: product %d", ErrNotFound, id)
		}
		p = s.Stock[i]
		s.Stock = slices.Delete(s.Stock, i, i+1)
		return nil
	})
	if err != nil {
		return StockItem{}, err
	}
	l.logger.Info("stock item deleted", zap.Int("id", p.ID), zap.String("code", p.Code))
	return p, nil
}

// RecordSale sells a quantity of a stock item to a client.
//
// The stock check, the stock decrement and the new sale are saved together or
// not at all.
func (l *Ledger) RecordSale(in SaleInput) (Sale, error) {
	in.ClientName = strings.TrimSpace(in.ClientName)
	var sale Sale
	err := l.apply("record-sale", func(s *Snapshot) error {
		if err := check(in); err != nil {
			return err
		}
		if err := positive("UnitPrice", in.UnitPrice); err != nil {
			return err
		}
		day, err := isoDate("SaleDate", in.SaleDate)
		if err != nil {
			return err
		}
		i := slices.IndexFunc(s.Stock, func(p StockItem) bool { return p.ID == in.ProductID })
		if i < 0 {
			return fmt.Errorf("%w: product %d", ErrProductNotFound, in.ProductID)
		}
		product := s.Stock[i]
		if product.Quantity <= 0 {
			return fmt.Errorf("%w: %q cannot be sold", ErrOutOfStock, product.Name)
		}
		if product.Quantity < in.Quantity {
			return fmt.Errorf("%w: %q has %d unit(s) available", ErrInsufficientStock, product.Name, product.Quantity)
		}

		var clientID int
		if c, ok := s.ClientByName(in.ClientName); ok {
			clientID = c.ID
		}
		sale = Sale{
			ID:          nextID(s.Sales, func(v Sale) int { return v.ID }),
			ClientID:    clientID,
			ClientName:  in.ClientName,
			ProductID:   product.ID,
			ProductName: product.Name,
			UnitPrice:   A(in.UnitPrice),
			Quantity:    in.Quantity,
			Amount:      A(in.UnitPrice.Mul(newDecimal(in.Quantity))),
			SaleDate:    day,
			Notes:       strings.TrimSpace(in.Notes),
			RecordedAt:  l.timestamp(),
		}
		s.Stock[i].Quantity -= in.Quantity
		s.Sales = append(s.Sales, sale)
		return nil
	})
	if err != nil {
		return Sale{}, err
	}
	l.logger.Info("sale recorded",
		zap.Int("id", sale.ID),
		zap.String("client", sale.ClientName),
		zap.Int("product", sale.ProductID),
		zap.Int("quantity", sale.Quantity),
		zap.Stringer("amount", sale.Amount.Decimal()),
	)
	return sale, nil
}

// RecordPayment registers money received from a client. A payment cannot
// exceed the client's outstanding balance.
func (l *Ledger) RecordPayment(in PaymentInput) (Payment, error) {
	in.ClientName = strings.TrimSpace(in.ClientName)
	var p Payment
	err := l.apply("record-payment", func(s *Snapshot) error {
		if err := check(in); err != nil {
			return err
		}
		if err := positive("Value", in.Value); err != nil {
			return err
		}
		day, err := isoDate("PaymentDate", in.PaymentDate)
		if err != nil {
			return err
		}
		balance := ClientBalance(s, in.ClientName)
		if in.Value.GreaterThan(balance) {
			return fmt.Errorf("%w: current balance is %s", ErrOverPayment, FormatAmount(balance))
		}

		var clientID int
		if c, ok := s.ClientByName(in.ClientName); ok {
			clientID = c.ID
		}
		p = Payment{
			ID:          nextID(s.Payments, func(p Payment) int { return p.ID }),
			ClientID:    clientID,
			ClientName:  in.ClientName,
			Value:       A(in.Value),
			PaymentDate: day,
			Notes:       strings.TrimSpace(in.Notes),
			RecordedAt:  l.timestamp(),
		}
		s.Payments = append(s.Payments, p)
		return nil
	})
	if err != nil {
		return Payment{}, err
	}
	l.logger.Info("payment recorded",
		zap.Int("id", p.ID),
		zap.String("client", p.ClientName),
		zap.Stringer("value", p.Value.Decimal()),
	)
	return p, nil
}
