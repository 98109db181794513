package vendas

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
)

// Snapshot is the whole ledger data set: the four record collections as they
// are persisted.
type Snapshot struct {
	Clients  []Client    `json:"clients"`
	Sales    []Sale      `json:"sales"`
	Payments []Payment   `json:"payments"`
	Stock    []StockItem `json:"stock"`
}

// NewSnapshot returns an empty snapshot with non nil collections.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Clients:  make([]Client, 0),
		Sales:    make([]Sale, 0),
		Payments: make([]Payment, 0),
		Stock:    make([]StockItem, 0),
	}
}

// Clone returns a deep copy of s.
func (s *Snapshot) Clone() *Snapshot {
	c := &Snapshot{
		Clients:  slices.Clone(s.Clients),
		Sales:    slices.Clone(s.Sales),
		Payments: slices.Clone(s.Payments),
		Stock:    slices.Clone(s.Stock),
	}
	c.normalize()
	return c
}

// normalize replaces nil collections with empty ones, so that a missing key
// decodes and encodes as an empty list.
func (s *Snapshot) normalize() {
	if s.Clients == nil {
		s.Clients = make([]Client, 0)
	}
	if s.Sales == nil {
		s.Sales = make([]Sale, 0)
	}
	if s.Payments == nil {
		s.Payments = make([]Payment, 0)
	}
	if s.Stock == nil {
		s.Stock = make([]StockItem, 0)
	}
}

// Client returns the client with this id.
func (s *Snapshot) Client(id int) (Client, bool) {
	i := slices.IndexFunc(s.Clients, func(c Client) bool { return c.ID == id })
	if i < 0 {
		return Client{}, false
	}
	return s.Clients[i], true
}

// ClientByName returns the registered client with this name. An exact match
// wins over a case-insensitive one.
func (s *Snapshot) ClientByName(name string) (Client, bool) {
	if i := slices.IndexFunc(s.Clients, func(c Client) bool { return c.Name == name }); i >= 0 {
		return s.Clients[i], true
	}
	if i := slices.IndexFunc(s.Clients, func(c Client) bool { return sameName(c.Name, name) }); i >= 0 {
		return s.Clients[i], true
	}
	return Client{}, false
}

// StockItem returns the stock item with this id.
func (s *Snapshot) StockItem(id int) (StockItem, bool) {
	i := slices.IndexFunc(s.Stock, func(p StockItem) bool { return p.ID == id })
	if i < 0 {
		return StockItem{}, false
	}
	return s.Stock[i], true
}

// StockByCode returns the stock item whose code matches, ignoring case.
func (s *Snapshot) StockByCode(code string) (StockItem, bool) {
	i := slices.IndexFunc(s.Stock, func(p StockItem) bool { return sameName(p.Code, code) })
	if i < 0 {
		return StockItem{}, false
	}
	return s.Stock[i], true
}

// DecodeSnapshot reads a JSON document. Missing collections decode as empty
// lists and unknown keys are ignored.
func DecodeSnapshot(r io.Reader) (*Snapshot, error) {
	s := new(Snapshot)
	if err := json.NewDecoder(r).Decode(s); err != nil {
		return nil, fmt.Errorf("could not decode ledger document: %w", err)
	}
	s.normalize()
	return s, nil
}

// EncodeSnapshot writes s as an indented JSON document.
func EncodeSnapshot(w io.Writer, s *Snapshot) error {
	s.normalize()
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("could not encode ledger document: %w", err)
	}
	return nil
}

func nextID[T any](records []T, id func(T) int) int {
	max := 0
	for _, r := range records {
		if v := id(r); v > max {
			max = v
		}
	}
	return max + 1
}
