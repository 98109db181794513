package vendas

import (
	"encoding/json"
	"strings"
)

// Client is a registered customer.
type Client struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Email        string `json:"email,omitempty"`
	Address      string `json:"address,omitempty"`
	CPF          string `json:"cpf,omitempty"`
	RegisteredAt string `json:"data_cadastro,omitempty"`
	Notes        string `json:"observacoes,omitempty"`
}

// StockItem is a product kept in stock.
type StockItem struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Code     string `json:"code"`
	Size     string `json:"size,omitempty"`
	Quantity int    `json:"quantity"`
}

// Available reports whether at least one unit can be sold.
func (s StockItem) Available() bool { return s.Quantity > 0 }

// Sale records products sold to a client.
//
// ClientName and ProductName are snapshots taken when the sale is recorded,
// ClientID is the registered client at that time (0 if none matched).
type Sale struct {
	ID          int    `json:"id"`
	ClientID    int    `json:"client_id,omitempty"`
	ClientName  string `json:"client"`
	ProductID   int    `json:"product_id"`
	ProductName string `json:"product"`
	UnitPrice   Amount `json:"unit_price"`
	Quantity    int    `json:"quantity"`
	Amount      Amount `json:"amount"`
	SaleDate    string `json:"data_venda"`
	Notes       string `json:"observacoes,omitempty"`
	RecordedAt  string `json:"data_registro,omitempty"`
}

// UnmarshalJSON reads a sale, falling back on the legacy "date" key when
// "data_venda" is absent. A sale without a "quantity" key is one unit.
func (s *Sale) UnmarshalJSON(b []byte) error {
	type plain Sale
	var v struct {
		plain
		Date *string `json:"date"`
	}
	v.Quantity = 1
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*s = Sale(v.plain)
	if s.SaleDate == "" && v.Date != nil {
		s.SaleDate = *v.Date
	}
	return nil
}

// Payment records money received from a client.
type Payment struct {
	ID          int    `json:"id"`
	ClientID    int    `json:"client_id,omitempty"`
	ClientName  string `json:"client"`
	Value       Amount `json:"value"`
	PaymentDate string `json:"data_pagamento"`
	Notes       string `json:"observacoes,omitempty"`
	RecordedAt  string `json:"data_registro,omitempty"`
}

// UnmarshalJSON reads a payment, falling back on the legacy "date" key when
// "data_pagamento" is absent.
func (p *Payment) UnmarshalJSON(b []byte) error {
	type plain Payment
	var v struct {
		plain
		Date *string `json:"date"`
	}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*p = Payment(v.plain)
	if p.PaymentDate == "" && v.Date != nil {
		p.PaymentDate = *v.Date
	}
	return nil
}

// sameName compares names the way uniqueness is enforced.
func sameName(a, b string) bool { return strings.EqualFold(a, b) }
