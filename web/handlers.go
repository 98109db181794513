package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/etnz/vendas"
	"github.com/etnz/vendas/date"
	"github.com/etnz/vendas/renderer"
)

type clientForm struct {
	Name    string `form:"name"`
	Phone   string `form:"phone"`
	Email   string `form:"email"`
	Address string `form:"address"`
	CPF     string `form:"cpf"`
	Notes   string `form:"observacoes"`
}

func (f clientForm) input() vendas.ClientInput {
	return vendas.ClientInput{Name: f.Name, Phone: f.Phone, Email: f.Email, Address: f.Address, CPF: f.CPF, Notes: f.Notes}
}

type stockForm struct {
	Name     string `form:"name"`
	Category string `form:"category"`
	Code     string `form:"code"`
	Size     string `form:"size"`
	Quantity string `form:"quantity"`
}

func (f stockForm) input() (vendas.StockInput, error) {
	in := vendas.StockInput{Name: f.Name, Category: f.Category, Code: f.Code, Size: f.Size}
	q := strings.TrimSpace(f.Quantity)
	if q == "" {
		return in, nil
	}
	n, err := strconv.Atoi(q)
	if err != nil {
		return in, fmt.Errorf("Quantidade inválida: %q", f.Quantity)
	}
	in.Quantity = n
	return in, nil
}

type saleForm struct {
	Client      string `form:"client"`
	ProductID   string `form:"product_id"`
	ProductCode string `form:"product_code"`
	Price       string `form:"amount"`
	Quantity    string `form:"quantity"`
	SaleDate    string `form:"data_venda"`
	Notes       string `form:"observacoes"`
}

type paymentForm struct {
	Client      string `form:"client"`
	Value       string `form:"value"`
	PaymentDate string `form:"data_pagamento"`
	Notes       string `form:"observacoes"`
}

// pathID reads the :id route parameter.
func pathID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	return id, err == nil
}

func (s *Server) dashboard(c *gin.Context) {
	snap := s.ledger.Snapshot()
	s.render(c, "dashboard", "Painel", snap, renderer.RenderDashboard(renderer.NewDashboard(snap)), nil)
}

func (s *Server) stock(c *gin.Context) {
	snap := s.ledger.Snapshot()
	md := renderer.RenderStock(&renderer.StockList{Links: true, Items: snap.Stock})
	s.render(c, "stock", "Estoque", snap, md, nil)
}

func (s *Server) addStock(c *gin.Context) {
	var f stockForm
	if err := c.ShouldBind(&f); err != nil {
		redirect(c, "/estoque", "danger", err.Error())
		return
	}
	in, err := f.input()
	if err != nil {
		redirect(c, "/estoque", "danger", err.Error())
		return
	}
	p, err := s.ledger.AddStockItem(in)
	if err != nil {
		s.fail(c, "/estoque", err)
		return
	}
	redirect(c, "/estoque", "success", fmt.Sprintf("Produto '%s' adicionado ao estoque!", p.Name))
}

func (s *Server) editStockForm(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		redirect(c, "/estoque", "danger", "Produto não encontrado!")
		return
	}
	p, err := s.ledger.StockItem(id)
	if err != nil {
		redirect(c, "/estoque", "danger", "Produto não encontrado!")
		return
	}
	s.render(c, "stock_edit", "Editar produto", s.ledger.Snapshot(), "", p)
}

func (s *Server) editStock(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		redirect(c, "/estoque", "danger", "Produto não encontrado!")
		return
	}
	back := fmt.Sprintf("/editar_produto/%d", id)
	var f stockForm
	if err := c.ShouldBind(&f); err != nil {
		redirect(c, back, "danger", err.Error())
		return
	}
	in, err := f.input()
	if err != nil {
		redirect(c, back, "danger", err.Error())
		return
	}
	if _, err := s.ledger.UpdateStockItem(id, in); err != nil {
		if errors.Is(err, vendas.ErrNotFound) {
			back = "/estoque"
		}
		s.fail(c, back, err)
		return
	}
	redirect(c, "/estoque", "success", "Produto atualizado!")
}

func (s *Server) deleteStock(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		redirect(c, "/estoque", "danger", "Produto não encontrado!")
		return
	}
	p, err := s.ledger.DeleteStockItem(id)
	if err != nil {
		s.fail(c, "/estoque", err)
		return
	}
	redirect(c, "/estoque", "success", fmt.Sprintf("Produto '%s' excluído do estoque!", p.Name))
}

// productByCode answers the product lookup of the sale form.
func (s *Server) productByCode(c *gin.Context) {
	p, err := s.ledger.FindStockByCode(c.Param("code"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Produto não encontrado"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"produto": gin.H{
			"id":       p.ID,
			"name":     p.Name,
			"code":     p.Code,
			"quantity": p.Quantity,
			"category": p.Category,
			"size":     p.Size,
		},
	})
}

func (s *Server) newClientForm(c *gin.Context) {
	s.render(c, "client_new", "Cadastrar cliente", s.ledger.Snapshot(), "", nil)
}

func (s *Server) addClient(c *gin.Context) {
	var f clientForm
	if err := c.ShouldBind(&f); err != nil {
		redirect(c, "/cadastrar_cliente", "danger", err.Error())
		return
	}
	cl, err := s.ledger.AddClient(f.input())
	if err != nil {
		s.fail(c, "/cadastrar_cliente", err)
		return
	}
	redirect(c, "/clientes", "success", fmt.Sprintf("Cliente %s cadastrado com sucesso!", cl.Name))
}

func (s *Server) clients(c *gin.Context) {
	search := c.Query("search")
	snap := s.ledger.Snapshot()
	list := renderer.NewClientList(snap, search, s.ledger.SearchClients(search))
	list.Links = true
	s.render(c, "clients", "Clientes", snap, renderer.RenderClients(list), search)
}

func (s *Server) editClientForm(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		redirect(c, "/clientes", "danger", "Cliente não encontrado!")
		return
	}
	cl, err := s.ledger.Client(id)
	if err != nil {
		redirect(c, "/clientes", "danger", "Cliente não encontrado!")
		return
	}
	s.render(c, "client_edit", "Editar cliente", s.ledger.Snapshot(), "", cl)
}

func (s *Server) editClient(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		redirect(c, "/clientes", "danger", "Cliente não encontrado!")
		return
	}
	back := fmt.Sprintf("/editar_cliente/%d", id)
	var f clientForm
	if err := c.ShouldBind(&f); err != nil {
		redirect(c, back, "danger", err.Error())
		return
	}
	cl, err := s.ledger.UpdateClient(id, f.input())
	if err != nil {
		if errors.Is(err, vendas.ErrNotFound) {
			back = "/clientes"
		}
		s.fail(c, back, err)
		return
	}
	redirect(c, "/clientes", "success", fmt.Sprintf("Cliente %s atualizado com sucesso!", cl.Name))
}

func (s *Server) deleteClient(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		redirect(c, "/clientes", "danger", "Cliente não encontrado!")
		return
	}
	cl, err := s.ledger.DeleteClient(id)
	if err != nil {
		s.fail(c, "/clientes", err)
		return
	}
	redirect(c, "/clientes", "success", fmt.Sprintf("Cliente %s excluído!", cl.Name))
}

// saleFormData feeds the sale form selectors.
type saleFormData struct {
	Today   string
	Clients []vendas.Client
	Stock   []vendas.StockItem
}

func (s *Server) saleForm(c *gin.Context) {
	snap := s.ledger.Snapshot()
	s.render(c, "sale", "Registrar venda", snap, "", saleFormData{Today: s.today(), Clients: snap.Clients, Stock: snap.Stock})
}

func (s *Server) recordSale(c *gin.Context) {
	var f saleForm
	if err := c.ShouldBind(&f); err != nil {
		redirect(c, "/vendas", "danger", err.Error())
		return
	}
	in, err := s.saleInput(f)
	if err != nil {
		redirect(c, "/vendas", "danger", err.Error())
		return
	}
	sale, err := s.ledger.RecordSale(in)
	if err != nil {
		s.fail(c, "/vendas", err)
		return
	}
	redirect(c, "/vendas", "success", fmt.Sprintf("Venda registrada: %dx %s por %s", sale.Quantity, sale.ProductName, sale.Amount))
}

// saleInput converts the form. The product is given by id, or by code when
// the id is empty.
func (s *Server) saleInput(f saleForm) (vendas.SaleInput, error) {
	in := vendas.SaleInput{
		ClientName: f.Client,
		SaleDate:   strings.TrimSpace(f.SaleDate),
		Notes:      f.Notes,
		Quantity:   1,
	}
	if in.SaleDate == "" {
		in.SaleDate = s.today()
	}
	d, err := date.Parse(in.SaleDate)
	if err != nil {
		return in, fmt.Errorf("Data inválida: %q", f.SaleDate)
	}
	in.SaleDate = d.String()

	switch id, code := strings.TrimSpace(f.ProductID), strings.TrimSpace(f.ProductCode); {
	case id != "":
		n, err := strconv.Atoi(id)
		if err != nil {
			return in, fmt.Errorf("Produto inválido: %q", id)
		}
		in.ProductID = n
	case code != "":
		p, err := s.ledger.FindStockByCode(code)
		if err != nil {
			return in, err
		}
		in.ProductID = p.ID
	}

	if q := strings.TrimSpace(f.Quantity); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil {
			return in, fmt.Errorf("Quantidade inválida: %q", f.Quantity)
		}
		in.Quantity = n
	}
	if strings.TrimSpace(f.Price) != "" {
		price, err := vendas.ParseAmount(f.Price)
		if err != nil {
			return in, fmt.Errorf("Valor inválido: %q", f.Price)
		}
		in.UnitPrice = price
	}
	return in, nil
}

// paymentFormData feeds the payment form.
type paymentFormData struct {
	Today string
	Owing []vendas.ClientSummary
}

func (s *Server) paymentForm(c *gin.Context) {
	snap := s.ledger.Snapshot()
	s.render(c, "payment", "Registrar pagamento", snap, "", paymentFormData{Today: s.today(), Owing: vendas.OwingClients(snap)})
}

func (s *Server) recordPayment(c *gin.Context) {
	var f paymentForm
	if err := c.ShouldBind(&f); err != nil {
		redirect(c, "/pagamentos", "danger", err.Error())
		return
	}
	in := vendas.PaymentInput{
		ClientName:  f.Client,
		PaymentDate: strings.TrimSpace(f.PaymentDate),
		Notes:       f.Notes,
	}
	if in.PaymentDate == "" {
		in.PaymentDate = s.today()
	}
	d, err := date.Parse(in.PaymentDate)
	if err != nil {
		redirect(c, "/pagamentos", "danger", fmt.Sprintf("Data inválida: %q", f.PaymentDate))
		return
	}
	in.PaymentDate = d.String()
	if strings.TrimSpace(f.Value) != "" {
		v, err := vendas.ParseAmount(f.Value)
		if err != nil {
			redirect(c, "/pagamentos", "danger", fmt.Sprintf("Valor inválido: %q", f.Value))
			return
		}
		in.Value = v
	}
	p, err := s.ledger.RecordPayment(in)
	if err != nil {
		s.fail(c, "/pagamentos", err)
		return
	}
	redirect(c, "/pagamentos", "success", fmt.Sprintf("Pagamento de %s registrado para %s!", p.Value, p.ClientName))
}

func (s *Server) history(c *gin.Context) {
	period := c.Query("periodo")
	snap := s.ledger.Snapshot()
	today, err := date.Parse(s.today())
	if err != nil {
		today = date.Today()
	}
	h, err := renderer.NewHistory(snap, period, today)
	if err != nil {
		redirect(c, "/historico", "danger", err.Error())
		return
	}
	s.render(c, "history", "Histórico", snap, renderer.RenderHistory(h), period)
}

// ReportSize is the length of the rankings on the reports page.
const ReportSize = 5

func (s *Server) report(c *gin.Context) {
	snap := s.ledger.Snapshot()
	s.render(c, "report", "Relatórios", snap, renderer.RenderReport(renderer.NewReport(snap, ReportSize)), nil)
}
