// Package web serves the ledger as a small web application.
package web

import (
	"context"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/etnz/vendas"
)

// Server is the HTTP front end of a Ledger.
type Server struct {
	engine *gin.Engine
	ledger *vendas.Ledger
	logger *zap.Logger
	pages  map[string]*template.Template
	addr   string
	server *http.Server
	today  func() string
}

// NewServer returns a server for the ledger listening on addr. mode is the
// gin mode: "release" or "debug".
func NewServer(l *vendas.Ledger, logger *zap.Logger, addr, mode string) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if mode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		engine: gin.New(),
		ledger: l,
		logger: logger,
		pages:  parsePages(),
		addr:   addr,
		today:  func() string { return time.Now().Format("2006-01-02") },
	}

	s.engine.Use(gin.Recovery())
	s.engine.Use(requestID())
	s.engine.Use(accessLog(logger))

	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.engine

	r.GET("/", s.dashboard)

	r.GET("/estoque", s.stock)
	r.POST("/estoque", s.addStock)
	r.GET("/editar_produto/:id", s.editStockForm)
	r.POST("/editar_produto/:id", s.editStock)
	r.POST("/excluir_produto/:id", s.deleteStock)
	r.GET("/api/produto/:code", s.productByCode)

	r.GET("/cadastrar_cliente", s.newClientForm)
	r.POST("/cadastrar_cliente", s.addClient)
	r.GET("/clientes", s.clients)
	r.GET("/editar_cliente/:id", s.editClientForm)
	r.POST("/editar_cliente/:id", s.editClient)
	r.POST("/excluir_cliente/:id", s.deleteClient)

	r.GET("/vendas", s.saleForm)
	r.POST("/vendas", s.recordSale)
	r.GET("/pagamentos", s.paymentForm)
	r.POST("/pagamentos", s.recordPayment)

	r.GET("/historico", s.history)
	r.GET("/relatorios", s.report)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP"})
	})
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler { return s.engine }

// Run listens and serves until Shutdown is called.
func (s *Server) Run() error {
	s.server = &http.Server{
		Addr:              s.addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("web server started", zap.String("addr", s.addr))
	if err := s.server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
