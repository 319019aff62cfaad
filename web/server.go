// Package web serves the order-taking HTML interface: customer and vegetable
// maintenance, order capture and the daily summary, behind an admin login.
package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dattatraygorde/Order-Taking-System/model"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// CustomerStore is the customer persistence the handlers need.
type CustomerStore interface {
	List(ctx context.Context) ([]model.Customer, error)
	Get(ctx context.Context, id uint) (model.Customer, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, c *model.Customer) error
	Update(ctx context.Context, c *model.Customer) error
	Delete(ctx context.Context, id uint) error
}

// VegetableStore is the catalog persistence the handlers need.
type VegetableStore interface {
	List(ctx context.Context) ([]model.Vegetable, error)
	Get(ctx context.Context, id uint) (model.Vegetable, error)
	NameExists(ctx context.Context, name string) (bool, error)
	Create(ctx context.Context, v *model.Vegetable) error
	Update(ctx context.Context, v *model.Vegetable) error
	Delete(ctx context.Context, id uint) error
}

// OrderStore is the order persistence the handlers need.
type OrderStore interface {
	Create(ctx context.Context, o *model.Order) error
	Get(ctx context.Context, id uint) (model.Order, error)
	ListByDate(ctx context.Context, day model.Date) ([]model.Order, error)
	SummarizeByDate(ctx context.Context, day model.Date) ([]model.VegetableSummary, error)
	Delete(ctx context.Context, id uint) error
}

// Config defines the inputs for the web server.
type Config struct {
	HTTPAddr   string
	Location   *time.Location
	Customers  CustomerStore
	Vegetables VegetableStore
	Orders     OrderStore
	Auth       *Authenticator
	Logger     *zap.Logger
}

// Server hosts the HTTP interface.
type Server struct {
	customers  CustomerStore
	vegetables VegetableStore
	orders     OrderStore
	auth       *Authenticator
	logger     *zap.Logger
	loc        *time.Location
	now        func() time.Time

	httpServer *http.Server
}

// NewServer builds a configured server.
func NewServer(cfg Config) (*Server, error) {
	if strings.TrimSpace(cfg.HTTPAddr) == "" {
		return nil, errors.New("http address is required")
	}
	if cfg.Customers == nil || cfg.Vegetables == nil || cfg.Orders == nil {
		return nil, errors.New("stores are required")
	}
	if cfg.Auth == nil {
		return nil, errors.New("authenticator is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}

	s := &Server{
		customers:  cfg.Customers,
		vegetables: cfg.Vegetables,
		orders:     cfg.Orders,
		auth:       cfg.Auth,
		logger:     cfg.Logger,
		loc:        cfg.Location,
		now:        time.Now,
	}
	s.httpServer = &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s, nil
}

// Handler returns the full middleware chain around the routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.routes(mux)

	var h http.Handler = mux
	h = s.requireSession(h)
	h = http.NewCrossOriginProtection().Handler(h)
	h = s.recoverPanics(h)
	h = s.logRequests(h)
	return otelhttp.NewHandler(h, "ordertaking",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
		otelhttp.WithFilter(func(r *http.Request) bool {
			return !strings.HasPrefix(r.URL.Path, "/static/")
		}),
	)
}

func (s *Server) routes(mux *http.ServeMux) {
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(staticFiles())))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("GET /login", s.loginForm)
	mux.HandleFunc("POST /login", s.login)
	mux.HandleFunc("POST /logout", s.logout)
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		redirect(w, r, "/customers")
	})

	mux.HandleFunc("GET /customers", s.listCustomers)
	mux.HandleFunc("GET /customers/new", s.newCustomer)
	mux.HandleFunc("POST /customers", s.createCustomer)
	mux.HandleFunc("GET /customers/{id}/edit", s.editCustomer)
	mux.HandleFunc("POST /customers/{id}/edit", s.updateCustomer)
	mux.HandleFunc("POST /customers/{id}/delete", s.deleteCustomer)

	mux.HandleFunc("GET /vegetables", s.listVegetables)
	mux.HandleFunc("GET /vegetables/new", s.newVegetable)
	mux.HandleFunc("POST /vegetables", s.createVegetable)
	mux.HandleFunc("GET /vegetables/{id}/edit", s.editVegetable)
	mux.HandleFunc("POST /vegetables/{id}/edit", s.updateVegetable)
	mux.HandleFunc("POST /vegetables/{id}/delete", s.deleteVegetable)

	mux.HandleFunc("GET /orders/new", s.newOrder)
	mux.HandleFunc("POST /orders", s.createOrder)
	mux.HandleFunc("GET /orders/final", s.finalOrders)
	mux.HandleFunc("GET /orders/{id}", s.showOrder)
	mux.HandleFunc("POST /orders/{id}/delete", s.deleteOrder)
}

// ListenAndServe runs the HTTP server until the context ends.
func (s *Server) ListenAndServe(ctx context.Context) error {
	serveErr := make(chan error, 1)
	s.logger.Info("web listening", zap.String("addr", s.httpServer.Addr))
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}

func (s *Server) today() model.Date {
	return model.DateOf(s.now().In(s.loc))
}

// pathID parses the {id} path segment.
func pathID(r *http.Request) (uint, bool) {
	id, err := parseID(r.PathValue("id"))
	return id, err == nil
}
