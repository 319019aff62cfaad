package web

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/dattatraygorde/Order-Taking-System/db"
	"github.com/dattatraygorde/Order-Taking-System/model"
)

const (
	msgNoItems           = "Please add at least one vegetable with quantity."
	msgInvalidQuantities = "Please provide valid quantities."
	msgOrderDeleted      = "Order deleted."
)

type orderForm struct {
	Customers  []model.Customer
	Vegetables []model.Vegetable
	Today      model.Date
}

type summaryData struct {
	Date    model.Date
	Summary []model.VegetableSummary
	Orders  []model.Order
	// Total is the sum of every quantity in Summary.
	Total int64
}

func (s *Server) newOrder(w http.ResponseWriter, r *http.Request) {
	customers, err := s.customers.List(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	vegetables, err := s.vegetables.List(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "orders_new", page{
		Title: "New order",
		Tab:   "orders",
		Data:  orderForm{Customers: customers, Vegetables: vegetables, Today: s.today()},
	})
}

// createOrder captures an order and its line items in one transaction.
func (s *Server) createOrder(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.badRequest(w, r, "The form could not be read.")
		return
	}
	vegetableIDs := r.PostForm["vegetableIds"]
	quantities := r.PostForm["quantities"]
	if len(vegetableIDs) == 0 || len(quantities) == 0 || len(vegetableIDs) != len(quantities) {
		setFlash(w, msgNoItems)
		redirect(w, r, "/orders/new")
		return
	}

	customerID, err := parseID(r.PostForm.Get("customerId"))
	if err != nil {
		s.badRequest(w, r, "A customer must be selected.")
		return
	}
	day, err := model.ParseDate(strings.TrimSpace(r.PostForm.Get("orderDate")))
	if err != nil {
		s.badRequest(w, r, "The order date must be a valid date (YYYY-MM-DD).")
		return
	}
	customer, err := s.customers.Get(r.Context(), customerID)
	if err != nil {
		s.storeError(w, r, err)
		return
	}

	order := model.Order{CustomerID: customer.ID, OrderDate: day}
	for i, raw := range quantities {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		qty, err := strconv.Atoi(raw)
		if err != nil {
			s.badRequest(w, r, "Every quantity must be a whole number.")
			return
		}
		if qty <= 0 {
			continue
		}
		vegetableID, err := parseID(vegetableIDs[i])
		if err != nil {
			s.badRequest(w, r, "Every line must name a vegetable.")
			return
		}
		vegetable, err := s.vegetables.Get(r.Context(), vegetableID)
		if err != nil {
			s.storeError(w, r, err)
			return
		}
		order.Items = append(order.Items, model.OrderItem{VegetableID: vegetable.ID, Quantity: qty})
	}
	if len(order.Items) == 0 {
		setFlash(w, msgInvalidQuantities)
		redirect(w, r, "/orders/new")
		return
	}

	if err := s.orders.Create(r.Context(), &order); err != nil {
		if errors.Is(err, db.ErrInUse) {
			// A referenced row vanished between lookup and insert.
			s.notFound(w, r)
			return
		}
		s.serverError(w, r, err)
		return
	}
	redirect(w, r, "/orders/"+formatID(order.ID))
}

func (s *Server) showOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.notFound(w, r)
		return
	}
	order, err := s.orders.Get(r.Context(), id)
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "orders_confirm", page{Title: "Order confirmation", Tab: "orders", Data: order})
}

func (s *Server) deleteOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		redirect(w, r, "/orders/final")
		return
	}
	order, err := s.orders.Get(r.Context(), id)
	if errors.Is(err, db.ErrNotFound) {
		redirect(w, r, "/orders/final")
		return
	}
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	if err := s.orders.Delete(r.Context(), id); err != nil && !errors.Is(err, db.ErrNotFound) {
		s.serverError(w, r, err)
		return
	}
	setFlash(w, msgOrderDeleted)
	redirect(w, r, "/orders/final?"+url.Values{"date": {order.OrderDate.String()}}.Encode())
}

// finalOrders shows the per-vegetable totals and the orders of one day.
func (s *Server) finalOrders(w http.ResponseWriter, r *http.Request) {
	day := s.today()
	if raw := strings.TrimSpace(r.URL.Query().Get("date")); raw != "" {
		parsed, err := model.ParseDate(raw)
		if err != nil {
			s.badRequest(w, r, "The date must be a valid date (YYYY-MM-DD).")
			return
		}
		day = parsed
	}

	summary, err := s.orders.SummarizeByDate(r.Context(), day)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	orders, err := s.orders.ListByDate(r.Context(), day)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	data := summaryData{Date: day, Summary: summary, Orders: orders}
	for _, row := range summary {
		data.Total += row.TotalQuantity
	}
	s.render(w, r, http.StatusOK, "orders_final", page{Title: "Daily summary", Tab: "final", Data: data})
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 0)
	if err != nil {
		return 0, err
	}
	if id == 0 {
		return 0, errors.New("id must be positive")
	}
	return uint(id), nil
}
