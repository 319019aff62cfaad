package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dattatraygorde/Order-Taking-System/db"
	"github.com/dattatraygorde/Order-Taking-System/model"
)

const (
	msgEmailExists    = "Email already exists"
	msgCustomerInUse  = "The customer has orders and cannot be deleted."
	msgCustomerSaved  = "Customer saved."
	msgCustomerGone   = "Customer deleted."
	customerFormTitle = "Customer"
)

type customerForm struct {
	// Action is the URL the form posts to.
	Action   string
	Customer model.Customer
	Errors   model.FieldErrors
}

func (s *Server) listCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := s.customers.List(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "customers_list", page{Title: "Customers", Tab: "customers", Data: customers})
}

func (s *Server) newCustomer(w http.ResponseWriter, r *http.Request) {
	s.renderCustomerForm(w, r, http.StatusOK, customerForm{Action: "/customers"})
}

func (s *Server) createCustomer(w http.ResponseWriter, r *http.Request) {
	c, ok := s.bindCustomer(w, r)
	if !ok {
		return
	}
	form := customerForm{Action: "/customers", Customer: c}

	errs := c.Validate()
	if errs == nil {
		errs = model.FieldErrors{}
	}
	if _, bad := errs["email"]; !bad {
		exists, err := s.customers.EmailExists(r.Context(), c.Email)
		if err != nil {
			s.serverError(w, r, err)
			return
		}
		if exists {
			errs.Add("email", msgEmailExists)
		}
	}
	if len(errs) > 0 {
		form.Errors = errs
		s.renderCustomerForm(w, r, http.StatusUnprocessableEntity, form)
		return
	}

	if err := s.customers.Create(r.Context(), &c); err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			form.Errors = model.FieldErrors{"email": msgEmailExists}
			s.renderCustomerForm(w, r, http.StatusUnprocessableEntity, form)
			return
		}
		s.serverError(w, r, err)
		return
	}
	setFlash(w, msgCustomerSaved)
	redirect(w, r, "/customers")
}

func (s *Server) editCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.notFound(w, r)
		return
	}
	c, err := s.customers.Get(r.Context(), id)
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	s.renderCustomerForm(w, r, http.StatusOK, customerForm{Action: customerEditURL(id), Customer: c})
}

func (s *Server) updateCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.notFound(w, r)
		return
	}
	stored, err := s.customers.Get(r.Context(), id)
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	c, ok := s.bindCustomer(w, r)
	if !ok {
		return
	}
	c.ID = id
	c.CreatedAt = stored.CreatedAt
	form := customerForm{Action: customerEditURL(id), Customer: c}

	errs := c.Validate()
	if errs == nil {
		errs = model.FieldErrors{}
	}
	if _, bad := errs["email"]; !bad && c.Email != stored.Email {
		exists, err := s.customers.EmailExists(r.Context(), c.Email)
		if err != nil {
			s.serverError(w, r, err)
			return
		}
		if exists {
			errs.Add("email", msgEmailExists)
		}
	}
	if len(errs) > 0 {
		form.Errors = errs
		s.renderCustomerForm(w, r, http.StatusUnprocessableEntity, form)
		return
	}

	if err := s.customers.Update(r.Context(), &c); err != nil {
		switch {
		case errors.Is(err, db.ErrDuplicate):
			form.Errors = model.FieldErrors{"email": msgEmailExists}
			s.renderCustomerForm(w, r, http.StatusUnprocessableEntity, form)
		default:
			s.storeError(w, r, err)
		}
		return
	}
	setFlash(w, msgCustomerSaved)
	redirect(w, r, "/customers")
}

func (s *Server) deleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		redirect(w, r, "/customers")
		return
	}
	switch err := s.customers.Delete(r.Context(), id); {
	case err == nil:
		setFlash(w, msgCustomerGone)
	case errors.Is(err, db.ErrInUse):
		setFlash(w, msgCustomerInUse)
	default:
		s.serverError(w, r, err)
		return
	}
	redirect(w, r, "/customers")
}

// bindCustomer reads the submitted customer fields. It writes a 400 response
// and returns false when the body cannot be parsed.
func (s *Server) bindCustomer(w http.ResponseWriter, r *http.Request) (model.Customer, bool) {
	if err := r.ParseForm(); err != nil {
		s.badRequest(w, r, "The form could not be read.")
		return model.Customer{}, false
	}
	return model.Customer{
		FirstName: strings.TrimSpace(r.PostForm.Get("firstName")),
		LastName:  strings.TrimSpace(r.PostForm.Get("lastName")),
		Email:     strings.TrimSpace(r.PostForm.Get("email")),
		Address:   strings.TrimSpace(r.PostForm.Get("address")),
	}, true
}

func (s *Server) renderCustomerForm(w http.ResponseWriter, r *http.Request, status int, form customerForm) {
	s.render(w, r, status, "customers_form", page{Title: customerFormTitle, Tab: "customers", Data: form})
}

func customerEditURL(id uint) string {
	return "/customers/" + formatID(id) + "/edit"
}
