package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dattatraygorde/Order-Taking-System/db"
	"github.com/dattatraygorde/Order-Taking-System/model"
)

const (
	msgVegetableExists = "Vegetable already exists"
	msgVegetableInUse  = "The vegetable appears on orders and cannot be deleted."
	msgVegetableSaved  = "Vegetable saved."
	msgVegetableGone   = "Vegetable deleted."
)

type vegetableForm struct {
	Action    string
	Vegetable model.Vegetable
	Errors    model.FieldErrors
}

func (s *Server) listVegetables(w http.ResponseWriter, r *http.Request) {
	vegetables, err := s.vegetables.List(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "vegetables_list", page{Title: "Vegetables", Tab: "vegetables", Data: vegetables})
}

func (s *Server) newVegetable(w http.ResponseWriter, r *http.Request) {
	s.renderVegetableForm(w, r, http.StatusOK, vegetableForm{Action: "/vegetables"})
}

func (s *Server) createVegetable(w http.ResponseWriter, r *http.Request) {
	v, ok := s.bindVegetable(w, r)
	if !ok {
		return
	}
	form := vegetableForm{Action: "/vegetables", Vegetable: v}
	errs, err := s.checkVegetable(r, v, "")
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	if len(errs) > 0 {
		form.Errors = errs
		s.renderVegetableForm(w, r, http.StatusUnprocessableEntity, form)
		return
	}

	if err := s.vegetables.Create(r.Context(), &v); err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			form.Errors = model.FieldErrors{"name": msgVegetableExists}
			s.renderVegetableForm(w, r, http.StatusUnprocessableEntity, form)
			return
		}
		s.serverError(w, r, err)
		return
	}
	setFlash(w, msgVegetableSaved)
	redirect(w, r, "/vegetables")
}

func (s *Server) editVegetable(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.notFound(w, r)
		return
	}
	v, err := s.vegetables.Get(r.Context(), id)
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	s.renderVegetableForm(w, r, http.StatusOK, vegetableForm{Action: vegetableEditURL(id), Vegetable: v})
}

func (s *Server) updateVegetable(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.notFound(w, r)
		return
	}
	stored, err := s.vegetables.Get(r.Context(), id)
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	v, ok := s.bindVegetable(w, r)
	if !ok {
		return
	}
	v.ID = id
	form := vegetableForm{Action: vegetableEditURL(id), Vegetable: v}
	errs, err := s.checkVegetable(r, v, stored.Name)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	if len(errs) > 0 {
		form.Errors = errs
		s.renderVegetableForm(w, r, http.StatusUnprocessableEntity, form)
		return
	}

	if err := s.vegetables.Update(r.Context(), &v); err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			form.Errors = model.FieldErrors{"name": msgVegetableExists}
			s.renderVegetableForm(w, r, http.StatusUnprocessableEntity, form)
			return
		}
		s.storeError(w, r, err)
		return
	}
	setFlash(w, msgVegetableSaved)
	redirect(w, r, "/vegetables")
}

func (s *Server) deleteVegetable(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		redirect(w, r, "/vegetables")
		return
	}
	switch err := s.vegetables.Delete(r.Context(), id); {
	case err == nil:
		setFlash(w, msgVegetableGone)
	case errors.Is(err, db.ErrInUse):
		setFlash(w, msgVegetableInUse)
	default:
		s.serverError(w, r, err)
		return
	}
	redirect(w, r, "/vegetables")
}

// checkVegetable validates v and, unless its name matches current ignoring
// case, checks the catalog for a clash.
func (s *Server) checkVegetable(r *http.Request, v model.Vegetable, current string) (model.FieldErrors, error) {
	errs := v.Validate()
	if errs == nil {
		errs = model.FieldErrors{}
	}
	if _, bad := errs["name"]; bad {
		return errs, nil
	}
	if current != "" && model.FoldName(v.Name) == model.FoldName(current) {
		return errs, nil
	}
	exists, err := s.vegetables.NameExists(r.Context(), v.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		errs.Add("name", msgVegetableExists)
	}
	return errs, nil
}

func (s *Server) bindVegetable(w http.ResponseWriter, r *http.Request) (model.Vegetable, bool) {
	if err := r.ParseForm(); err != nil {
		s.badRequest(w, r, "The form could not be read.")
		return model.Vegetable{}, false
	}
	return model.Vegetable{Name: strings.TrimSpace(r.PostForm.Get("name"))}, true
}

func (s *Server) renderVegetableForm(w http.ResponseWriter, r *http.Request, status int, form vegetableForm) {
	s.render(w, r, status, "vegetables_form", page{Title: "Vegetable", Tab: "vegetables", Data: form})
}

func vegetableEditURL(id uint) string {
	return "/vegetables/" + formatID(id) + "/edit"
}
