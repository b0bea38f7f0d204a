package api

import (
	"net/http"

	"github.com/chrisdamba/comanda/internal/models"
	"github.com/go-chi/chi/v5"
)

func (s *Server) dishRoutes(r chi.Router) {
	r.Get("/", s.listDishes)
	r.Post("/", s.createDish)
	r.Get("/{id}", s.getDish)
	r.Put("/{id}", s.updateDish)
	r.Delete("/{id}", s.deleteDish)
}

func (s *Server) listDishes(w http.ResponseWriter, r *http.Request) {
	dishes, err := s.svc.Dishes.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dishes)
}

func (s *Server) getDish(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	dish, err := s.svc.Dishes.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dish)
}

// dishRequest defaults available to true when the field is omitted.
type dishRequest struct {
	models.Dish
	Available *bool `json:"available"`
}

func (d dishRequest) toDish() *models.Dish {
	dish := d.Dish
	dish.Available = d.Available == nil || *d.Available
	return &dish
}

func (s *Server) createDish(w http.ResponseWriter, r *http.Request) {
	var req dishRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	dish, err := s.svc.Dishes.Create(r.Context(), req.toDish())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, dish)
}

func (s *Server) updateDish(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req dishRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	dish, err := s.svc.Dishes.Update(r.Context(), id, req.toDish())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dish)
}

func (s *Server) deleteDish(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.svc.Dishes.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
