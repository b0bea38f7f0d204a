package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
)

// Diagnostic endpoints return canned or echoed data and never touch storage.
func (s *Server) diagnosticRoutes(r chi.Router) {
	r.Get("/test", s.testGet)
	r.Post("/test", s.testPost)
	r.Route("/simple-orders", func(r chi.Router) {
		r.Get("/", s.simpleOrdersList)
		r.Post("/", s.simpleOrdersCreate)
		r.Get("/{id}", s.simpleOrdersGet)
		r.Put("/{id}", s.simpleOrdersUpdate)
	})
}

func (s *Server) testGet(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":   "API is working",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (s *Server) testPost(w http.ResponseWriter, r *http.Request) {
	var data json.RawMessage
	if err := decodeJSON(r, &data); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "received",
		"data":    data,
	})
}

func simpleOrder(id int64) map[string]interface{} {
	return map[string]interface{}{
		"id":           id,
		"customerName": "Test Customer",
		"tableNumber":  1,
		"status":       "NEW",
		"totalAmount":  25.90,
	}
}

func (s *Server) simpleOrdersList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, []map[string]interface{}{simpleOrder(1), simpleOrder(2)})
}

func (s *Server) simpleOrdersGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, simpleOrder(id))
}

func (s *Server) simpleOrdersCreate(w http.ResponseWriter, r *http.Request) {
	var data map[string]interface{}
	if err := decodeJSON(r, &data); err != nil {
		s.writeError(w, r, err)
		return
	}
	if data == nil {
		data = map[string]interface{}{}
	}
	data["id"] = time.Now().UnixMilli()
	writeJSON(w, http.StatusCreated, data)
}

func (s *Server) simpleOrdersUpdate(w http.ResponseWriter, r *http.Request) {
	var data map[string]interface{}
	if err := decodeJSON(r, &data); err != nil {
		s.writeError(w, r, err)
		return
	}
	if data == nil {
		data = map[string]interface{}{}
	}
	data["id"], _ = strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	writeJSON(w, http.StatusOK, data)
}
