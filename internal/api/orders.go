package api

import (
	"net/http"

	"github.com/chrisdamba/comanda/internal/models"
	"github.com/go-chi/chi/v5"
)

func (s *Server) orderRoutes(r chi.Router) {
	r.Get("/", s.listOrders)
	r.Post("/", s.createOrder)
	r.Get("/active", s.listActiveOrders)
	r.Get("/table/{tableNumber}", s.listOrdersByTable)
	r.Get("/status/{status}", s.listOrdersByStatus)
	r.Get("/{id}", s.getOrder)
	r.Put("/{id}", s.updateOrder)
	r.Delete("/{id}", s.deleteOrder)
	r.Patch("/{id}/status", s.updateOrderStatus)
	r.Post("/{id}/items", s.addOrderItem)
	r.Patch("/{id}/items/{itemId}", s.updateOrderItemQuantity)
	r.Delete("/{id}/items/{itemId}", s.removeOrderItem)
}

type statusRequest struct {
	Status string `json:"status"`
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

func (s *Server) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := s.svc.Orders.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (s *Server) listActiveOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := s.svc.Orders.ListActive(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (s *Server) listOrdersByTable(w http.ResponseWriter, r *http.Request) {
	table, err := pathInt(r, "tableNumber")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	orders, err := s.svc.Orders.ListByTable(r.Context(), table)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (s *Server) listOrdersByStatus(w http.ResponseWriter, r *http.Request) {
	orders, err := s.svc.Orders.ListByStatus(r.Context(), chi.URLParam(r, "status"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (s *Server) getOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	order, err := s.svc.Orders.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (s *Server) createOrder(w http.ResponseWriter, r *http.Request) {
	var order models.Order
	if err := decodeJSON(r, &order); err != nil {
		s.writeError(w, r, err)
		return
	}
	created, err := s.svc.Orders.Create(r.Context(), &order)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) updateOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var details models.Order
	if err := decodeJSON(r, &details); err != nil {
		s.writeError(w, r, err)
		return
	}
	order, err := s.svc.Orders.Update(r.Context(), id, &details)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (s *Server) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	order, err := s.svc.Orders.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (s *Server) deleteOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.svc.Orders.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) addOrderItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var item models.OrderItem
	if err := decodeJSON(r, &item); err != nil {
		s.writeError(w, r, err)
		return
	}
	order, err := s.svc.Orders.AddItem(r.Context(), id, item)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (s *Server) updateOrderItemQuantity(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	itemID, err := pathInt64(r, "itemId")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req quantityRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	order, err := s.svc.Orders.UpdateItemQuantity(r.Context(), id, itemID, req.Quantity)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (s *Server) removeOrderItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	itemID, err := pathInt64(r, "itemId")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	order, err := s.svc.Orders.RemoveItem(r.Context(), id, itemID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}
