package api

import (
	"context"
	"net/http"

	"github.com/chrisdamba/comanda/internal/models"
	"github.com/go-chi/chi/v5"
)

func (s *Server) kitchenRoutes(r chi.Router) {
	r.Get("/", s.listTickets(s.svc.Kitchen.List))
	r.Post("/", s.createTicket)
	r.Get("/active", s.listTickets(s.svc.Kitchen.ListActive))
	r.Get("/new", s.listTickets(s.svc.Kitchen.ListNew))
	r.Get("/preparing", s.listTickets(s.svc.Kitchen.ListPreparing))
	r.Get("/ready", s.listTickets(s.svc.Kitchen.ListReady))
	r.Get("/table/{tableNumber}", s.listTicketsByTable)
	r.Get("/priority/{priority}", s.listTicketsByPriority)
	r.Get("/count/{status}", s.countTickets)
	r.Get("/date-range", s.listTicketsByDateRange)
	r.Get("/{id}", s.getTicket)
	r.Delete("/{id}", s.deleteTicket)
	r.Patch("/{id}/status", s.updateTicketStatus)
	r.Patch("/{id}/items/{itemId}/status", s.updateTicketItemStatus)
	r.Patch("/{id}/items/{itemId}/notes", s.updateTicketItemNotes)
	r.Patch("/{id}/priority", s.updateTicketPriority)
	r.Patch("/{id}/notes", s.updateTicketNotes)
	r.Patch("/{id}/estimated-time", s.updateTicketEstimatedTime)
	r.Patch("/{id}/ready", s.ticketAction(s.svc.Kitchen.MarkReady))
	r.Patch("/{id}/all-items-ready", s.ticketAction(s.svc.Kitchen.MarkAllItemsReady))
	r.Patch("/{id}/delivered", s.ticketAction(s.svc.Kitchen.MarkDelivered))
	r.Patch("/{id}/cancel", s.ticketAction(s.svc.Kitchen.Cancel))
}

type notesRequest struct {
	Notes string `json:"notes"`
}

type priorityRequest struct {
	Priority int `json:"priority"`
}

type estimatedTimeRequest struct {
	EstimatedTime int `json:"estimatedTime"`
}

func (s *Server) listTickets(list func(ctx context.Context) ([]*models.KitchenOrder, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tickets, err := list(r.Context())
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, tickets)
	}
}

// ticketAction serves the body-less status shortcuts.
func (s *Server) ticketAction(action func(ctx context.Context, id int64) (*models.KitchenOrder, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathInt64(r, "id")
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		ticket, err := action(r.Context(), id)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, ticket)
	}
}

func (s *Server) createTicket(w http.ResponseWriter, r *http.Request) {
	var ticket models.KitchenOrder
	if err := decodeJSON(r, &ticket); err != nil {
		s.writeError(w, r, err)
		return
	}
	created, err := s.svc.Kitchen.Create(r.Context(), &ticket)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) getTicket(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ticket, err := s.svc.Kitchen.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ticket)
}

func (s *Server) deleteTicket(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.svc.Kitchen.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listTicketsByTable(w http.ResponseWriter, r *http.Request) {
	table, err := pathInt(r, "tableNumber")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	tickets, err := s.svc.Kitchen.ListByTable(r.Context(), table)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tickets)
}

func (s *Server) listTicketsByPriority(w http.ResponseWriter, r *http.Request) {
	priority, err := pathInt(r, "priority")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	tickets, err := s.svc.Kitchen.ListByPriority(r.Context(), priority)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tickets)
}

func (s *Server) countTickets(w http.ResponseWriter, r *http.Request) {
	count, err := s.svc.Kitchen.CountByStatus(r.Context(), chi.URLParam(r, "status"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, count)
}

func (s *Server) listTicketsByDateRange(w http.ResponseWriter, r *http.Request) {
	start, end, err := dateRange(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	tickets, err := s.svc.Kitchen.ListByDateRange(r.Context(), start, end)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tickets)
}

func (s *Server) updateTicketStatus(w http.ResponseWriter, r *http.Request) {
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
	ticket, err := s.svc.Kitchen.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ticket)
}

func (s *Server) ticketItemIDs(r *http.Request) (int64, int64, error) {
	id, err := pathInt64(r, "id")
	if err != nil {
		return 0, 0, err
	}
	itemID, err := pathInt64(r, "itemId")
	if err != nil {
		return 0, 0, err
	}
	return id, itemID, nil
}

func (s *Server) updateTicketItemStatus(w http.ResponseWriter, r *http.Request) {
	id, itemID, err := s.ticketItemIDs(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	ticket, err := s.svc.Kitchen.UpdateItemStatus(r.Context(), id, itemID, req.Status)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ticket)
}

func (s *Server) updateTicketItemNotes(w http.ResponseWriter, r *http.Request) {
	id, itemID, err := s.ticketItemIDs(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req notesRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	ticket, err := s.svc.Kitchen.AddItemNotes(r.Context(), id, itemID, req.Notes)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ticket)
}

func (s *Server) updateTicketPriority(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req priorityRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	ticket, err := s.svc.Kitchen.UpdatePriority(r.Context(), id, req.Priority)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ticket)
}

func (s *Server) updateTicketNotes(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req notesRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	ticket, err := s.svc.Kitchen.AddNotes(r.Context(), id, req.Notes)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ticket)
}

func (s *Server) updateTicketEstimatedTime(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req estimatedTimeRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	ticket, err := s.svc.Kitchen.UpdateEstimatedTime(r.Context(), id, req.EstimatedTime)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ticket)
}
