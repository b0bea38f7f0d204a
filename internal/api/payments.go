package api

import (
	"net/http"

	"github.com/chrisdamba/comanda/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

func (s *Server) paymentRoutes(r chi.Router) {
	r.Get("/", s.listPayments)
	r.Post("/", s.createPayment)
	r.Get("/revenue", s.revenue)
	r.Get("/order/{orderId}", s.listPaymentsByOrder)
	r.Get("/order/{orderId}/completed", s.listCompletedPaymentsByOrder)
	r.Get("/order/{orderId}/fully-paid", s.orderFullyPaid)
	r.Get("/status/{status}", s.listPaymentsByStatus)
	r.Get("/method/{method}", s.listPaymentsByMethod)
	r.Get("/processed-by/{processedBy}", s.listPaymentsByProcessedBy)
	r.Get("/{id}", s.getPayment)
	r.Delete("/{id}", s.deletePayment)
	r.Post("/{id}/process-cash", s.processCash)
	r.Post("/{id}/process-card", s.processCard)
	r.Post("/{id}/process-pix", s.processPix)
	r.Patch("/{id}/status", s.updatePaymentStatus)
	r.Patch("/{id}/notes", s.updatePaymentNotes)
}

type cashRequest struct {
	CashReceived decimal.Decimal `json:"cashReceived"`
	ProcessedBy  string          `json:"processedBy"`
}

type cardRequest struct {
	TransactionID string `json:"transactionId"`
	CardLastFour  string `json:"cardLastFour"`
	ProcessedBy   string `json:"processedBy"`
}

type pixRequest struct {
	TransactionID string `json:"transactionId"`
	ProcessedBy   string `json:"processedBy"`
}

func (s *Server) listPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := s.svc.Payments.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, payments)
}

func (s *Server) createPayment(w http.ResponseWriter, r *http.Request) {
	var req services.CreatePaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	payment, err := s.svc.Payments.Create(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, payment)
}

func (s *Server) getPayment(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	payment, err := s.svc.Payments.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, payment)
}

func (s *Server) deletePayment(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.svc.Payments.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listPaymentsByOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := pathInt64(r, "orderId")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	payments, err := s.svc.Payments.ListByOrder(r.Context(), orderID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, payments)
}

func (s *Server) listCompletedPaymentsByOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := pathInt64(r, "orderId")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	payments, err := s.svc.Payments.ListCompletedByOrder(r.Context(), orderID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, payments)
}

func (s *Server) orderFullyPaid(w http.ResponseWriter, r *http.Request) {
	orderID, err := pathInt64(r, "orderId")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	paid, err := s.svc.Payments.IsOrderFullyPaid(r.Context(), orderID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"fullyPaid": paid})
}

func (s *Server) listPaymentsByStatus(w http.ResponseWriter, r *http.Request) {
	payments, err := s.svc.Payments.ListByStatus(r.Context(), chi.URLParam(r, "status"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, payments)
}

func (s *Server) listPaymentsByMethod(w http.ResponseWriter, r *http.Request) {
	payments, err := s.svc.Payments.ListByMethod(r.Context(), chi.URLParam(r, "method"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, payments)
}

func (s *Server) listPaymentsByProcessedBy(w http.ResponseWriter, r *http.Request) {
	payments, err := s.svc.Payments.ListByProcessedBy(r.Context(), chi.URLParam(r, "processedBy"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, payments)
}

func (s *Server) processCash(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req cashRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	payment, err := s.svc.Payments.ProcessCash(r.Context(), id, req.CashReceived, req.ProcessedBy)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, payment)
}

func (s *Server) processCard(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req cardRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	payment, err := s.svc.Payments.ProcessCard(r.Context(), id, req.TransactionID, req.CardLastFour, req.ProcessedBy)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, payment)
}

func (s *Server) processPix(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req pixRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	payment, err := s.svc.Payments.ProcessPix(r.Context(), id, req.TransactionID, req.ProcessedBy)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, payment)
}

func (s *Server) updatePaymentStatus(w http.ResponseWriter, r *http.Request) {
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
	payment, err := s.svc.Payments.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, payment)
}

func (s *Server) updatePaymentNotes(w http.ResponseWriter, r *http.Request) {
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
	payment, err := s.svc.Payments.AddNotes(r.Context(), id, req.Notes)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, payment)
}

func (s *Server) revenue(w http.ResponseWriter, r *http.Request) {
	start, end, err := dateRange(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	revenue, err := s.svc.Payments.Revenue(r.Context(), start, end)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, revenue)
}
