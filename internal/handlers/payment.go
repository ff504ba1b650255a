package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Curtis1706/lahamarchand-main-sub001/internal/httpx"
	"github.com/Curtis1706/lahamarchand-main-sub001/internal/services"
)

type PaymentHandler struct {
	Svc *services.PaymentService
}

func NewPaymentHandler(svc *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{Svc: svc}
}

type recordPaymentRequest struct {
	OrderID uint   `json:"order_id"`
	Montant int64  `json:"montant"`
	Mode    string `json:"mode"`
}

// Record enregistre un paiement: POST /paiements.
func (h *PaymentHandler) Record(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var req recordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	order, err := h.Svc.Record(r.Context(), req.OrderID, req.Montant, req.Mode, actor)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, viewOf(order))
}
