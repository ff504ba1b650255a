package handlers

import (
	"encoding/json"
	"net/http"

	"gorm.io/gorm"

	"github.com/Curtis1706/lahamarchand-main-sub001/internal/capability"
	"github.com/Curtis1706/lahamarchand-main-sub001/internal/httpx"
	"github.com/Curtis1706/lahamarchand-main-sub001/internal/lifecycle"
	"github.com/Curtis1706/lahamarchand-main-sub001/internal/models"
	"github.com/Curtis1706/lahamarchand-main-sub001/internal/services"
)

type OrderHandler struct {
	DB  *gorm.DB
	Svc *services.OrderService
}

func NewOrderHandler(db *gorm.DB, svc *services.OrderService) *OrderHandler {
	return &OrderHandler{DB: db, Svc: svc}
}

type orderItemReq struct {
	WorkID   uint `json:"work_id"`
	Quantite int  `json:"quantite"`
}

// orderView is the JSON shape returned for orders; the label rides along so
// the dashboard never maps statuses on its own.
type orderView struct {
	models.Order
	StatutLabel string `json:"statut_label"`
}

func viewOf(o *models.Order) orderView {
	return orderView{Order: *o, StatutLabel: lifecycle.Label(o.Statut)}
}

// Create: POST /commandes {items: [{work_id, quantite}]}
// The buyer is the acting user.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var req struct {
		Items []orderItemReq `json:"items"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	items := make([]services.OrderItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, services.OrderItemInput{WorkID: it.WorkID, Quantite: it.Quantite})
	}
	order, err := h.Svc.Create(r.Context(), actor, items)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, viewOf(order))
}

// Transition: POST /commandes/transition {order_id, statut}
func (h *OrderHandler) Transition(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var req struct {
		OrderID uint   `json:"order_id"`
		Statut  string `json:"statut"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	order, err := h.Svc.Transition(r.Context(), req.OrderID, lifecycle.Status(req.Statut), actor)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, viewOf(order))
}

// Cancel: POST /commandes/annuler {order_id}
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var req struct {
		OrderID uint `json:"order_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	order, err := h.Svc.Cancel(r.Context(), req.OrderID, actor)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, viewOf(order))
}

// List: GET /commandes – scoped to the actor's own orders unless the role
// reads everything.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var user models.User
	if err := h.DB.Preload("Role").First(&user, actor).Error; err != nil {
		httpx.JSONError(w, http.StatusUnauthorized, "unknown_actor", nil)
		return
	}
	var scope *uint
	switch user.Role.Name {
	case capability.RoleClient, capability.RolePartenaire:
		scope = &user.ID
	}
	orders, err := h.Svc.List(scope)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	views := make([]orderView, 0, len(orders))
	for i := range orders {
		views = append(views, viewOf(&orders[i]))
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": views, "total": len(views)})
}
