package handlers

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/Curtis1706/lahamarchand-main-sub001/gate"
	"github.com/Curtis1706/lahamarchand-main-sub001/internal/capability"
	"github.com/Curtis1706/lahamarchand-main-sub001/internal/httpx"
	"github.com/Curtis1706/lahamarchand-main-sub001/internal/models"
	"github.com/Curtis1706/lahamarchand-main-sub001/internal/services"
)

// SettlementHandler serves the read-only settlement aggregates.
type SettlementHandler struct {
	DB        *gorm.DB
	Registry  *capability.Registry
	Royalty   *services.RoyaltyService
	Ristourne *services.RistourneService
}

func NewSettlementHandler(db *gorm.DB, reg *capability.Registry, roy *services.RoyaltyService, ris *services.RistourneService) *SettlementHandler {
	return &SettlementHandler{DB: db, Registry: reg, Royalty: roy, Ristourne: ris}
}

func (h *SettlementHandler) authorize(w http.ResponseWriter, r *http.Request, resource string) (*models.User, bool) {
	actor, ok := requireActor(w, r)
	if !ok {
		return nil, false
	}
	var user models.User
	if err := h.DB.Preload("Role").First(&user, actor).Error; err != nil {
		httpx.JSONError(w, http.StatusUnauthorized, "unknown_actor", nil)
		return nil, false
	}
	if err := h.Registry.Authorize(r.Context(), user.Role.Name, gate.ActionList, resource, nil); err != nil {
		httpx.JSONError(w, http.StatusForbidden, "unauthorized", nil)
		return nil, false
	}
	return &user, true
}

// Royalties: GET /droits?auteur_id=&oeuvre_id= – list + aggregate.
// An author only ever sees their own royalties.
func (h *SettlementHandler) Royalties(w http.ResponseWriter, r *http.Request) {
	user, ok := h.authorize(w, r, capability.ResourceDroit)
	if !ok {
		return
	}
	auteurID := queryUint(r, "auteur_id")
	workID := queryUint(r, "oeuvre_id")
	if user.Role.Name == capability.RoleAuteur {
		auteurID = &user.ID
	}
	sales, err := h.Royalty.List(h.DB, auteurID, workID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	agg, err := h.Royalty.Aggregate(h.DB, auteurID, workID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"items": sales,
		"total_genere":  agg.TotalGenere,
		"total_paye":    agg.TotalPaye,
		"total_pending": agg.TotalPending,
		"unites":        agg.Unites,
	})
}

// Ristournes: GET /ristournes?partenaire_id= – list + aggregate.
// A partner only ever sees their own rebates.
func (h *SettlementHandler) Ristournes(w http.ResponseWriter, r *http.Request) {
	user, ok := h.authorize(w, r, capability.ResourceRistourne)
	if !ok {
		return
	}
	partenaireID := queryUint(r, "partenaire_id")
	if user.Role.Name == capability.RolePartenaire {
		partenaireID = &user.ID
	}
	records, err := h.Ristourne.List(h.DB, partenaireID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	agg, err := h.Ristourne.Aggregate(h.DB, partenaireID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"items":   records,
		"total":   agg.Total,
		"paye":    agg.Paye,
		"pending": agg.Pending,
		"nombre":  agg.Nombre,
	})
}
