package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Curtis1706/lahamarchand-main-sub001/internal/httpx"
	"github.com/Curtis1706/lahamarchand-main-sub001/internal/services"
)

type CorrectionHandler struct {
	Svc *services.CorrectionService
}

func NewCorrectionHandler(svc *services.CorrectionService) *CorrectionHandler {
	return &CorrectionHandler{Svc: svc}
}

type correctionRequest struct {
	Kind     string `json:"kind"`
	TargetID uint   `json:"target_id"`
	Champ    string `json:"champ"`
	Valeur   string `json:"valeur"`
	Motif    string `json:"motif"`
}

// Create: POST /corrections. Réservé à la direction; le motif est obligatoire.
func (h *CorrectionHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var req correctionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	entry, err := h.Svc.Correct(r.Context(), req.Kind, req.TargetID, req.Champ, req.Valeur, req.Motif, actor)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, entry)
}

// List: GET /corrections?kind=&target_id= — journal en lecture seule.
func (h *CorrectionHandler) List(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireActor(w, r); !ok {
		return
	}
	kind := r.URL.Query().Get("kind")
	var targetID uint
	if id := queryUint(r, "target_id"); id != nil {
		targetID = *id
	}
	entries, err := h.Svc.Entries(kind, targetID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": entries, "total": len(entries)})
}
