// Package lifecycle holds the canonical order state table. It is the single
// source of truth for which transitions exist, which capability each edge
// requires, and how statuses are labeled for display. Authorization and UI
// labeling both read from here so they cannot diverge.
package lifecycle

import "github.com/Curtis1706/lahamarchand-main-sub001/gate"

// Status of an order.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusValidated  Status = "VALIDATED"
	StatusProcessing Status = "PROCESSING"
	StatusShipped    Status = "SHIPPED"
	StatusDelivered  Status = "DELIVERED"
	StatusCancelled  Status = "CANCELLED"
)

// successors lists the legal direct successors of each status.
// CANCELLED is reachable only from PENDING and VALIDATED; no other edge
// skips a state. DELIVERED and CANCELLED are terminal.
var successors = map[Status][]Status{
	StatusPending:    {StatusValidated, StatusCancelled},
	StatusValidated:  {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped},
	StatusShipped:    {StatusDelivered},
	StatusDelivered:  {},
	StatusCancelled:  {},
}

// edgeActions maps each edge's target status to the capability action
// required to take it.
var edgeActions = map[Status]gate.Action{
	StatusValidated:  gate.ActionValidate,
	StatusProcessing: gate.ActionPrepare,
	StatusShipped:    gate.ActionShip,
	StatusDelivered:  gate.ActionDeliver,
	StatusCancelled:  gate.ActionCancel,
}

// labels are the French display names surfaced to the dashboard layer.
var labels = map[Status]string{
	StatusPending:    "En attente",
	StatusValidated:  "Validée",
	StatusProcessing: "En préparation",
	StatusShipped:    "Expédiée",
	StatusDelivered:  "Livrée",
	StatusCancelled:  "Annulée",
}

// Known reports whether s is one of the defined statuses.
func Known(s Status) bool {
	_, ok := successors[s]
	return ok
}

// Allowed reports whether from → to is a legal direct edge.
func Allowed(from, to Status) bool {
	for _, next := range successors[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Successors returns the legal direct successors of s.
func Successors(s Status) []Status {
	next := successors[s]
	out := make([]Status, len(next))
	copy(out, next)
	return out
}

// Terminal reports whether s admits no further transition.
func Terminal(s Status) bool {
	return len(successors[s]) == 0 && Known(s)
}

// EdgeAction returns the capability action required to move an order to
// target. The second result is false for unknown targets (e.g. PENDING,
// which is only ever an initial state).
func EdgeAction(target Status) (gate.Action, bool) {
	a, ok := edgeActions[target]
	return a, ok
}

// Label returns the display label for s, or the raw status if unknown.
func Label(s Status) string {
	if l, ok := labels[s]; ok {
		return l
	}
	return string(s)
}
