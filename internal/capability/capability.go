// Package capability defines the platform's fixed role table and the
// permission set each role carries. The registry is consulted once at the
// authorization boundary of every core operation; business logic never
// inspects role names directly.
package capability

import (
	"context"

	"github.com/Curtis1706/lahamarchand-main-sub001/gate"
	"github.com/Curtis1706/lahamarchand-main-sub001/internal/lifecycle"
	"github.com/Curtis1706/lahamarchand-main-sub001/internal/models"
)

// Role names. Each user holds exactly one primary role.
const (
	RoleClient      = "client"      // acheteur
	RoleAuteur      = "auteur"      // auteur d'œuvres
	RoleConcepteur  = "concepteur"  // concepteur d'œuvres
	RolePartenaire  = "partenaire"  // partenaire institutionnel (librairie, école)
	RoleRepresentant = "representant" // représentant commercial (lecture seule)
	RoleResponsable = "responsable" // responsable de la diffusion en gros
	RoleDirection   = "direction"   // PDG: seules corrections + toute transition
)

// Resource types used in permissions.
const (
	ResourceCommande   = "commande"
	ResourceOeuvre     = "oeuvre"
	ResourceDroit      = "droit" // droits d'auteur (royalties)
	ResourceRistourne  = "ristourne"
	ResourceCorrection = "correction"
	ResourcePaiement   = "paiement"
)

// AllRoles lists every role name, in seeding order.
var AllRoles = []string{
	RoleClient, RoleAuteur, RoleConcepteur, RolePartenaire,
	RoleRepresentant, RoleResponsable, RoleDirection,
}

// Institutional reports whether the role qualifies for ristournes.
func Institutional(role string) bool {
	return role == RolePartenaire
}

// Registry is the capability registry: a static role → permission-set
// mapping behind a gate. It is immutable after construction.
type Registry struct {
	gate *gate.Gate[string]
}

// NewRegistry builds the fixed role table.
func NewRegistry() *Registry {
	resolver := gate.NewStaticResolver[string]()

	resolver.Set(RoleClient, gate.NewStaticProfile(RoleClient,
		"commande:create", "commande:view", "commande:list", "commande:cancel",
		"oeuvre:view", "oeuvre:list",
	))
	resolver.Set(RoleAuteur, gate.NewStaticProfile(RoleAuteur,
		"droit:view", "droit:list",
		"oeuvre:view", "oeuvre:list",
	))
	resolver.Set(RoleConcepteur, gate.NewStaticProfile(RoleConcepteur,
		"oeuvre:create", "oeuvre:update", "oeuvre:view", "oeuvre:list",
	))
	// Partners create orders but never transition them.
	resolver.Set(RolePartenaire, gate.NewStaticProfile(RolePartenaire,
		"commande:create", "commande:view", "commande:list",
		"ristourne:view", "ristourne:list",
		"oeuvre:view", "oeuvre:list",
	))
	// Commercial representatives observe everything, mutate nothing.
	resolver.Set(RoleRepresentant, gate.NewStaticProfile(RoleRepresentant,
		"*:view", "*:list",
	))
	// Wholesale manager runs fulfilment but cannot validate or correct.
	resolver.Set(RoleResponsable, gate.NewStaticProfile(RoleResponsable,
		"commande:prepare", "commande:ship", "commande:deliver",
		"commande:view", "commande:list",
		"oeuvre:view", "oeuvre:list",
		"paiement:pay", "paiement:view", "paiement:list",
	))
	// Direction holds full authority, including corrections.
	resolver.Set(RoleDirection, gate.NewStaticProfile(RoleDirection,
		gate.PermissionFullAuthority,
	))

	g := gate.New[string](resolver)
	g.Register(ResourceCommande, cancelWindowPolicy{})
	return &Registry{gate: g}
}

// cancelWindowPolicy narrows cancellation: only direction may cancel an
// order that already left PENDING. All other commande actions pass through.
type cancelWindowPolicy struct{}

func (cancelWindowPolicy) Can(_ context.Context, role string, action gate.Action, resource any) bool {
	if action != gate.ActionCancel {
		return true
	}
	order, ok := resource.(*models.Order)
	if !ok {
		return false
	}
	if role == RoleDirection {
		return true
	}
	return order.Statut == lifecycle.StatusPending
}

// Authorize checks a role against a resource:action pair.
func (r *Registry) Authorize(ctx context.Context, role string, action gate.Action, resourceType string, resource any) error {
	return r.gate.Authorize(ctx, role, action, resourceType, resource)
}

// AuthorizeEdge checks a role against the capability of one lifecycle edge.
func (r *Registry) AuthorizeEdge(ctx context.Context, role string, target lifecycle.Status, order *models.Order) error {
	action, ok := lifecycle.EdgeAction(target)
	if !ok {
		return gate.ErrUnauthorized
	}
	var resource any
	if order != nil {
		resource = order
	}
	return r.gate.Authorize(ctx, role, action, ResourceCommande, resource)
}

// Can is a convenience wrapper returning bool instead of error.
func (r *Registry) Can(ctx context.Context, role string, action gate.Action, resourceType string, resource any) bool {
	return r.gate.Can(ctx, role, action, resourceType, resource)
}
