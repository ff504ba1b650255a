package models

import (
	"time"

	"github.com/Curtis1706/lahamarchand-main-sub001/internal/lifecycle"
)

// Order models. Orders are never deleted: cancellation is a terminal status.
type Order struct {
	ID       uint             `gorm:"primaryKey"`
	ClientID uint             `gorm:"not null;index"` // acheteur (client ou partenaire)
	Client   User             `gorm:"foreignKey:ClientID"`
	Statut   lifecycle.Status `gorm:"not null;index;default:'PENDING'"`
	// Verrou optimiste: toute écriture de statut est conditionnée à la
	// version lue; un conflit concurrent produit stale_state.
	Version int         `gorm:"not null;default:1"`
	Items   []OrderItem `gorm:"foreignKey:OrderID"`
	// Total recalculé depuis les lignes à chaque écriture, jamais édité seul.
	Total     int64 `gorm:"not null"`
	Paye      bool  `gorm:"not null;default:false"` // règlement intégral observé
	CreatedAt time.Time
	UpdatedAt time.Time
}

type OrderItem struct {
	ID      uint `gorm:"primaryKey"`
	OrderID uint `gorm:"not null;index"`
	WorkID  uint `gorm:"not null"`
	Work    Work `gorm:"foreignKey:WorkID"`
	Quantite int `gorm:"not null"`
	// Prix unitaire figé au moment de la commande.
	PrixUnitaire int64 `gorm:"not null"`
}

// LineTotal returns quantity × captured unit price.
func (it *OrderItem) LineTotal() int64 {
	return int64(it.Quantite) * it.PrixUnitaire
}

// ComputeTotal recomputes the order total from its lines.
func (o *Order) ComputeTotal() int64 {
	var total int64
	for _, it := range o.Items {
		total += it.LineTotal()
	}
	return total
}

// StatutLabel returns the French display label for the current status.
func (o *Order) StatutLabel() string {
	return lifecycle.Label(o.Statut)
}
