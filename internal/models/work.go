package models

import "time"

// Catalog models
type Discipline struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"not null;unique"` // ex: Mathématiques, Français, Sciences
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TypeLivre classifies a work for ristourne-rate lookup.
type TypeLivre struct {
	ID              uint   `gorm:"primaryKey"`
	Name            string `gorm:"not null;unique"` // ex: primaire, secondaire, promotionnel
	Code            string // ex: PRI, SEC, PRO
	TauxRistournePct int   `gorm:"not null"` // taux de ristourne en pourcentage entier
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Work is a catalog entry. Amounts are whole currency units (FCFA); the
// platform currency has no minor unit.
type Work struct {
	ID           uint   `gorm:"primaryKey"`
	Titre        string `gorm:"not null"`
	PrixUnitaire int64  `gorm:"not null"`
	// Stock réel et quantité réservée par des commandes non validées.
	// Invariant: Stock >= 0 et Reserve <= Stock, maintenu par InventoryService.
	Stock        int  `gorm:"not null;default:0"`
	Reserve      int  `gorm:"not null;default:0"`
	SeuilAlerte  int  `gorm:"not null;default:0"` // seuil de stock minimum
	DisciplineID uint
	Discipline   Discipline `gorm:"foreignKey:DisciplineID"`
	TypeLivreID  uint       `gorm:"not null"`
	TypeLivre    TypeLivre  `gorm:"foreignKey:TypeLivreID"`
	// Auteur désigné; nul pour les articles de catalogue sans auteur.
	AuteurID *uint
	Auteur   *User `gorm:"foreignKey:AuteurID"`
	// Surcharge du taux de droits d'auteur pour cette œuvre; nul = taux global.
	TauxDroitsPct *int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Disponible returns the stock available for new reservations.
func (w *Work) Disponible() int {
	return w.Stock - w.Reserve
}

// SousSeuil reports whether available stock fell below the alert threshold.
func (w *Work) SousSeuil() bool {
	return w.Disponible() < w.SeuilAlerte
}
