package models

import "time"

// CorrectionEntry is the append-only audit trail of manual corrections.
// Only the direction role can produce one; the log supports no update or
// delete at any authority level (no UpdatedAt, no soft delete).
type CorrectionEntry struct {
	ID uint `gorm:"primaryKey"`
	// Opération visée: type d'enregistrement + identifiant.
	OperationKind string `gorm:"not null;index"` // ex: "commande", "oeuvre", "droit", "ristourne"
	OperationID   uint   `gorm:"not null;index"`
	Champ         string `gorm:"not null"` // champ modifié
	AncienneValeur string
	NouvelleValeur string
	Motif          string `gorm:"not null"` // obligatoire, jamais vide
	AuteurID       uint   `gorm:"not null"` // utilisateur direction ayant agi
	Auteur         User   `gorm:"foreignKey:AuteurID"`
	CreatedAt      time.Time
}
