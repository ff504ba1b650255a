package models

import "time"

// Settlement models: royalty accrual per confirmed unit sold, and partner
// ristournes per validated and fully-paid institutional order.

// RoyaltySale is one record per unit sold and confirmed. UnitKey is the
// natural idempotency key (order-line-unit), so a re-triggered accrual
// cannot create duplicates.
type RoyaltySale struct {
	ID       uint  `gorm:"primaryKey"`
	WorkID   uint  `gorm:"not null;index"`
	Work     Work  `gorm:"foreignKey:WorkID"`
	AuteurID uint  `gorm:"not null;index"`
	Auteur   User  `gorm:"foreignKey:AuteurID"`
	OrderID  uint  `gorm:"not null;index"`
	UnitKey  string `gorm:"uniqueIndex;not null"` // ex: "42-7-3" commande-ligne-unité
	Montant  int64 `gorm:"not null"`
	TauxPct  int   `gorm:"not null"` // taux appliqué au moment de la vente
	Statut   string `gorm:"not null;default:'pending'"` // pending, paid
	// Référence du lot de paiement; nul tant que non payé.
	BatchID   *uint
	Batch     *PaymentBatch `gorm:"foreignKey:BatchID"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PaymentBatch groups royalty payouts for one settlement window.
type PaymentBatch struct {
	ID          uint      `gorm:"primaryKey"`
	Reference   string    `gorm:"uniqueIndex;not null"` // UUID du lot
	WindowStart time.Time `gorm:"not null"`
	WindowEnd   time.Time `gorm:"not null"`
	Total       int64     `gorm:"not null"`
	CreatedAt   time.Time
}

// RistourneRecord is the single rebate record of a qualifying institutional
// order. The unique index on OrderID makes the trigger idempotent.
type RistourneRecord struct {
	ID           uint             `gorm:"primaryKey"`
	OrderID      uint             `gorm:"uniqueIndex;not null"`
	PartenaireID uint             `gorm:"not null;index"`
	Partenaire   User             `gorm:"foreignKey:PartenaireID"`
	Montant      int64            `gorm:"not null"`
	Statut       string           `gorm:"not null;default:'pending'"` // pending, paid
	Lignes       []RistourneLigne `gorm:"foreignKey:RistourneID"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RistourneLigne details the weighted computation: one row per order line,
// carrying the book-type rate applied to that line's paid amount.
type RistourneLigne struct {
	ID          uint  `gorm:"primaryKey"`
	RistourneID uint  `gorm:"not null;index"`
	TypeLivreID uint  `gorm:"not null"`
	Assiette    int64 `gorm:"not null"` // montant de la ligne (base de calcul)
	TauxPct     int   `gorm:"not null"`
	Montant     int64 `gorm:"not null"`
}
