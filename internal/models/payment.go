package models

import "time"

// Payment observed against an order. Settlement confirmation arrives from
// the payment gateway asynchronously; the core only records it.
type Payment struct {
	ID          uint      `gorm:"primaryKey"`
	OrderID     uint      `gorm:"not null;index"` // FK vers Order
	Date        time.Time `gorm:"not null"`
	Montant     int64     `gorm:"not null"`
	Mode        string    `gorm:"not null"` // ex: virement, mobile money, chèque, espèces
	Commentaire string    // optionnel
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
