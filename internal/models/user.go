package models

import "time"

// User & role models. Authentication is handled upstream by the dashboard
// layer; the core only needs the actor's identity and primary role.
type User struct {
	ID     uint   `gorm:"primaryKey"`
	Email  string `gorm:"unique;not null;index"`
	Nom    string `gorm:"index"`
	Prenom string
	RoleID uint // clé étrangère vers Role
	Role   Role `gorm:"foreignKey:RoleID"`
	// Pour les partenaires institutionnels : catégorie de livres autorisée.
	// Une commande hors de ce périmètre est rejetée (scope_violation).
	ScopeTypeLivreID *uint
	ScopeTypeLivre   *TypeLivre `gorm:"foreignKey:ScopeTypeLivreID"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Role names are the fixed set consulted by the capability registry.
type Role struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"unique;not null"` // client, auteur, concepteur, partenaire, representant, responsable, direction
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
