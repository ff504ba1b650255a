package services

import (
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Curtis1706/lahamarchand-main-sub001/internal/capability"
	"github.com/Curtis1706/lahamarchand-main-sub001/internal/models"
)

func setupTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Role{}, &models.User{}, &models.Discipline{}, &models.TypeLivre{},
		&models.Work{}, &models.Order{}, &models.OrderItem{}, &models.Payment{},
		&models.RoyaltySale{}, &models.PaymentBatch{},
		&models.RistourneRecord{}, &models.RistourneLigne{},
		&models.CorrectionEntry{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	seedRefData(t, db)
	return db
}

func seedRefData(t *testing.T, db *gorm.DB) {
	t.Helper()
	for _, name := range capability.AllRoles {
		if err := db.Create(&models.Role{Name: name}).Error; err != nil {
			t.Fatalf("seed role %s: %v", name, err)
		}
	}
	types := []models.TypeLivre{
		{Name: "primaire", Code: "PRI", TauxRistournePct: 15},
		{Name: "secondaire", Code: "SEC", TauxRistournePct: 12},
		{Name: "promotionnel", Code: "PRO", TauxRistournePct: 8},
	}
	for i := range types {
		if err := db.Create(&types[i]).Error; err != nil {
			t.Fatalf("seed type livre: %v", err)
		}
	}
	if err := db.Create(&models.Discipline{Name: "Mathématiques"}).Error; err != nil {
		t.Fatalf("seed discipline: %v", err)
	}
}

func roleID(t *testing.T, db *gorm.DB, name string) uint {
	t.Helper()
	var role models.Role
	if err := db.Where("name = ?", name).First(&role).Error; err != nil {
		t.Fatalf("role %s: %v", name, err)
	}
	return role.ID
}

func typeLivreID(t *testing.T, db *gorm.DB, name string) uint {
	t.Helper()
	var tl models.TypeLivre
	if err := db.Where("name = ?", name).First(&tl).Error; err != nil {
		t.Fatalf("type livre %s: %v", name, err)
	}
	return tl.ID
}

func createUser(t *testing.T, db *gorm.DB, email, role string) *models.User {
	t.Helper()
	u := models.User{Email: email, RoleID: roleID(t, db, role)}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}
	return &u
}

func createPartner(t *testing.T, db *gorm.DB, email string, scopeType string) *models.User {
	t.Helper()
	scope := typeLivreID(t, db, scopeType)
	u := models.User{Email: email, RoleID: roleID(t, db, capability.RolePartenaire), ScopeTypeLivreID: &scope}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("seed partner %s: %v", email, err)
	}
	return &u
}

func createWork(t *testing.T, db *gorm.DB, titre string, prix int64, stock int, typeLivre string, auteurID *uint) *models.Work {
	t.Helper()
	var disc models.Discipline
	if err := db.First(&disc).Error; err != nil {
		t.Fatalf("discipline: %v", err)
	}
	w := models.Work{
		Titre:        titre,
		PrixUnitaire: prix,
		Stock:        stock,
		DisciplineID: disc.ID,
		TypeLivreID:  typeLivreID(t, db, typeLivre),
		AuteurID:     auteurID,
	}
	if err := db.Create(&w).Error; err != nil {
		t.Fatalf("seed work %s: %v", titre, err)
	}
	return &w
}

func newTestOrderService(db *gorm.DB) *OrderService {
	return NewOrderService(
		db,
		capability.NewRegistry(),
		NewInventoryService(),
		NewRoyaltyService(DefaultRoyaltyRatePct),
		NewRistourneService(),
		nil,
	)
}

func reloadWork(t *testing.T, db *gorm.DB, id uint) *models.Work {
	t.Helper()
	var w models.Work
	if err := db.First(&w, id).Error; err != nil {
		t.Fatalf("reload work %d: %v", id, err)
	}
	return &w
}
