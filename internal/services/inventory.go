package services

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Curtis1706/lahamarchand-main-sub001/internal/models"
)

// InventoryService is the inventory ledger. It is stateless: every method
// takes the enclosing transaction so reservation, confirmation and release
// commit or roll back with the order operation that caused them. Each method
// locks the work row, serializing concurrent movements on the same work.
type InventoryService struct{}

func NewInventoryService() *InventoryService { return &InventoryService{} }

func (s *InventoryService) lockWork(tx *gorm.DB, workID uint) (*models.Work, error) {
	var work models.Work
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&work, workID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lock work %d: %w", workID, err)
	}
	return &work, nil
}

// Reserve puts quantity units on hold for a pending order. Fails with
// insufficient_stock when available stock (stock minus current reserve)
// cannot cover the request.
func (s *InventoryService) Reserve(tx *gorm.DB, workID uint, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	work, err := s.lockWork(tx, workID)
	if err != nil {
		return err
	}
	if work.Disponible() < quantity {
		return ErrInsufficientStock
	}
	return tx.Model(work).UpdateColumn("reserve", work.Reserve+quantity).Error
}

// Confirm permanently decrements stock for a validated order, consuming the
// reservation made at creation.
func (s *InventoryService) Confirm(tx *gorm.DB, workID uint, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	work, err := s.lockWork(tx, workID)
	if err != nil {
		return err
	}
	if work.Reserve < quantity || work.Stock < quantity {
		// A confirmation that exceeds the reservation means the ledger was
		// corrupted upstream; refuse rather than go negative.
		return fmt.Errorf("confirm %d units of work %d (stock=%d reserve=%d): %w",
			quantity, workID, work.Stock, work.Reserve, ErrInsufficientStock)
	}
	return tx.Model(work).UpdateColumns(map[string]any{
		"stock":   work.Stock - quantity,
		"reserve": work.Reserve - quantity,
	}).Error
}

// Release returns a reservation to the available pool when a pending order
// is cancelled.
func (s *InventoryService) Release(tx *gorm.DB, workID uint, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	work, err := s.lockWork(tx, workID)
	if err != nil {
		return err
	}
	if work.Reserve < quantity {
		return fmt.Errorf("release %d units of work %d (reserve=%d): double release", quantity, workID, work.Reserve)
	}
	return tx.Model(work).UpdateColumn("reserve", work.Reserve-quantity).Error
}

// Restock returns units to stock when a validated order (stock already
// confirmed) is cancelled by direction.
func (s *InventoryService) Restock(tx *gorm.DB, workID uint, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	work, err := s.lockWork(tx, workID)
	if err != nil {
		return err
	}
	return tx.Model(work).UpdateColumn("stock", work.Stock+quantity).Error
}

// WorksBelowThreshold lists works whose available stock fell under their
// alert threshold. Read-only; used by the back-office report.
func (s *InventoryService) WorksBelowThreshold(db *gorm.DB) ([]models.Work, error) {
	var works []models.Work
	err := db.Where("stock - reserve < seuil_alerte").Order("id").Find(&works).Error
	return works, err
}
