package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Curtis1706/lahamarchand-main-sub001/gate"
	"github.com/Curtis1706/lahamarchand-main-sub001/internal/capability"
	"github.com/Curtis1706/lahamarchand-main-sub001/internal/models"
)

// PaymentService records payments observed against orders. The payment
// gateway is an asynchronous collaborator: completion reaches the core as a
// recorded payment, never as an inline call inside a transition. Recording
// requires the paiement:pay capability (responsable, direction). Full
// coverage flips the order's paid flag and re-offers the (idempotent)
// ristourne trigger.
type PaymentService struct {
	DB        *gorm.DB
	Registry  *capability.Registry
	Ristourne *RistourneService
}

func NewPaymentService(db *gorm.DB, reg *capability.Registry, ris *RistourneService) *PaymentService {
	return &PaymentService{DB: db, Registry: reg, Ristourne: ris}
}

// Record stores one payment on behalf of actorID and returns the refreshed
// order.
func (s *PaymentService) Record(ctx context.Context, orderID uint, montant int64, mode string, actorID uint) (*models.Order, error) {
	if montant <= 0 {
		return nil, ErrInvalidAmount
	}
	var actor models.User
	if err := s.DB.Preload("Role").First(&actor, actorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := s.Registry.Authorize(ctx, actor.Role.Name, gate.ActionPay, capability.ResourcePaiement, nil); err != nil {
		return nil, ErrUnauthorized
	}
	var updated models.Order
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.Preload("Items.Work.TypeLivre").Preload("Client.Role").First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		payment := models.Payment{
			OrderID: order.ID,
			Date:    time.Now().UTC(),
			Montant: montant,
			Mode:    mode,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}
		var settled int64
		if err := tx.Model(&models.Payment{}).Where("order_id = ?", order.ID).
			Select("COALESCE(SUM(montant),0)").Scan(&settled).Error; err != nil {
			return err
		}
		if settled >= order.Total && !order.Paye {
			if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).
				UpdateColumn("paye", true).Error; err != nil {
				return err
			}
			order.Paye = true
			// Une commande institutionnelle déjà validée gagne sa ristourne
			// au moment du règlement intégral.
			if _, err := s.Ristourne.ComputeForOrder(tx, &order); err != nil {
				return err
			}
		}
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}
