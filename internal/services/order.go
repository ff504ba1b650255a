package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/Curtis1706/lahamarchand-main-sub001/gate"
	"github.com/Curtis1706/lahamarchand-main-sub001/internal/capability"
	"github.com/Curtis1706/lahamarchand-main-sub001/internal/eventbus"
	"github.com/Curtis1706/lahamarchand-main-sub001/internal/lifecycle"
	"github.com/Curtis1706/lahamarchand-main-sub001/internal/models"
)

// OrderService owns the order lifecycle: creation, status transitions and
// their settlement/inventory side effects. Every mutating operation is one
// store transaction; the order status write and its dependent effects commit
// or roll back together.
type OrderService struct {
	DB        *gorm.DB
	Registry  *capability.Registry
	Inventory *InventoryService
	Royalty   *RoyaltyService
	Ristourne *RistourneService
	Publisher eventbus.Publisher
}

func NewOrderService(db *gorm.DB, reg *capability.Registry, inv *InventoryService, roy *RoyaltyService, ris *RistourneService, pub eventbus.Publisher) *OrderService {
	if pub == nil {
		pub = eventbus.Noop{}
	}
	return &OrderService{DB: db, Registry: reg, Inventory: inv, Royalty: roy, Ristourne: ris, Publisher: pub}
}

// OrderItemInput is one requested line of a new order.
type OrderItemInput struct {
	WorkID   uint
	Quantite int
}

func (s *OrderService) loadActor(actorID uint) (*models.User, error) {
	var actor models.User
	if err := s.DB.Preload("Role").First(&actor, actorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load actor %d: %w", actorID, err)
	}
	return &actor, nil
}

// Create opens a new order in PENDING for the buyer, capturing unit prices
// and reserving stock for every line. Institutional partners are checked
// against their designated book-type scope before anything is reserved.
func (s *OrderService) Create(ctx context.Context, buyerID uint, items []OrderItemInput) (*models.Order, error) {
	if len(items) == 0 {
		return nil, ErrEmptyOrder
	}
	buyer, err := s.loadActor(buyerID)
	if err != nil {
		return nil, err
	}
	if err := s.Registry.Authorize(ctx, buyer.Role.Name, gate.ActionCreate, capability.ResourceCommande, nil); err != nil {
		return nil, ErrUnauthorized
	}

	var order models.Order
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		order = models.Order{ClientID: buyer.ID, Statut: lifecycle.StatusPending}
		for _, in := range items {
			if in.Quantite <= 0 {
				return ErrInvalidQuantity
			}
			var work models.Work
			if err := tx.First(&work, in.WorkID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrNotFound
				}
				return err
			}
			// Un partenaire ne commande que dans sa catégorie désignée.
			if capability.Institutional(buyer.Role.Name) {
				if buyer.ScopeTypeLivreID == nil || work.TypeLivreID != *buyer.ScopeTypeLivreID {
					return ErrScopeViolation
				}
			}
			if err := s.Inventory.Reserve(tx, work.ID, in.Quantite); err != nil {
				return err
			}
			order.Items = append(order.Items, models.OrderItem{
				WorkID:       work.ID,
				Quantite:     in.Quantite,
				PrixUnitaire: work.PrixUnitaire,
			})
		}
		order.Total = order.ComputeTotal()
		return tx.Create(&order).Error
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, "order.created", &order)
	return s.Get(order.ID)
}

// Transition moves the order to target on behalf of actorID. The edge must
// be a legal direct successor, the actor's role must hold the edge
// capability, and the status write is version-guarded: a concurrent winner
// leaves the loser with stale_state and no side effect applied.
func (s *OrderService) Transition(ctx context.Context, orderID uint, target lifecycle.Status, actorID uint) (*models.Order, error) {
	if !lifecycle.Known(target) {
		return nil, ErrUnknownStatus
	}
	actor, err := s.loadActor(actorID)
	if err != nil {
		return nil, err
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.Preload("Items.Work.TypeLivre").Preload("Client.Role").First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		from := order.Statut
		if !lifecycle.Allowed(from, target) {
			return ErrInvalidTransition
		}
		if err := s.Registry.AuthorizeEdge(ctx, actor.Role.Name, target, &order); err != nil {
			return ErrUnauthorized
		}
		// Un acheteur n'annule que ses propres commandes.
		if target == lifecycle.StatusCancelled && actor.Role.Name != capability.RoleDirection && order.ClientID != actor.ID {
			return ErrUnauthorized
		}

		// Écriture de statut gardée par la version lue: le perdant d'une
		// course concurrente n'affecte aucune ligne.
		res := tx.Model(&models.Order{}).
			Where("id = ? AND version = ?", order.ID, order.Version).
			Updates(map[string]any{"statut": target, "version": order.Version + 1})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStaleState
		}
		order.Statut = target

		switch target {
		case lifecycle.StatusValidated:
			for _, it := range order.Items {
				if err := s.Inventory.Confirm(tx, it.WorkID, it.Quantite); err != nil {
					return err
				}
			}
			if err := s.Royalty.AccrueOrder(tx, &order); err != nil {
				return err
			}
			if _, err := s.Ristourne.ComputeForOrder(tx, &order); err != nil {
				return err
			}
		case lifecycle.StatusCancelled:
			for _, it := range order.Items {
				if from == lifecycle.StatusPending {
					if err := s.Inventory.Release(tx, it.WorkID, it.Quantite); err != nil {
						return err
					}
				} else {
					// Annulation direction d'une commande validée: le stock
					// confirmé retourne en rayon.
					if err := s.Inventory.Restock(tx, it.WorkID, it.Quantite); err != nil {
						return err
					}
				}
			}
			if from == lifecycle.StatusValidated {
				// La vente est défaite: les droits et la ristourne encore en
				// attente le sont aussi, dans la même transaction.
				if err := s.Royalty.ReverseOrder(tx, order.ID); err != nil {
					return err
				}
				if err := s.Ristourne.ReverseOrder(tx, order.ID); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.Get(orderID)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, "order."+eventSuffix(target), updated)
	return updated, nil
}

// Cancel is the restricted cancellation edge: buyers cancel their own
// PENDING orders; direction may also cancel VALIDATED ones.
func (s *OrderService) Cancel(ctx context.Context, orderID, actorID uint) (*models.Order, error) {
	return s.Transition(ctx, orderID, lifecycle.StatusCancelled, actorID)
}

// Get returns one order with its lines and buyer.
func (s *OrderService) Get(orderID uint) (*models.Order, error) {
	var order models.Order
	err := s.DB.Preload("Items.Work.TypeLivre").Preload("Client.Role").First(&order, orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// List returns orders, optionally restricted to one buyer.
func (s *OrderService) List(clientID *uint) ([]models.Order, error) {
	q := s.DB.Preload("Items").Order("id desc")
	if clientID != nil {
		q = q.Where("client_id = ?", *clientID)
	}
	var orders []models.Order
	err := q.Find(&orders).Error
	return orders, err
}

func (s *OrderService) publish(ctx context.Context, eventType string, order *models.Order) {
	event := eventbus.OrderEvent{
		EventID:   uuid.NewString(),
		Type:      eventType,
		OrderID:   order.ID,
		ClientID:  order.ClientID,
		Statut:    string(order.Statut),
		Total:     order.Total,
		Timestamp: time.Now().UTC(),
	}
	if err := s.Publisher.Publish(ctx, event); err != nil {
		// L'événement est un signal pour des collaborateurs externes; son
		// échec n'annule jamais une transition déjà validée.
		log.Warn().Err(err).Str("type", eventType).Uint("orderId", order.ID).Msg("event publication failed")
	}
}

func eventSuffix(s lifecycle.Status) string {
	switch s {
	case lifecycle.StatusValidated:
		return "validated"
	case lifecycle.StatusProcessing:
		return "processing"
	case lifecycle.StatusShipped:
		return "shipped"
	case lifecycle.StatusDelivered:
		return "delivered"
	case lifecycle.StatusCancelled:
		return "cancelled"
	default:
		return "updated"
	}
}
