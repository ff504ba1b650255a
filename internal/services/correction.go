package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/Curtis1706/lahamarchand-main-sub001/gate"
	"github.com/Curtis1706/lahamarchand-main-sub001/internal/capability"
	"github.com/Curtis1706/lahamarchand-main-sub001/internal/lifecycle"
	"github.com/Curtis1706/lahamarchand-main-sub001/internal/models"
)

// CorrectionService is the gate every manual correction passes through.
// Only direction may correct; every correction writes an append-only
// CorrectionEntry and applies the field change as a pair, in one
// transaction. The log itself has no update or delete operation.
type CorrectionService struct {
	DB       *gorm.DB
	Registry *capability.Registry
}

func NewCorrectionService(db *gorm.DB, reg *capability.Registry) *CorrectionService {
	return &CorrectionService{DB: db, Registry: reg}
}

// correctable whitelists the (record kind, field) pairs open to correction.
var correctable = map[string]map[string]bool{
	capability.ResourceCommande:  {"statut": true},
	capability.ResourceOeuvre:    {"prix_unitaire": true, "stock": true, "seuil_alerte": true},
	capability.ResourceDroit:     {"montant": true, "statut": true},
	capability.ResourceRistourne: {"montant": true, "statut": true},
}

// Correct applies a manual correction on behalf of actorID.
func (s *CorrectionService) Correct(ctx context.Context, kind string, targetID uint, field, newValue, reason string, actorID uint) (*models.CorrectionEntry, error) {
	var actor models.User
	if err := s.DB.Preload("Role").First(&actor, actorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := s.Registry.Authorize(ctx, actor.Role.Name, gate.ActionCreate, capability.ResourceCorrection, nil); err != nil {
		return nil, ErrUnauthorized
	}
	if strings.TrimSpace(reason) == "" {
		return nil, ErrMissingReason
	}
	fields, ok := correctable[kind]
	if !ok || !fields[field] {
		return nil, ErrUnknownTarget
	}

	var entry models.CorrectionEntry
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		oldValue, err := s.apply(tx, kind, targetID, field, newValue)
		if err != nil {
			return err
		}
		entry = models.CorrectionEntry{
			OperationKind:  kind,
			OperationID:    targetID,
			Champ:          field,
			AncienneValeur: oldValue,
			NouvelleValeur: newValue,
			Motif:          strings.TrimSpace(reason),
			AuteurID:       actor.ID,
		}
		return tx.Create(&entry).Error
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// apply reads the current value and writes the new one, returning the old
// value for the audit entry.
func (s *CorrectionService) apply(tx *gorm.DB, kind string, targetID uint, field, newValue string) (string, error) {
	switch kind {
	case capability.ResourceCommande:
		var order models.Order
		if err := tx.First(&order, targetID).Error; err != nil {
			return "", targetErr(err)
		}
		// Une correction de statut contourne la machine à états (autorité
		// direction) mais le statut écrit doit exister, et la version est
		// incrémentée pour invalider les écrivains optimistes concurrents.
		target := lifecycle.Status(newValue)
		if !lifecycle.Known(target) {
			return "", ErrUnknownStatus
		}
		old := string(order.Statut)
		err := tx.Model(&order).Updates(map[string]any{
			"statut":  target,
			"version": order.Version + 1,
		}).Error
		return old, err

	case capability.ResourceOeuvre:
		var work models.Work
		if err := tx.First(&work, targetID).Error; err != nil {
			return "", targetErr(err)
		}
		n, err := strconv.ParseInt(newValue, 10, 64)
		if err != nil || n < 0 {
			return "", ErrInvalidAmount
		}
		switch field {
		case "prix_unitaire":
			old := strconv.FormatInt(work.PrixUnitaire, 10)
			return old, tx.Model(&work).UpdateColumn("prix_unitaire", n).Error
		case "stock":
			if int(n) < work.Reserve {
				// Le stock ne peut pas passer sous la quantité réservée.
				return "", ErrInsufficientStock
			}
			old := strconv.Itoa(work.Stock)
			return old, tx.Model(&work).UpdateColumn("stock", int(n)).Error
		case "seuil_alerte":
			old := strconv.Itoa(work.SeuilAlerte)
			return old, tx.Model(&work).UpdateColumn("seuil_alerte", int(n)).Error
		}

	case capability.ResourceDroit:
		var sale models.RoyaltySale
		if err := tx.First(&sale, targetID).Error; err != nil {
			return "", targetErr(err)
		}
		switch field {
		case "montant":
			n, err := strconv.ParseInt(newValue, 10, 64)
			if err != nil || n < 0 {
				return "", ErrInvalidAmount
			}
			old := strconv.FormatInt(sale.Montant, 10)
			return old, tx.Model(&sale).UpdateColumn("montant", n).Error
		case "statut":
			if newValue != "pending" && newValue != "paid" {
				return "", ErrUnknownStatus
			}
			old := sale.Statut
			return old, tx.Model(&sale).UpdateColumn("statut", newValue).Error
		}

	case capability.ResourceRistourne:
		var record models.RistourneRecord
		if err := tx.First(&record, targetID).Error; err != nil {
			return "", targetErr(err)
		}
		switch field {
		case "montant":
			n, err := strconv.ParseInt(newValue, 10, 64)
			if err != nil || n < 0 {
				return "", ErrInvalidAmount
			}
			old := strconv.FormatInt(record.Montant, 10)
			return old, tx.Model(&record).UpdateColumn("montant", n).Error
		case "statut":
			if newValue != "pending" && newValue != "paid" {
				return "", ErrUnknownStatus
			}
			old := record.Statut
			return old, tx.Model(&record).UpdateColumn("statut", newValue).Error
		}
	}
	return "", ErrUnknownTarget
}

func targetErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("load correction target: %w", err)
}

// Entries lists correction entries, newest first, optionally narrowed to one
// operation. Read-only: the log supports no other access.
func (s *CorrectionService) Entries(kind string, targetID uint) ([]models.CorrectionEntry, error) {
	q := s.DB.Model(&models.CorrectionEntry{})
	if kind != "" {
		q = q.Where("operation_kind = ?", kind)
	}
	if targetID != 0 {
		q = q.Where("operation_id = ?", targetID)
	}
	var entries []models.CorrectionEntry
	err := q.Order("id desc").Find(&entries).Error
	return entries, err
}
