package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Curtis1706/lahamarchand-main-sub001/internal/capability"
	"github.com/Curtis1706/lahamarchand-main-sub001/internal/lifecycle"
	"github.com/Curtis1706/lahamarchand-main-sub001/internal/models"
)

// RistourneService computes partner rebates. A rebate is owed exactly once
// per institutional order that is both VALIDATED and fully paid; the rate is
// looked up per line item from the work's book type, so a mixed-type order
// gets a weighted rebate.
type RistourneService struct{}

func NewRistourneService() *RistourneService { return &RistourneService{} }

// ComputeForOrder creates the order's RistourneRecord if it qualifies.
// Returns (false, nil) when the order does not qualify yet or already has a
// record — both are no-ops, never errors. Runs inside the caller's
// transaction; items must have Work.TypeLivre preloaded and the buyer's
// role resolved.
func (s *RistourneService) ComputeForOrder(tx *gorm.DB, order *models.Order) (bool, error) {
	if order.Statut != lifecycle.StatusValidated || !order.Paye {
		return false, nil
	}
	if !capability.Institutional(order.Client.Role.Name) {
		return false, nil
	}

	// Idempotent on order id: an existing record means nothing to do.
	var existing models.RistourneRecord
	err := tx.Where("order_id = ?", order.ID).First(&existing).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("lookup ristourne for order %d: %w", order.ID, err)
	}

	record := models.RistourneRecord{
		OrderID:      order.ID,
		PartenaireID: order.ClientID,
		Statut:       "pending",
	}
	for _, it := range order.Items {
		assiette := it.LineTotal()
		taux := it.Work.TypeLivre.TauxRistournePct
		ligne := models.RistourneLigne{
			TypeLivreID: it.Work.TypeLivreID,
			Assiette:    assiette,
			TauxPct:     taux,
			Montant:     assiette * int64(taux) / 100,
		}
		record.Montant += ligne.Montant
		record.Lignes = append(record.Lignes, ligne)
	}

	if err := tx.Create(&record).Error; err != nil {
		// Un déclenchement concurrent peut passer la recherche; l'index
		// unique sur order_id le rattrape ici.
		var already models.RistourneRecord
		if tx.Where("order_id = ?", order.ID).First(&already).Error == nil {
			return false, ErrDuplicateSettlement
		}
		return false, fmt.Errorf("create ristourne for order %d: %w", order.ID, err)
	}
	return true, nil
}

// ReverseOrder removes the order's pending ristourne and its lines when the
// order is cancelled after validation. A ristourne already paid out stays;
// unwinding it goes through the correction log.
func (s *RistourneService) ReverseOrder(tx *gorm.DB, orderID uint) error {
	var record models.RistourneRecord
	err := tx.Where("order_id = ? AND statut = ?", orderID, "pending").First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := tx.Where("ristourne_id = ?", record.ID).Delete(&models.RistourneLigne{}).Error; err != nil {
		return err
	}
	return tx.Delete(&record).Error
}

// RistourneAggregate sums rebates for one or all partners.
type RistourneAggregate struct {
	Total   int64
	Paye    int64
	Pending int64
	Nombre  int64
}

// List returns rebate records, optionally filtered by partner. Read-only.
func (s *RistourneService) List(db *gorm.DB, partenaireID *uint) ([]models.RistourneRecord, error) {
	q := db.Preload("Lignes").Order("id")
	if partenaireID != nil {
		q = q.Where("partenaire_id = ?", *partenaireID)
	}
	var records []models.RistourneRecord
	err := q.Find(&records).Error
	return records, err
}

// Aggregate is a pure read reduction over RistourneRecord.
func (s *RistourneService) Aggregate(db *gorm.DB, partenaireID *uint) (RistourneAggregate, error) {
	var agg RistourneAggregate
	q := db.Model(&models.RistourneRecord{})
	if partenaireID != nil {
		q = q.Where("partenaire_id = ?", *partenaireID)
	}
	row := struct {
		Total   int64
		Paye    int64
		Pending int64
		Nombre  int64
	}{}
	err := q.Select(
		"COALESCE(SUM(montant),0) AS total, " +
			"COALESCE(SUM(CASE WHEN statut = 'paid' THEN montant ELSE 0 END),0) AS paye, " +
			"COALESCE(SUM(CASE WHEN statut = 'pending' THEN montant ELSE 0 END),0) AS pending, " +
			"COUNT(*) AS nombre").
		Scan(&row).Error
	if err != nil {
		return agg, err
	}
	agg = RistourneAggregate{Total: row.Total, Paye: row.Paye, Pending: row.Pending, Nombre: row.Nombre}
	return agg, nil
}
