package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Curtis1706/lahamarchand-main-sub001/internal/models"
)

// DefaultRoyaltyRatePct is the platform-wide author royalty rate, in whole
// percent. A work can carry its own override (TauxDroitsPct).
const DefaultRoyaltyRatePct = 15

// RoyaltyService accrues author royalties from confirmed sales and settles
// them in payout batches.
type RoyaltyService struct {
	RatePct int
}

func NewRoyaltyService(ratePct int) *RoyaltyService {
	if ratePct <= 0 {
		ratePct = DefaultRoyaltyRatePct
	}
	return &RoyaltyService{RatePct: ratePct}
}

func (s *RoyaltyService) rateFor(work *models.Work) int {
	if work.TauxDroitsPct != nil && *work.TauxDroitsPct > 0 {
		return *work.TauxDroitsPct
	}
	return s.RatePct
}

// AccrueOrder appends one pending RoyaltySale per confirmed unit of each
// authored work in the order. The unit key (order-line-unit) makes a
// concurrent or repeated trigger append nothing. Items must have their Work
// preloaded. Runs inside the validation transaction: an accrual failure
// rolls the whole transition back.
func (s *RoyaltyService) AccrueOrder(tx *gorm.DB, order *models.Order) error {
	for _, it := range order.Items {
		if it.Work.AuteurID == nil {
			continue // article de catalogue sans auteur désigné
		}
		rate := s.rateFor(&it.Work)
		montant := it.PrixUnitaire * int64(rate) / 100
		for unit := 0; unit < it.Quantite; unit++ {
			sale := models.RoyaltySale{
				WorkID:   it.WorkID,
				AuteurID: *it.Work.AuteurID,
				OrderID:  order.ID,
				UnitKey:  fmt.Sprintf("%d-%d-%d", order.ID, it.ID, unit),
				Montant:  montant,
				TauxPct:  rate,
				Statut:   "pending",
			}
			res := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "unit_key"}},
				DoNothing: true,
			}).Create(&sale)
			if res.Error != nil {
				return fmt.Errorf("accrue royalty %s: %w", sale.UnitKey, res.Error)
			}
		}
	}
	return nil
}

// ReverseOrder deletes the order's pending royalty accruals when the sale
// itself is undone (cancellation after validation). Royalties already paid
// out stay on the books; unwinding those goes through the correction log.
func (s *RoyaltyService) ReverseOrder(tx *gorm.DB, orderID uint) error {
	return tx.Where("order_id = ? AND statut = ?", orderID, "pending").
		Delete(&models.RoyaltySale{}).Error
}

// SettleBatch marks every pending royalty of the window as paid under a new
// payout batch and returns it. Re-running the same window is a no-op (the
// first run left nothing pending) and returns nil without a batch.
func (s *RoyaltyService) SettleBatch(db *gorm.DB, windowStart, windowEnd time.Time) (*models.PaymentBatch, error) {
	var batch *models.PaymentBatch
	err := db.Transaction(func(tx *gorm.DB) error {
		var pending []models.RoyaltySale
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("statut = ? AND created_at >= ? AND created_at < ?", "pending", windowStart, windowEnd).
			Find(&pending).Error; err != nil {
			return err
		}
		if len(pending) == 0 {
			return nil
		}
		var total int64
		ids := make([]uint, 0, len(pending))
		for _, sale := range pending {
			total += sale.Montant
			ids = append(ids, sale.ID)
		}
		b := models.PaymentBatch{
			Reference:   uuid.NewString(),
			WindowStart: windowStart,
			WindowEnd:   windowEnd,
			Total:       total,
		}
		if err := tx.Create(&b).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.RoyaltySale{}).Where("id IN ?", ids).
			Updates(map[string]any{"statut": "paid", "batch_id": b.ID}).Error; err != nil {
			return err
		}
		batch = &b
		return nil
	})
	return batch, err
}

// RoyaltyAggregate sums royalties per author or per work.
type RoyaltyAggregate struct {
	TotalGenere  int64
	TotalPaye    int64
	TotalPending int64
	Unites       int64
}

// Aggregate is a pure read reduction over RoyaltySale; it never mutates
// state. Nil filters mean "all".
func (s *RoyaltyService) Aggregate(db *gorm.DB, auteurID, workID *uint) (RoyaltyAggregate, error) {
	var agg RoyaltyAggregate
	q := db.Model(&models.RoyaltySale{})
	if auteurID != nil {
		q = q.Where("auteur_id = ?", *auteurID)
	}
	if workID != nil {
		q = q.Where("work_id = ?", *workID)
	}
	row := struct {
		Total   int64
		Paye    int64
		Pending int64
		Unites  int64
	}{}
	err := q.Select(
		"COALESCE(SUM(montant),0) AS total, " +
			"COALESCE(SUM(CASE WHEN statut = 'paid' THEN montant ELSE 0 END),0) AS paye, " +
			"COALESCE(SUM(CASE WHEN statut = 'pending' THEN montant ELSE 0 END),0) AS pending, " +
			"COUNT(*) AS unites").
		Scan(&row).Error
	if err != nil {
		return agg, err
	}
	agg = RoyaltyAggregate{TotalGenere: row.Total, TotalPaye: row.Paye, TotalPending: row.Pending, Unites: row.Unites}
	return agg, nil
}

// List returns royalty records, optionally filtered by author and work.
func (s *RoyaltyService) List(db *gorm.DB, auteurID, workID *uint) ([]models.RoyaltySale, error) {
	q := db.Preload("Work").Order("id")
	if auteurID != nil {
		q = q.Where("auteur_id = ?", *auteurID)
	}
	if workID != nil {
		q = q.Where("work_id = ?", *workID)
	}
	var sales []models.RoyaltySale
	err := q.Find(&sales).Error
	return sales, err
}
