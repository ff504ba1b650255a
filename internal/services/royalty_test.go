package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Curtis1706/lahamarchand-main-sub001/internal/capability"
	"github.com/Curtis1706/lahamarchand-main-sub001/internal/lifecycle"
	"github.com/Curtis1706/lahamarchand-main-sub001/internal/models"
)

// validateOrder runs the full creation + validation path and returns the
// validated order.
func validateOrder(t *testing.T, svc *OrderService, buyerID, execID uint, items []OrderItemInput) *models.Order {
	t.Helper()
	order, err := svc.Create(context.Background(), buyerID, items)
	require.NoError(t, err)
	validated, err := svc.Transition(context.Background(), order.ID, lifecycle.StatusValidated, execID)
	require.NoError(t, err)
	return validated
}

func TestAccrualIsPerUnitAndIdempotent(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newTestOrderService(db)
	buyer := createUser(t, db, "client@example.com", capability.RoleClient)
	auteur := createUser(t, db, "auteur@example.com", capability.RoleAuteur)
	exec := createUser(t, db, "pdg@example.com", capability.RoleDirection)
	work := createWork(t, db, "Maths CE1", 10000, 10, "primaire", &auteur.ID)

	order := validateOrder(t, svc, buyer.ID, exec.ID, []OrderItemInput{{WorkID: work.ID, Quantite: 3}})

	var sales []models.RoyaltySale
	require.NoError(t, db.Find(&sales).Error)
	require.Len(t, sales, 3)

	// Re-déclenchement: les clés d'unité rendent l'accumulation sans effet.
	full, err := svc.Get(order.ID)
	require.NoError(t, err)
	require.NoError(t, svc.Royalty.AccrueOrder(db, full))
	var count int64
	db.Model(&models.RoyaltySale{}).Count(&count)
	assert.EqualValues(t, 3, count)

	// Somme des droits ≤ chiffre d'affaires confirmé × taux.
	agg, err := svc.Royalty.Aggregate(db, &auteur.ID, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 3*1500, agg.TotalGenere)
	assert.LessOrEqual(t, agg.TotalGenere, int64(3)*10000*15/100)
	assert.EqualValues(t, agg.TotalGenere, agg.TotalPending)
	assert.Zero(t, agg.TotalPaye)
}

func TestPerWorkRateOverride(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newTestOrderService(db)
	buyer := createUser(t, db, "client@example.com", capability.RoleClient)
	auteur := createUser(t, db, "auteur@example.com", capability.RoleAuteur)
	exec := createUser(t, db, "pdg@example.com", capability.RoleDirection)
	work := createWork(t, db, "Atlas illustré", 20000, 5, "promotionnel", &auteur.ID)
	override := 20
	require.NoError(t, db.Model(work).UpdateColumn("taux_droits_pct", override).Error)

	validateOrder(t, svc, buyer.ID, exec.ID, []OrderItemInput{{WorkID: work.ID, Quantite: 1}})

	var sale models.RoyaltySale
	require.NoError(t, db.First(&sale).Error)
	assert.EqualValues(t, 20, sale.TauxPct)
	assert.EqualValues(t, 4000, sale.Montant) // 20 000 × 20%
}

func TestWorkWithoutAuthorAccruesNothing(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newTestOrderService(db)
	buyer := createUser(t, db, "client@example.com", capability.RoleClient)
	exec := createUser(t, db, "pdg@example.com", capability.RoleDirection)
	work := createWork(t, db, "Agenda scolaire", 5000, 5, "promotionnel", nil)

	validateOrder(t, svc, buyer.ID, exec.ID, []OrderItemInput{{WorkID: work.ID, Quantite: 2}})

	var count int64
	db.Model(&models.RoyaltySale{}).Count(&count)
	assert.Zero(t, count)
}

func TestSettleBatchIsIdempotent(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newTestOrderService(db)
	buyer := createUser(t, db, "client@example.com", capability.RoleClient)
	auteur := createUser(t, db, "auteur@example.com", capability.RoleAuteur)
	exec := createUser(t, db, "pdg@example.com", capability.RoleDirection)
	work := createWork(t, db, "Maths CE1", 10000, 10, "primaire", &auteur.ID)

	validateOrder(t, svc, buyer.ID, exec.ID, []OrderItemInput{{WorkID: work.ID, Quantite: 2}})

	start := time.Now().Add(-time.Hour)
	end := time.Now().Add(time.Hour)

	batch, err := svc.Royalty.SettleBatch(db, start, end)
	require.NoError(t, err)
	require.NotNil(t, batch)
	assert.EqualValues(t, 3000, batch.Total)
	assert.NotEmpty(t, batch.Reference)

	var paid []models.RoyaltySale
	require.NoError(t, db.Where("statut = ?", "paid").Find(&paid).Error)
	require.Len(t, paid, 2)
	for _, sale := range paid {
		require.NotNil(t, sale.BatchID)
		assert.Equal(t, batch.ID, *sale.BatchID)
	}

	// Relancer la même fenêtre ne double-paye pas.
	again, err := svc.Royalty.SettleBatch(db, start, end)
	require.NoError(t, err)
	assert.Nil(t, again)
	var batches int64
	db.Model(&models.PaymentBatch{}).Count(&batches)
	assert.EqualValues(t, 1, batches)

	agg, err := svc.Royalty.Aggregate(db, &auteur.ID, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 3000, agg.TotalPaye)
	assert.Zero(t, agg.TotalPending)
}

func TestCancelAfterValidationReversesPendingSettlements(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newTestOrderService(db)
	payments := NewPaymentService(db, svc.Registry, svc.Ristourne)
	partner := createPartner(t, db, "ecole@example.com", "primaire")
	auteur := createUser(t, db, "auteur@example.com", capability.RoleAuteur)
	exec := createUser(t, db, "pdg@example.com", capability.RoleDirection)
	work := createWork(t, db, "Maths CE1", 10000, 10, "primaire", &auteur.ID)

	order, err := svc.Create(context.Background(), partner.ID, []OrderItemInput{{WorkID: work.ID, Quantite: 2}})
	require.NoError(t, err)
	_, err = payments.Record(context.Background(), order.ID, order.Total, "virement", exec.ID)
	require.NoError(t, err)
	_, err = svc.Transition(context.Background(), order.ID, lifecycle.StatusValidated, exec.ID)
	require.NoError(t, err)

	var sales, ristournes int64
	db.Model(&models.RoyaltySale{}).Count(&sales)
	db.Model(&models.RistourneRecord{}).Count(&ristournes)
	require.EqualValues(t, 2, sales)
	require.EqualValues(t, 1, ristournes)

	// L'annulation direction défait la vente: droits et ristourne en attente
	// disparaissent, le stock confirmé retourne en rayon.
	_, err = svc.Cancel(context.Background(), order.ID, exec.ID)
	require.NoError(t, err)

	db.Model(&models.RoyaltySale{}).Count(&sales)
	db.Model(&models.RistourneRecord{}).Count(&ristournes)
	assert.Zero(t, sales)
	assert.Zero(t, ristournes)
	var lignes int64
	db.Model(&models.RistourneLigne{}).Count(&lignes)
	assert.Zero(t, lignes)

	agg, err := svc.Royalty.Aggregate(db, &auteur.ID, nil)
	require.NoError(t, err)
	assert.Zero(t, agg.TotalGenere)

	w := reloadWork(t, db, work.ID)
	assert.Equal(t, 10, w.Stock)
	assert.Equal(t, 0, w.Reserve)
}

func TestCancelAfterSettlementKeepsPaidRoyalties(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newTestOrderService(db)
	buyer := createUser(t, db, "client@example.com", capability.RoleClient)
	auteur := createUser(t, db, "auteur@example.com", capability.RoleAuteur)
	exec := createUser(t, db, "pdg@example.com", capability.RoleDirection)
	work := createWork(t, db, "Maths CE1", 10000, 10, "primaire", &auteur.ID)

	order := validateOrder(t, svc, buyer.ID, exec.ID, []OrderItemInput{{WorkID: work.ID, Quantite: 2}})
	_, err := svc.Royalty.SettleBatch(db, time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	require.NoError(t, err)

	_, err = svc.Cancel(context.Background(), order.ID, exec.ID)
	require.NoError(t, err)

	// Les droits déjà versés restent au bilan; leur reprise passe par le
	// journal de corrections.
	var paid int64
	db.Model(&models.RoyaltySale{}).Where("statut = ?", "paid").Count(&paid)
	assert.EqualValues(t, 2, paid)
}

func TestAggregateFilters(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newTestOrderService(db)
	buyer := createUser(t, db, "client@example.com", capability.RoleClient)
	a1 := createUser(t, db, "a1@example.com", capability.RoleAuteur)
	a2 := createUser(t, db, "a2@example.com", capability.RoleAuteur)
	exec := createUser(t, db, "pdg@example.com", capability.RoleDirection)
	w1 := createWork(t, db, "Maths CE1", 10000, 10, "primaire", &a1.ID)
	w2 := createWork(t, db, "Français CE1", 8000, 10, "primaire", &a2.ID)

	validateOrder(t, svc, buyer.ID, exec.ID, []OrderItemInput{
		{WorkID: w1.ID, Quantite: 1},
		{WorkID: w2.ID, Quantite: 2},
	})

	agg1, err := svc.Royalty.Aggregate(db, &a1.ID, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 1500, agg1.TotalGenere)
	assert.EqualValues(t, 1, agg1.Unites)

	aggW2, err := svc.Royalty.Aggregate(db, nil, &w2.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2*1200, aggW2.TotalGenere) // 8 000 × 15% par unité
	assert.EqualValues(t, 2, aggW2.Unites)

	all, err := svc.Royalty.Aggregate(db, nil, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 1500+2400, all.TotalGenere)
}
