package services

import (
	"errors"
	"testing"
)

func TestReserveConfirmReleaseArithmetic(t *testing.T) {
	db := setupTestDB(t, t.Name())
	inv := NewInventoryService()
	work := createWork(t, db, "Maths CE1", 10000, 10, "primaire", nil)

	if err := inv.Reserve(db, work.ID, 4); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if err := inv.Reserve(db, work.ID, 3); err != nil {
		t.Fatalf("reserve 2: %v", err)
	}
	w := reloadWork(t, db, work.ID)
	if w.Stock != 10 || w.Reserve != 7 || w.Disponible() != 3 {
		t.Fatalf("after reserves: stock=%d reserve=%d", w.Stock, w.Reserve)
	}
	// reserved + available == total stock à tout instant.
	if w.Reserve+w.Disponible() != w.Stock {
		t.Fatalf("ledger out of balance: %d + %d != %d", w.Reserve, w.Disponible(), w.Stock)
	}

	if err := inv.Confirm(db, work.ID, 4); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	w = reloadWork(t, db, work.ID)
	if w.Stock != 6 || w.Reserve != 3 {
		t.Fatalf("after confirm: stock=%d reserve=%d", w.Stock, w.Reserve)
	}

	if err := inv.Release(db, work.ID, 3); err != nil {
		t.Fatalf("release: %v", err)
	}
	w = reloadWork(t, db, work.ID)
	if w.Stock != 6 || w.Reserve != 0 {
		t.Fatalf("after release: stock=%d reserve=%d", w.Stock, w.Reserve)
	}
	if w.Stock < 0 {
		t.Fatal("stock must never be negative")
	}
}

func TestReserveInsufficient(t *testing.T) {
	db := setupTestDB(t, t.Name())
	inv := NewInventoryService()
	work := createWork(t, db, "Maths CE1", 10000, 3, "primaire", nil)

	if err := inv.Reserve(db, work.ID, 2); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	// 1 disponible, la réservation suivante doit compter la réserve en cours.
	if err := inv.Reserve(db, work.ID, 2); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected insufficient_stock got %v", err)
	}
}

func TestReleaseGuardsDoubleRelease(t *testing.T) {
	db := setupTestDB(t, t.Name())
	inv := NewInventoryService()
	work := createWork(t, db, "Maths CE1", 10000, 3, "primaire", nil)

	if err := inv.Reserve(db, work.ID, 2); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if err := inv.Release(db, work.ID, 2); err != nil {
		t.Fatalf("release: %v", err)
	}
	if err := inv.Release(db, work.ID, 2); err == nil {
		t.Fatal("expected double release to fail")
	}
}

func TestInvalidQuantities(t *testing.T) {
	db := setupTestDB(t, t.Name())
	inv := NewInventoryService()
	work := createWork(t, db, "Maths CE1", 10000, 3, "primaire", nil)

	for _, q := range []int{0, -1} {
		if err := inv.Reserve(db, work.ID, q); !errors.Is(err, ErrInvalidQuantity) {
			t.Fatalf("reserve %d: expected invalid_quantity got %v", q, err)
		}
		if err := inv.Confirm(db, work.ID, q); !errors.Is(err, ErrInvalidQuantity) {
			t.Fatalf("confirm %d: expected invalid_quantity got %v", q, err)
		}
	}
}

func TestWorksBelowThreshold(t *testing.T) {
	db := setupTestDB(t, t.Name())
	inv := NewInventoryService()
	low := createWork(t, db, "Maths CE1", 10000, 2, "primaire", nil)
	if err := db.Model(low).UpdateColumn("seuil_alerte", 5).Error; err != nil {
		t.Fatalf("set threshold: %v", err)
	}
	healthy := createWork(t, db, "Français CE1", 8000, 20, "primaire", nil)
	if err := db.Model(healthy).UpdateColumn("seuil_alerte", 5).Error; err != nil {
		t.Fatalf("set threshold: %v", err)
	}

	works, err := inv.WorksBelowThreshold(db)
	if err != nil {
		t.Fatalf("below threshold: %v", err)
	}
	if len(works) != 1 || works[0].ID != low.ID {
		t.Fatalf("expected only the low work, got %d entries", len(works))
	}
}
