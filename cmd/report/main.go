package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/Curtis1706/lahamarchand-main-sub001/internal/db"
	"github.com/Curtis1706/lahamarchand-main-sub001/internal/models"
	"github.com/Curtis1706/lahamarchand-main-sub001/internal/services"
)

// report is the back-office CLI: royalty and ristourne aggregates, stock
// alerts, and the monthly royalty settlement run.
func main() {
	var (
		showDroits     = flag.Bool("droits", false, "print royalty aggregates per author")
		showRistournes = flag.Bool("ristournes", false, "print ristourne aggregates per partner")
		showStock      = flag.Bool("stock", false, "print works below their stock alert threshold")
		settle         = flag.Bool("settle", false, "run the royalty settlement batch for the given window")
		windowDays     = flag.Int("window", 30, "settlement window in days, ending now")
		ratePct        = flag.Int("rate", services.DefaultRoyaltyRatePct, "royalty rate in whole percent")
	)
	flag.Parse()

	_ = godotenv.Load()
	gdb, err := db.ConnectAndMigrate()
	if err != nil {
		log.Fatal().Err(err).Msg("connexion DB")
	}

	if !*showDroits && !*showRistournes && !*showStock && !*settle {
		flag.Usage()
		return
	}

	if *showDroits {
		if err := printDroits(gdb, *ratePct); err != nil {
			log.Fatal().Err(err).Msg("rapport droits")
		}
	}
	if *showRistournes {
		if err := printRistournes(gdb); err != nil {
			log.Fatal().Err(err).Msg("rapport ristournes")
		}
	}
	if *showStock {
		if err := printStockAlerts(gdb); err != nil {
			log.Fatal().Err(err).Msg("rapport stock")
		}
	}
	if *settle {
		if err := runSettlement(gdb, *ratePct, *windowDays); err != nil {
			log.Fatal().Err(err).Msg("règlement droits")
		}
	}
}

func printDroits(gdb *gorm.DB, ratePct int) error {
	roy := services.NewRoyaltyService(ratePct)

	var authors []models.User
	if err := gdb.Joins("JOIN roles ON roles.id = users.role_id").
		Where("roles.name = ?", "auteur").Order("users.id").Find(&authors).Error; err != nil {
		return err
	}

	table := tablewriter.NewTable(os.Stdout)
	table.Header("Auteur", "Unités", "Généré", "Payé", "En attente")
	for i := range authors {
		a := &authors[i]
		agg, err := roy.Aggregate(gdb, &a.ID, nil)
		if err != nil {
			return err
		}
		if err := table.Append([]string{
			fmt.Sprintf("%s %s", a.Prenom, a.Nom),
			strconv.FormatInt(agg.Unites, 10),
			fcfa(agg.TotalGenere),
			fcfa(agg.TotalPaye),
			fcfa(agg.TotalPending),
		}); err != nil {
			return err
		}
	}
	return table.Render()
}

func printRistournes(gdb *gorm.DB) error {
	ris := services.NewRistourneService()

	var partners []models.User
	if err := gdb.Joins("JOIN roles ON roles.id = users.role_id").
		Where("roles.name = ?", "partenaire").Order("users.id").Find(&partners).Error; err != nil {
		return err
	}

	table := tablewriter.NewTable(os.Stdout)
	table.Header("Partenaire", "Commandes", "Total", "Payé", "En attente")
	for i := range partners {
		p := &partners[i]
		agg, err := ris.Aggregate(gdb, &p.ID)
		if err != nil {
			return err
		}
		if err := table.Append([]string{
			fmt.Sprintf("%s %s", p.Prenom, p.Nom),
			strconv.FormatInt(agg.Nombre, 10),
			fcfa(agg.Total),
			fcfa(agg.Paye),
			fcfa(agg.Pending),
		}); err != nil {
			return err
		}
	}
	return table.Render()
}

func printStockAlerts(gdb *gorm.DB) error {
	inv := services.NewInventoryService()
	works, err := inv.WorksBelowThreshold(gdb)
	if err != nil {
		return err
	}
	if len(works) == 0 {
		fmt.Println("Aucune œuvre sous le seuil d'alerte.")
		return nil
	}

	table := tablewriter.NewTable(os.Stdout)
	table.Header("Œuvre", "Stock", "Réservé", "Disponible", "Seuil")
	for i := range works {
		w := &works[i]
		if err := table.Append([]string{
			w.Titre,
			strconv.Itoa(w.Stock),
			strconv.Itoa(w.Reserve),
			strconv.Itoa(w.Disponible()),
			strconv.Itoa(w.SeuilAlerte),
		}); err != nil {
			return err
		}
	}
	return table.Render()
}

func runSettlement(gdb *gorm.DB, ratePct, windowDays int) error {
	roy := services.NewRoyaltyService(ratePct)
	end := time.Now()
	start := end.AddDate(0, 0, -windowDays)
	batch, err := roy.SettleBatch(gdb, start, end)
	if err != nil {
		return err
	}
	if batch == nil {
		fmt.Println("Aucun droit en attente sur la fenêtre; rien à régler.")
		return nil
	}
	var unites int64
	if err := gdb.Model(&models.RoyaltySale{}).Where("batch_id = ?", batch.ID).Count(&unites).Error; err != nil {
		return err
	}
	fmt.Printf("Lot %s: %s versés sur %d unités.\n", batch.Reference, fcfa(batch.Total), unites)
	return nil
}

// fcfa formats a whole-unit amount with the currency suffix.
func fcfa(v int64) string {
	return strconv.FormatInt(v, 10) + " FCFA"
}
