package cli

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/digifood/restaurant-backend/availability"
	"github.com/digifood/restaurant-backend/database"
	"github.com/digifood/restaurant-backend/entity"
	"github.com/digifood/restaurant-backend/logging"
	menurepo "github.com/digifood/restaurant-backend/menu/repository"
	menusvc "github.com/digifood/restaurant-backend/menu/service"
	orderrepo "github.com/digifood/restaurant-backend/order/repository"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Operational reports",
}

var availabilityReportCmd = &cobra.Command{
	Use:   "availability",
	Short: "Show today's committed portions and what is left per dish",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		loc, err := cfg.Restaurant.Location()
		if err != nil {
			return err
		}
		log := logging.New(cfg.Log.Level, cfg.Log.Format)
		db, err := database.Open(cfg.DB, log)
		if err != nil {
			return err
		}
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}

		menu := menusvc.NewMenuService(menurepo.NewGormMenuRepo(db), nil, log)
		limits := availability.Limits{Daily: cfg.Restaurant.DailyCap, PerLine: cfg.Restaurant.LineCap}
		avail := availability.NewService(orderrepo.NewGormOrderRepo(db), limits, loc, log)

		items, err := menu.ListAllItems(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to load menu: %w", err)
		}
		counts, err := avail.DailyCounts(cmd.Context())
		if err != nil {
			return err
		}
		return writeAvailability(cmd.OutOrStdout(), items, counts, limits)
	},
}

func init() {
	reportCmd.AddCommand(availabilityReportCmd)
	rootCmd.AddCommand(reportCmd)
}

// availabilityRows lists dishes by name with today's count and remainder.
func availabilityRows(items []entity.MenuItem, counts map[uuid.UUID]int, limits availability.Limits) [][]string {
	sorted := append([]entity.MenuItem(nil), items...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	rows := make([][]string, 0, len(sorted))
	for _, m := range sorted {
		ordered := counts[m.ID]
		left := limits.Remaining(ordered)
		status := "open"
		switch {
		case !m.IsAvailable:
			status = "hidden"
		case left == 0:
			status = "sold out"
		}
		rows = append(rows, []string{
			m.Name,
			m.Price.StringFixed(0),
			strconv.Itoa(ordered),
			strconv.Itoa(left),
			status,
		})
	}
	return rows
}

func writeAvailability(w io.Writer, items []entity.MenuItem, counts map[uuid.UUID]int, limits availability.Limits) error {
	table := tablewriter.NewWriter(w)
	table.Header("Dish", "Price", "Ordered Today", "Left", "Status")
	for _, row := range availabilityRows(items, counts, limits) {
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}
