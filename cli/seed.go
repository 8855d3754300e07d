package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/digifood/restaurant-backend/database"
	"github.com/digifood/restaurant-backend/logging"
	menurepo "github.com/digifood/restaurant-backend/menu/repository"
	menusvc "github.com/digifood/restaurant-backend/menu/service"
)

var seedYes bool

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Replace the catalog with the house menu",
	Long: `Wipe every order, dish and category, then load the house menu of
four categories and fifteen dishes. This cannot be undone.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if !seedYes {
			return errors.New("seed deletes all orders and menu data; pass --yes to continue")
		}
		cfg, err := loadConfig()
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
		if err := database.Migrate(db, log); err != nil {
			return err
		}
		svc := menusvc.NewMenuService(menurepo.NewGormMenuRepo(db), nil, log)
		if err := svc.Seed(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "house menu seeded")
		return nil
	},
}

func init() {
	seedCmd.Flags().BoolVar(&seedYes, "yes", false, "confirm the destructive reseed")
	rootCmd.AddCommand(seedCmd)
}
