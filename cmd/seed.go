package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/nderitu/tma/internal/config"
	"github.com/nderitu/tma/internal/seed"
	"github.com/nderitu/tma/internal/services"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load seed users and tasks from the seed file",
	Run: func(cmd *cobra.Command, args []string) {
		conf := config.ReadConfig()
		svc := services.NewServices(conf)

		if err := seed.Load(context.Background(), conf.SEED_FILE, svc); err != nil {
			fmt.Println("Unable to load seed data", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
