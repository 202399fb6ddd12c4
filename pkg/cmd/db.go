package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/model"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/storage/db"
)

var (
	dbCmd = &cobra.Command{
		Use:   "db",
		Short: "database commands",
	}

	dbListCmd = &cobra.Command{
		Use:     "list",
		Short:   "list compiled-in database drivers",
		Aliases: []string{"ls"},
		Run: func(cmd *cobra.Command, _ []string) {
			for _, t := range db.GetRegisteredDBTypes() {
				fmt.Fprintln(cmd.OutOrStdout(), t)
			}
		},
	}

	dbMigrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "create or update the site tables",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			client, err := db.New(cmd.Context(), &cfg.DB)
			if err != nil {
				return err
			}
			defer client.Close()

			models := model.All()
			if err := client.Migrate(cmd.Context(), models...); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "migrated %d tables on %s\n", len(models), cfg.DB.Type.Canonical())

			return nil
		},
	}

	// 连接配置的数据库并打印往返耗时与连接池状态.
	dbPingCmd = &cobra.Command{
		Use:   "ping",
		Short: "check database connectivity",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			client, err := db.New(cmd.Context(), &cfg.DB)
			if err != nil {
				return err
			}
			defer client.Close()

			start := time.Now()
			if err := client.HealthCheck(cmd.Context()); err != nil {
				return err
			}

			stats, err := client.Stats()
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s ok in %s (open=%d idle=%d)\n",
				cfg.DB.Type.Canonical(), time.Since(start).Round(time.Microsecond), stats.OpenConnections, stats.Idle)

			return nil
		},
	}
)

func registerDBCommands() {
	rootCmd.AddCommand(dbCmd)
	dbCmd.AddCommand(dbListCmd, dbMigrateCmd, dbPingCmd)
}
