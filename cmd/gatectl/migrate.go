package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"campus-gate/pkg/database"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "数据库迁移",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "执行全部未应用的迁移",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSQLDB(cmd.Context(), func(a *app) error {
				sqlDB, err := a.db.DB()
				if err != nil {
					return err
				}
				return database.RunMigrations(sqlDB, a.logger)
			})
		},
	})

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "回滚迁移",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSQLDB(cmd.Context(), func(a *app) error {
				sqlDB, err := a.db.DB()
				if err != nil {
					return err
				}
				return database.RollbackMigrations(sqlDB, steps, a.logger)
			})
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "回滚步数")
	cmd.AddCommand(down)

	return cmd
}

func withSQLDB(ctx context.Context, fn func(a *app) error) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()
	return fn(a)
}
