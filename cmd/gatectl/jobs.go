package main

import (
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/spf13/cobra"

	"campus-gate/internal/jobs"
)

func newJobsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "后台任务",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "purge-expired",
		Short: "立即投递一次过期公假清理任务",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			defer logger.Sync()

			client := jobs.NewClient(asynq.RedisClientOpt{
				Addr:     cfg.Redis.Addr,
				Password: cfg.Redis.Password,
				DB:       cfg.Redis.DB,
			})
			defer client.Close()

			info, err := client.EnqueuePurgeExpired(cmd.Context(), "cli")
			if err != nil {
				return fmt.Errorf("投递任务失败: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "已投递任务 %s（队列 %s）\n", info.ID, info.Queue)
			return nil
		},
	})
	return cmd
}
