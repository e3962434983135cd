// gatectl 运维命令行：花名册与课表导入、外出补录、数据库迁移、手动触发后台任务
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"campus-gate/config"
	"campus-gate/internal/repository"
	"campus-gate/internal/service"
	"campus-gate/pkg/database"
	applogger "campus-gate/pkg/logger"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:           "gatectl",
	Short:         "校门考勤服务运维工具",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "配置文件路径（默认 ./config/config.yaml）")
	rootCmd.AddCommand(newRosterCmd(), newTimetableCmd(), newOutingCmd(), newMigrateCmd(), newJobsCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "错误:", err)
		os.Exit(1)
	}
}

// app 单次命令执行所需的依赖
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *gorm.DB
	svc    *service.Service
}

// loadConfig 加载配置并初始化日志
func loadConfig() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, err
	}
	logger, err := applogger.NewLogger(&cfg.Log, "gatectl")
	if err != nil {
		return nil, nil, fmt.Errorf("初始化日志失败: %w", err)
	}
	return cfg, logger, nil
}

// openApp 连接数据库并组装 Service，调用方负责 close
func openApp(ctx context.Context) (*app, error) {
	cfg, logger, err := loadConfig()
	if err != nil {
		return nil, err
	}

	connectCtx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()
	db, err := database.NewDB(connectCtx, &cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		return nil, err
	}

	guard := database.NewGuard(&cfg.Database, logger)
	repo := repository.NewRepository(db, guard)
	return &app{
		cfg:    cfg,
		logger: logger,
		db:     db,
		svc:    service.NewService(repo, nil, logger),
	}, nil
}

func (a *app) close() {
	if err := database.Close(a.db); err != nil {
		a.logger.Warn("关闭数据库连接失败", zap.Error(err))
	}
	_ = a.logger.Sync()
}
