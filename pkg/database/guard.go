package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"campus-gate/config"
	apperrors "campus-gate/pkg/errors"
)

// Guard 存储调用守卫：为每次调用附加超时，并用熔断器隔离持续故障的数据库。
// 超时与熔断都以 ErrStorageUnavailable 上抛，调用方不做重试。
type Guard struct {
	breaker *gobreaker.CircuitBreaker[struct{}]
	timeout time.Duration
}

// NewGuard 创建存储调用守卫
func NewGuard(cfg *config.DatabaseConfig, logger *zap.Logger) *Guard {
	maxFailures := cfg.Breaker.MaxFailures
	if maxFailures == 0 {
		maxFailures = 5
	}

	settings := gobreaker.Settings{
		Name:        "postgres",
		MaxRequests: 1,
		Timeout:     cfg.Breaker.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		IsSuccessful: isHealthyResult,
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("存储熔断器状态变化",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}

	return &Guard{
		breaker: gobreaker.NewCircuitBreaker[struct{}](settings),
		timeout: cfg.QueryTimeout,
	}
}

// Do 在超时与熔断保护下执行一次存储调用
func (g *Guard) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if g == nil {
		return fn(ctx)
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	_, err := g.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, fn(ctx)
	})

	switch {
	case err == nil:
		return nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return fmt.Errorf("%w: 熔断器已打开", apperrors.ErrStorageUnavailable)
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: 存储调用超时", apperrors.ErrStorageUnavailable)
	}
	return err
}

// State 返回熔断器当前状态（健康检查使用）
func (g *Guard) State() string {
	if g == nil {
		return gobreaker.StateClosed.String()
	}
	return g.breaker.State().String()
}

// isHealthyResult 业务层面的失败（记录不存在、唯一冲突、调用方取消）不计入熔断
func isHealthyResult(err error) bool {
	if err == nil {
		return true
	}
	var appErr *apperrors.Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound),
		errors.Is(err, gorm.ErrDuplicatedKey),
		errors.Is(err, context.Canceled),
		errors.As(err, &appErr):
		return true
	}
	return false
}
