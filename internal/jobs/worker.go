package jobs

import (
	"context"
	"errors"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Worker 封装 asynq 服务端与定时调度器
type Worker struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	scheduler *asynq.Scheduler
	logger    *zap.Logger
}

// WorkerConfig Worker 依赖
type WorkerConfig struct {
	RedisOpts   asynq.RedisClientOpt
	Concurrency int
	PurgeCron   string // 为空时不注册定时清理
	Purge       *PurgeExpiredJob
	Logger      *zap.Logger
}

// NewWorker 创建 Worker 并注册任务处理器与定时任务
func NewWorker(cfg WorkerConfig) (*Worker, error) {
	if cfg.Purge == nil {
		return nil, errors.New("worker: purge job not configured")
	}
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	srv := asynq.NewServer(cfg.RedisOpts, asynq.Config{
		Concurrency: concurrency,
		Queues:      map[string]int{QueueDefault: 1},
	})
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskPurgeExpiredApprovals, cfg.Purge.Handle)

	var scheduler *asynq.Scheduler
	if cfg.PurgeCron != "" {
		task, err := NewPurgeExpiredTask("cron")
		if err != nil {
			return nil, err
		}
		scheduler = asynq.NewScheduler(cfg.RedisOpts, nil)
		if _, err := scheduler.Register(cfg.PurgeCron, task, asynq.Queue(QueueDefault), asynq.MaxRetry(3)); err != nil {
			return nil, err
		}
	}

	return &Worker{server: srv, mux: mux, scheduler: scheduler, logger: cfg.Logger}, nil
}

// Run 处理任务直到 ctx 取消
func (w *Worker) Run(ctx context.Context) error {
	if w.scheduler != nil {
		if err := w.scheduler.Start(); err != nil {
			return err
		}
		defer w.scheduler.Shutdown()
	}

	if err := w.server.Start(w.mux); err != nil {
		return err
	}

	<-ctx.Done()
	w.logger.Info("正在停止任务处理")
	w.server.Shutdown()
	return nil
}

// Client 任务投递客户端
type Client struct {
	client *asynq.Client
}

// NewClient 创建任务投递客户端
func NewClient(redisOpts asynq.RedisClientOpt) *Client {
	return &Client{client: asynq.NewClient(redisOpts)}
}

// EnqueuePurgeExpired 立即投递一次清理任务
func (c *Client) EnqueuePurgeExpired(ctx context.Context, source string) (*asynq.TaskInfo, error) {
	task, err := NewPurgeExpiredTask(source)
	if err != nil {
		return nil, err
	}
	return c.client.EnqueueContext(ctx, task, asynq.Queue(QueueDefault))
}

// Close 释放连接
func (c *Client) Close() error {
	return c.client.Close()
}
