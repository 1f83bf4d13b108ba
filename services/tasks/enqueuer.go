package tasks

import (
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Enqueuer hands tasks to the queue. It is injected into services so
// tests can substitute an in-process fake for the broker-backed client.
type Enqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) error
}

// AsynqEnqueuer wraps an asynq.Client.
type AsynqEnqueuer struct {
	Client *asynq.Client
	Logger *zap.Logger
}

// NewAsynqEnqueuer builds a broker-backed enqueuer over the given Redis
// connection options.
func NewAsynqEnqueuer(redisOpt asynq.RedisClientOpt, logger *zap.Logger) *AsynqEnqueuer {
	return &AsynqEnqueuer{
		Client: asynq.NewClient(redisOpt),
		Logger: logger,
	}
}

// Enqueue submits the task. Callers on the request path treat a failure
// as non-fatal: the write already committed and the job is best-effort.
func (e *AsynqEnqueuer) Enqueue(task *asynq.Task, opts ...asynq.Option) error {
	info, err := e.Client.Enqueue(task, opts...)
	if err != nil {
		e.Logger.Error("failed to enqueue task",
			zap.String("type", task.Type()), zap.Error(err))
		return err
	}
	e.Logger.Debug("task enqueued",
		zap.String("type", task.Type()), zap.String("id", info.ID))
	return nil
}

// Close releases the underlying client connection.
func (e *AsynqEnqueuer) Close() error {
	return e.Client.Close()
}
