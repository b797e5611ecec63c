// Package notify is the fire-and-forget notification surface used by the
// cart, session and farmer operations. Notifications never fail the
// operation that raised them.
package notify

import (
	"context"
	"sync"

	"farmFresh/entities"

	"go.uber.org/zap"
)

type Notifier interface {
	Notify(ctx context.Context, n entities.Notification)
}

type collectorKey struct{}

type collector struct {
	mu    sync.Mutex
	items []entities.Notification
}

// Collect attaches a collector to ctx. Notifications raised with the
// returned context are kept and can be read back with Collected.
func Collect(ctx context.Context) context.Context {
	return context.WithValue(ctx, collectorKey{}, &collector{})
}

func Collected(ctx context.Context) []entities.Notification {
	c, ok := ctx.Value(collectorKey{}).(*collector)
	if !ok {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]entities.Notification, len(c.items))
	copy(out, c.items)
	return out
}

// Logger writes notifications to the log and to the request collector, if any.
type Logger struct {
	log *zap.Logger
}

func NewLogger(log *zap.Logger) *Logger {
	return &Logger{log: log}
}

func (l *Logger) Notify(ctx context.Context, n entities.Notification) {
	l.log.Debug("notification",
		zap.String("level", string(n.Level)),
		zap.String("message", n.Message))

	if c, ok := ctx.Value(collectorKey{}).(*collector); ok {
		c.mu.Lock()
		c.items = append(c.items, n)
		c.mu.Unlock()
	}
}

func Success(msg string) entities.Notification {
	return entities.Notification{Level: entities.LevelSuccess, Message: msg}
}

func Info(msg string) entities.Notification {
	return entities.Notification{Level: entities.LevelInfo, Message: msg}
}

func Error(msg string) entities.Notification {
	return entities.Notification{Level: entities.LevelError, Message: msg}
}
