package notificator

import (
	"runtime/debug"

	"github.com/wishplanet/wishplanet/internal/models"
	"github.com/wishplanet/wishplanet/pkg/logger"
)

// Notificator fans user-visible messages out to every configured sink. A
// panicking sink is isolated so a broken integration can never take the core
// down with it.
type Notificator struct {
	logger *logger.Logger
	sinks  []models.Notifier
}

func NewNotificator(logger *logger.Logger, sinks ...models.Notifier) *Notificator {
	return &Notificator{logger: logger, sinks: sinks}
}

// safeCall runs a sink method with panic recovery.
func (n *Notificator) safeCall(fn func(), context string) {
	defer func() {
		if r := recover(); r != nil {
			n.logger.Errorw("Notification sink panicked",
				"context", context,
				"panic", r,
				"stack", string(debug.Stack()))
		}
	}()
	fn()
}

func (n *Notificator) Success(text string) {
	for _, sink := range n.sinks {
		sink := sink
		n.safeCall(func() { sink.Success(text) }, "success")
	}
}

func (n *Notificator) Info(text string) {
	for _, sink := range n.sinks {
		sink := sink
		n.safeCall(func() { sink.Info(text) }, "info")
	}
}

func (n *Notificator) Error(text string) {
	for _, sink := range n.sinks {
		sink := sink
		n.safeCall(func() { sink.Error(text) }, "error")
	}
}
