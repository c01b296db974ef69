package notificator

import "github.com/wishplanet/wishplanet/pkg/logger"

// ZapNotificator is the always-on sink: it renders toasts into the log. A
// headless deployment still gets the full notification stream this way.
type ZapNotificator struct {
	logger *logger.Logger
}

func NewZapNotificator(logger *logger.Logger) *ZapNotificator {
	return &ZapNotificator{logger: logger}
}

func (z *ZapNotificator) Success(text string) { z.logger.Infow(text, "toast", "success") }
func (z *ZapNotificator) Info(text string)    { z.logger.Infow(text, "toast", "info") }
func (z *ZapNotificator) Error(text string)   { z.logger.Errorw(text, "toast", "error") }
