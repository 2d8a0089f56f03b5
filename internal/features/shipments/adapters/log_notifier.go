package adapter

import (
	"context"

	"go.uber.org/zap"
)

// LogNotifier writes messages to the log instead of sending them.
// Used when no SMS provider key is configured.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Send logs the message and never fails.
func (n *LogNotifier) Send(ctx context.Context, phoneNumber, message string) error {
	n.logger.Info("SMS (log only)", zap.String("to", phoneNumber), zap.String("sms", message))
	return nil
}
