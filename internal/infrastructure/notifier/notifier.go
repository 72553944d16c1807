package notifier

import (
	"context"
	"time"

	"github.com/LavaJover/voltz-checkout-service/internal/domain"
	publisher "github.com/LavaJover/voltz-checkout-service/internal/infrastructure/kafka"
	nanoid "github.com/jaevor/go-nanoid"
	"go.uber.org/zap"
)

type idFunc func() string

func newIDFunc() idFunc {
	gen, err := nanoid.Standard(16)
	if err != nil {
		// Standard only fails for lengths outside 2..255.
		panic(err)
	}
	return gen
}

// stamp fills in id and time for notifications built by services.
func stamp(n domain.Notification, id idFunc) domain.Notification {
	if n.ID == "" {
		n.ID = id()
	}
	if n.At.IsZero() {
		n.At = time.Now()
	}
	return n
}

// LogNotifier writes toasts to the service log.
type LogNotifier struct {
	log *zap.Logger
	id  idFunc
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log, id: newIDFunc()}
}

func (n *LogNotifier) Notify(ctx context.Context, note domain.Notification) {
	note = stamp(note, n.id)
	fields := []zap.Field{
		zap.String("notification_id", note.ID),
		zap.String("owner_id", note.OwnerID),
		zap.String("title", note.Title),
		zap.String("message", note.Message),
	}
	switch note.Level {
	case domain.NotifyError:
		n.log.Error("notification", fields...)
	case domain.NotifyWarning:
		n.log.Warn("notification", fields...)
	default:
		n.log.Info("notification", fields...)
	}
}

// KafkaNotifier forwards toasts to the dashboard notifications topic. Delivery
// is fire-and-forget: a failed write is logged, never returned.
type KafkaNotifier struct {
	pub domain.EventPublisher
	log *zap.Logger
	id  idFunc
}

func NewKafkaNotifier(pub domain.EventPublisher, log *zap.Logger) *KafkaNotifier {
	return &KafkaNotifier{pub: pub, log: log, id: newIDFunc()}
}

func (n *KafkaNotifier) Notify(ctx context.Context, note domain.Notification) {
	note = stamp(note, n.id)
	go func() {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()
		if err := publisher.PublishJSON(ctx, n.pub, publisher.TopicNotifications, note.OwnerID, note); err != nil {
			n.log.Warn("failed to publish notification", zap.String("notification_id", note.ID), zap.Error(err))
		}
	}()
}

// Multi fans a notification out to every notifier in order.
type Multi []domain.Notifier

func (m Multi) Notify(ctx context.Context, note domain.Notification) {
	if len(m) > 0 && note.ID == "" {
		note = stamp(note, newIDFunc())
	}
	for _, n := range m {
		n.Notify(ctx, note)
	}
}
