package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Skotchmaster/shop_backend/pkg/events"
	"github.com/Skotchmaster/shop_backend/pkg/logging"
)

const publishTimeout = 5 * time.Second

// publish sends an event after the write has committed. Delivery failures are
// logged and never reach the caller.
func publish(ctx context.Context, p events.Publisher, topic string, key any, typ string, data any) {
	if p == nil {
		return
	}
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := p.Publish(pctx, topic, fmt.Sprint(key), events.New(typ, data)); err != nil {
		logging.FromContext(ctx).Error("event_publish_error", "topic", topic, "type", typ, "error", err)
	}
}
