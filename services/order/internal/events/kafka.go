package events

import (
	"context"
	"strconv"
)

type EventProducer interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
	Close() error
}

// KafkaSink forwards events to a topic keyed by order id, so every event of
// one order lands on the same partition.
type KafkaSink struct {
	Producer EventProducer
	Topic    string
}

func (k *KafkaSink) Name() string { return "kafka" }

func (k *KafkaSink) Handle(ctx context.Context, ev Event) error {
	return k.Producer.PublishEvent(ctx, k.Topic, strconv.FormatUint(uint64(ev.OrderID), 10), ev)
}

func (k *KafkaSink) Close() error {
	return k.Producer.Close()
}
