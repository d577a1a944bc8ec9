package events

import "context"

var (
	_ Publisher = (*NoopPublisher)(nil)
	_ Publisher = (*NATSPublisher)(nil)
)

// NoopPublisher discards events. Runs use it when DBFAKER_NATS_URL is unset.
type NoopPublisher struct{}

func (*NoopPublisher) Publish(context.Context, string, any) error { return nil }

func (*NoopPublisher) Close() error { return nil }
