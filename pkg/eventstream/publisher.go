package eventstream

import "context"

// Publisher publishes translation events to an event stream backend.
type Publisher interface {
	PublishTranslation(ctx context.Context, event *TranslationCompletedEvent) error
	Close() error
}
