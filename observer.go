package bootkit

import (
	"context"
	"time"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/google/uuid"
)

// Lifecycle event types emitted by StdApplication, in reverse domain
// notation.
const (
	EventTypeComponentRegistered  = "io.bootkit.component.registered"
	EventTypeComponentsRegistered = "io.bootkit.application.components_registered"
	EventTypeConfigLoaded         = "io.bootkit.config.loaded"
	EventTypeConfigured           = "io.bootkit.application.configured"
	EventTypeRunning              = "io.bootkit.application.running"
	EventTypeSignalReceived       = "io.bootkit.application.signal"
	EventTypeShuttingDown         = "io.bootkit.application.shutting_down"
	EventTypeTerminated           = "io.bootkit.application.terminated"
	EventTypeFailed               = "io.bootkit.application.failed"
)

// Observer receives application lifecycle events as CloudEvents.
type Observer interface {
	// OnEvent is called synchronously; observers should return quickly.
	OnEvent(ctx context.Context, event cloudevents.Event) error

	// ObserverID identifies the observer in logs.
	ObserverID() string
}

// FunctionalObserver adapts a function to Observer.
type FunctionalObserver struct {
	id      string
	handler func(ctx context.Context, event cloudevents.Event) error
}

// NewFunctionalObserver creates an observer calling handler for every event.
func NewFunctionalObserver(id string, handler func(ctx context.Context, event cloudevents.Event) error) *FunctionalObserver {
	return &FunctionalObserver{id: id, handler: handler}
}

// OnEvent implements Observer
func (o *FunctionalObserver) OnEvent(ctx context.Context, event cloudevents.Event) error {
	return o.handler(ctx, event)
}

// ObserverID implements Observer
func (o *FunctionalObserver) ObserverID() string {
	return o.id
}

// NewCloudEvent builds a CloudEvent with a time-ordered ID and JSON data.
func NewCloudEvent(eventType, source string, data any, extensions map[string]any) cloudevents.Event {
	event := cloudevents.NewEvent()
	event.SetID(newEventID())
	event.SetSource(source)
	event.SetType(eventType)
	event.SetTime(time.Now())
	event.SetSpecVersion(cloudevents.VersionV1)

	if data != nil {
		_ = event.SetData(cloudevents.ApplicationJSON, data)
	}
	for key, value := range extensions {
		event.SetExtension(key, value)
	}
	return event
}

func newEventID() string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return id.String()
}
