package events

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	consumerGroupPrefix = "theatre-booking."
	routerCloseTimeout  = 5 * time.Second
)

var marshaler = cqrs.JSONMarshaler{
	GenerateName: cqrs.StructName,
}

// Bus publishes domain events and routes them to registered handlers.
// Redis streams are used when a client is given, an in-process channel otherwise.
type Bus struct {
	publisher message.Publisher
	eventBus  *cqrs.EventBus
	router    *message.Router
	processor *cqrs.EventProcessor
	closers   []func() error
	started   atomic.Bool
	log       *zap.Logger
}

func NewBus(redisClient redis.UniversalClient, log *zap.Logger) (*Bus, error) {
	logger := NewZapLogger(log)

	var (
		publisher   message.Publisher
		constructor func(cqrs.EventProcessorSubscriberConstructorParams) (message.Subscriber, error)
		closers     []func() error
	)

	if redisClient != nil {
		pub, err := redisstream.NewPublisher(redisstream.PublisherConfig{
			Client: redisClient,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("creating redis publisher: %w", err)
		}
		publisher = pub
		closers = append(closers, pub.Close)

		constructor = func(params cqrs.EventProcessorSubscriberConstructorParams) (message.Subscriber, error) {
			return redisstream.NewSubscriber(redisstream.SubscriberConfig{
				Client:        redisClient,
				ConsumerGroup: consumerGroupPrefix + params.HandlerName,
			}, logger)
		}
	} else {
		pubSub := gochannel.NewGoChannel(gochannel.Config{}, logger)
		publisher = pubSub
		closers = append(closers, pubSub.Close)

		constructor = func(params cqrs.EventProcessorSubscriberConstructorParams) (message.Subscriber, error) {
			return pubSub, nil
		}
	}

	eventBus, err := cqrs.NewEventBusWithConfig(publisher, cqrs.EventBusConfig{
		GeneratePublishTopic: func(params cqrs.GenerateEventPublishTopicParams) (string, error) {
			return params.EventName, nil
		},
		Marshaler: marshaler,
		Logger:    logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating event bus: %w", err)
	}

	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: routerCloseTimeout}, logger)
	if err != nil {
		return nil, fmt.Errorf("creating router: %w", err)
	}
	router.AddMiddleware(middleware.Recoverer)
	router.AddMiddleware(middleware.Retry{
		MaxRetries:      3,
		InitialInterval: 100 * time.Millisecond,
		MaxInterval:     time.Second,
		Multiplier:      2,
		Logger:          logger,
	}.Middleware)

	processor, err := cqrs.NewEventProcessorWithConfig(router, cqrs.EventProcessorConfig{
		SubscriberConstructor: constructor,
		GenerateSubscribeTopic: func(params cqrs.EventProcessorGenerateSubscribeTopicParams) (string, error) {
			return params.EventName, nil
		},
		Marshaler: marshaler,
		Logger:    logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating event processor: %w", err)
	}

	return &Bus{
		publisher: publisher,
		eventBus:  eventBus,
		router:    router,
		processor: processor,
		closers:   closers,
		log:       log.With(zap.String("component", "event_bus")),
	}, nil
}

func (b *Bus) Publish(ctx context.Context, event any) error {
	if err := b.eventBus.Publish(ctx, event); err != nil {
		return fmt.Errorf("publish %s: %w", marshaler.Name(event), err)
	}
	return nil
}

// AddHandlers must be called before Run.
func (b *Bus) AddHandlers(handlers ...cqrs.EventHandler) error {
	return b.processor.AddHandlers(handlers...)
}

// Run blocks until ctx is cancelled or the router stops.
func (b *Bus) Run(ctx context.Context) error {
	b.started.Store(true)
	return b.router.Run(ctx)
}

// Running is closed once all handlers are subscribed.
func (b *Bus) Running() chan struct{} {
	return b.router.Running()
}

func (b *Bus) Close() error {
	var firstErr error
	// A router that never ran has no handlers to drain.
	if b.started.Load() {
		if err := b.router.Close(); err != nil {
			firstErr = err
		}
	}
	for _, closeFn := range b.closers {
		if err := closeFn(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
