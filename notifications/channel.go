// Package notifications manages the push-messaging registration lifecycle
// and foreground message delivery. Registration is a best-effort side
// channel: every failure is logged and swallowed so it can never block
// the page.
package notifications

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/citizenvoice/pqrs-dashboard-api/models"
)

// SubscriptionKey is the storage key holding the persisted subscription
// flag; its value is the delivery token once registration succeeds
const SubscriptionKey = "isSubscribed"

// State is the registration lifecycle state of the channel
type State int

// Channel states. Unsubscribed is terminal for the session; Subscribed
// suppresses the handshake on later activations.
const (
	StateUninitialized State = iota
	StateUnsubscribed
	StateSubscribed
)

// Provider issues notification permission and delivery tokens from the
// push-messaging platform
type Provider interface {
	RequestPermission(ctx context.Context) (bool, error)
	Token(ctx context.Context) (string, error)
}

// Subscriber registers a delivery token with the backend subscription
// endpoint. gateways.CaseService satisfies this.
type Subscriber interface {
	Subscribe(ctx context.Context, token string) error
}

// Store is the injectable key-value store backing the persisted
// subscription flag
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
}

// Channel is the process-wide notification channel. Construct one per
// process with New; handlers registered with Subscribe receive every
// foreground message with no re-arming between deliveries.
type Channel struct {
	provider   Provider
	subscriber Subscriber
	store      Store

	mu       sync.Mutex
	state    State
	token    string
	handlers map[int]func(models.PushMessage)
	nextID   int
}

// New creates a channel over the given provider, backend subscriber and
// flag store
func New(provider Provider, subscriber Subscriber, store Store) *Channel {
	return &Channel{
		provider:   provider,
		subscriber: subscriber,
		store:      store,
		handlers:   make(map[int]func(models.PushMessage)),
	}
}

// Activate runs the registration handshake once: permission -> token ->
// backend subscription -> persisted flag. A persisted flag skips the
// whole sequence. Activate never returns an error; denial and upstream
// failures leave the channel Unsubscribed for this session.
func (c *Channel) Activate(ctx context.Context) State {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateSubscribed {
		return c.state
	}

	if flag, err := c.store.Get(SubscriptionKey); err != nil {
		zap.S().Warnw("failed to read subscription flag", "error", err)
	} else if flag != "" {
		c.token = flag
		c.state = StateSubscribed
		return c.state
	}

	granted, err := c.provider.RequestPermission(ctx)
	if err != nil {
		zap.S().Warnw("notification permission request failed", "error", err)
		c.state = StateUnsubscribed
		return c.state
	}
	if !granted {
		zap.S().Info("notification permission denied")
		c.state = StateUnsubscribed
		return c.state
	}

	token, err := c.provider.Token(ctx)
	if err != nil {
		zap.S().Warnw("failed to obtain delivery token", "error", err)
		c.state = StateUnsubscribed
		return c.state
	}

	if err := c.subscriber.Subscribe(ctx, token); err != nil {
		zap.S().Warnw("backend subscription failed", "error", err)
		c.state = StateUnsubscribed
		return c.state
	}

	if err := c.store.Set(SubscriptionKey, token); err != nil {
		// Registration succeeded; only the skip-next-time marker is lost.
		zap.S().Warnw("failed to persist subscription flag", "error", err)
	}
	c.token = token
	c.state = StateSubscribed
	return c.state
}

// State returns the current registration state
func (c *Channel) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Token returns the delivery token, empty until Subscribed
func (c *Channel) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// Subscribe registers a handler for foreground messages and returns its
// unsubscribe function. The subscription is persistent: the handler fires
// for every delivery until unsubscribed, with no gap to re-register in.
func (c *Channel) Subscribe(handler func(models.PushMessage)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	c.handlers[id] = handler
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.handlers, id)
	}
}

// Deliver fans one foreground message out to every registered handler.
// Handlers run outside the channel lock.
func (c *Channel) Deliver(msg models.PushMessage) {
	c.mu.Lock()
	handlers := make([]func(models.PushMessage), 0, len(c.handlers))
	for _, h := range c.handlers {
		handlers = append(handlers, h)
	}
	c.mu.Unlock()

	for _, h := range handlers {
		h(msg)
	}
}
