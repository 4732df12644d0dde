package database

import (
	"context"
	"sync"
	"sync/atomic"

	apperrors "event-booking/pkg/app_errors"
	"event-booking/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// State 連線快取的狀態
type State int

const (
	StateUninitialized State = iota
	StateConnecting
	StateReady
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateConnecting:
		return "connecting"
	case StateReady:
		return "ready"
	}
	return "unknown"
}

// Lifecycle selects whether Teardown really closes the handle.
type Lifecycle int

const (
	// LifecycleDevelopment keeps the handle open across Teardown calls so
	// rapid reloads do not cause reconnection storms.
	LifecycleDevelopment Lifecycle = iota
	LifecycleProduction
)

func LifecycleFor(production bool) Lifecycle {
	if production {
		return LifecycleProduction
	}
	return LifecycleDevelopment
}

type Connector[T any] func(ctx context.Context) (T, error)

type Closer[T any] func(handle T) error

// ConnectionCache lazily opens a single shared store handle.
//
//	Uninitialized -> Connecting -> Ready
//	Connecting    -> Uninitialized   (connect failed, next Acquire retries)
//	Ready         -> Uninitialized   (Teardown, production lifecycle only)
//
// Concurrent Acquire calls made while a connect is in flight share that
// attempt and its result; exactly one connect runs per attempt.
type ConnectionCache[T any] struct {
	name      string
	connect   Connector[T]
	close     Closer[T]
	lifecycle Lifecycle

	mu     sync.Mutex
	state  State
	handle T

	group    singleflight.Group
	attempts atomic.Int64
}

func NewConnectionCache[T any](name string, connect Connector[T], close Closer[T], lifecycle Lifecycle) *ConnectionCache[T] {
	return &ConnectionCache[T]{
		name:      name,
		connect:   connect,
		close:     close,
		lifecycle: lifecycle,
	}
}

// Acquire returns the ready handle, connecting first when needed. Failures
// are returned as *apperrors.InfrastructureError.
func (c *ConnectionCache[T]) Acquire(ctx context.Context) (T, error) {
	if handle, ok := c.ready(); ok {
		return handle, nil
	}

	v, err, shared := c.group.Do(c.name, func() (interface{}, error) {
		c.mu.Lock()
		if c.state == StateReady {
			handle := c.handle
			c.mu.Unlock()
			return handle, nil
		}
		c.state = StateConnecting
		c.mu.Unlock()

		log := logger.WithComponent("database").With(zap.String("store", c.name))
		attempt := c.attempts.Add(1)
		log.Info("connecting", zap.Int64("attempt", attempt))

		// 連線一旦開始就不可取消，只受 connector 自身的逾時限制
		handle, err := c.connect(context.WithoutCancel(ctx))

		c.mu.Lock()
		defer c.mu.Unlock()
		if err != nil {
			c.state = StateUninitialized
			log.Error("connect failed", zap.Int64("attempt", attempt), zap.Error(err))
			return nil, err
		}
		c.handle = handle
		c.state = StateReady
		log.Info("connected", zap.Int64("attempt", attempt))
		return handle, nil
	})
	if err != nil {
		var zero T
		return zero, apperrors.Infrastructure("connect "+c.name, err)
	}
	if shared {
		logger.WithComponent("database").Debug("joined in-flight connect", zap.String("store", c.name))
	}
	return v.(T), nil
}

func (c *ConnectionCache[T]) ready() (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateReady {
		return c.handle, true
	}
	var zero T
	return zero, false
}

// Teardown closes the handle and resets the cache in the production
// lifecycle. In the development lifecycle it does nothing.
func (c *ConnectionCache[T]) Teardown(ctx context.Context) error {
	log := logger.WithComponent("database").With(zap.String("store", c.name))
	if c.lifecycle != LifecycleProduction {
		log.Info("teardown skipped in development lifecycle")
		return nil
	}

	c.mu.Lock()
	if c.state != StateReady {
		c.mu.Unlock()
		return nil
	}
	handle := c.handle
	var zero T
	c.handle = zero
	c.state = StateUninitialized
	c.mu.Unlock()

	if c.close == nil {
		return nil
	}
	if err := c.close(handle); err != nil {
		log.Error("close failed", zap.Error(err))
		return apperrors.Infrastructure("close "+c.name, err)
	}
	log.Info("connection closed")
	return nil
}

func (c *ConnectionCache[T]) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Attempts reports how many connect calls have been made so far.
func (c *ConnectionCache[T]) Attempts() int64 {
	return c.attempts.Load()
}
