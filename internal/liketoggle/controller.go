// Package liketoggle drives the like/unlike buttons of a single cafe.
//
// The controller owns a two-state toggle (liked / not liked) plus the loading
// and failed states around initialization. Network I/O goes through a
// Transport and drawing through a View so both can be swapped in tests.
package liketoggle

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Transport talks to the like endpoints on behalf of the current user.
type Transport interface {
	CheckLike(ctx context.Context, cafeID int64) (bool, error)
	Like(ctx context.Context, cafeID int64) error
	Unlike(ctx context.Context, cafeID int64) error
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the controller's logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithOptimistic flips the visible button before the request is sent and
// reverts it if the request fails.
func WithOptimistic(optimistic bool) Option {
	return func(c *Controller) {
		c.optimistic = optimistic
	}
}

// Controller is the like toggle for one cafe.
type Controller struct {
	cafeID     int64
	transport  Transport
	view       View
	logger     *zap.Logger
	optimistic bool

	mu       sync.Mutex
	state    State
	inFlight bool
	lastErr  error
}

// New creates a controller for cafeID. Nothing is rendered until
// DisplayProperButtons is called.
func New(cafeID int64, transport Transport, view View, opts ...Option) *Controller {
	c := &Controller{
		cafeID:    cafeID,
		transport: transport,
		view:      view,
		logger:    zap.NewNop(),
		state:     StateLoading,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(zap.Int64("cafe_id", cafeID))
	return c
}

// CafeID returns the cafe the controller is bound to.
func (c *Controller) CafeID() int64 { return c.cafeID }

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Buttons returns what is currently rendered.
func (c *Controller) Buttons() Buttons {
	c.mu.Lock()
	defer c.mu.Unlock()
	return buttonsFor(c.state, c.inFlight, c.lastErr)
}

// CheckLike asks the server whether the current user likes the cafe.
func (c *Controller) CheckLike(ctx context.Context) (bool, error) {
	liked, err := c.transport.CheckLike(ctx, c.cafeID)
	if err != nil {
		return false, fmt.Errorf("check like for cafe %d: %w", c.cafeID, err)
	}
	return liked, nil
}

// DisplayProperButtons hides both buttons, queries the like status and shows
// the matching button. If the query fails the controller moves to StateFailed
// and renders the error; calling it again retries.
func (c *Controller) DisplayProperButtons(ctx context.Context) error {
	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return ErrInFlight
	}
	c.inFlight = true
	c.state = StateLoading
	c.lastErr = nil
	c.renderLocked()
	c.mu.Unlock()

	liked, err := c.CheckLike(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight = false
	if err != nil {
		c.state = StateFailed
		c.lastErr = err
		c.logger.Warn("like status query failed", zap.Error(err))
		c.renderLocked()
		return err
	}
	c.state = stateFor(liked)
	c.logger.Debug("like status loaded", zap.Stringer("state", c.state))
	c.renderLocked()
	return nil
}

// ClickLike handles a click on the like button.
func (c *Controller) ClickLike(ctx context.Context) error {
	return c.toggle(ctx, "like", StateNotLiked, StateLiked, c.transport.Like)
}

// ClickUnlike handles a click on the unlike button.
func (c *Controller) ClickUnlike(ctx context.Context) error {
	return c.toggle(ctx, "unlike", StateLiked, StateNotLiked, c.transport.Unlike)
}

// Click clicks whichever button is visible.
func (c *Controller) Click(ctx context.Context) error {
	switch c.State() {
	case StateNotLiked:
		return c.ClickLike(ctx)
	case StateLiked:
		return c.ClickUnlike(ctx)
	default:
		return ErrNotVisible
	}
}

func (c *Controller) toggle(ctx context.Context, op string, from, to State, send func(context.Context, int64) error) error {
	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return ErrInFlight
	}
	if c.state != from {
		c.mu.Unlock()
		return fmt.Errorf("%s: %w", op, ErrNotVisible)
	}
	c.inFlight = true
	c.lastErr = nil
	if c.optimistic {
		c.state = to
	}
	c.renderLocked()
	c.mu.Unlock()

	err := send(ctx, c.cafeID)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight = false
	if err != nil {
		c.state = from
		c.lastErr = err
		c.logger.Warn("like toggle failed",
			zap.String("op", op),
			zap.Bool("server_error", IsServerError(err)),
			zap.Error(err))
		c.renderLocked()
		return fmt.Errorf("%s cafe %d: %w", op, c.cafeID, err)
	}
	c.state = to
	c.logger.Info("like toggled", zap.String("op", op), zap.Stringer("state", to))
	c.renderLocked()
	return nil
}

func (c *Controller) renderLocked() {
	if c.view == nil {
		return
	}
	c.view.Render(buttonsFor(c.state, c.inFlight, c.lastErr))
}
