// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jeranaias/t2t-tui/internal/api"
	"github.com/jeranaias/t2t-tui/internal/logging"
	"github.com/jeranaias/t2t-tui/internal/model"
)

// API is the backend surface the controller drives. *api.Client implements it.
type API interface {
	Me(ctx context.Context) (*model.User, error)
	Login(ctx context.Context, email, password string) (*model.User, error)
	Signup(ctx context.Context, req api.SignupRequest) (*model.User, error)
	Logout(ctx context.Context) error
	CompleteOnboarding(ctx context.Context) error

	ListThreads(ctx context.Context) ([]model.ThreadSummary, error)
	GetThread(ctx context.Context, id int64) (*model.ThreadDetail, error)
	DeleteThread(ctx context.Context, id int64) error
	RenameThread(ctx context.Context, id int64, title string) (*model.ThreadSummary, error)

	Chat(ctx context.Context, req api.ChatRequest) (*api.ChatResponse, error)
	StartCareer(ctx context.Context) (*api.CareerStartResponse, error)
	CheckoutURL(tier string) string
}

// ErrBusy is returned by thread operations attempted while a request is in
// flight.
var ErrBusy = errors.New("a request is already in progress")

// ValidationError is a client-side form error raised before any network call.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// backgroundTimeout bounds fire-and-forget calls.
const backgroundTimeout = 30 * time.Second

// refreshTimeout bounds a shared thread list refresh.
const refreshTimeout = 30 * time.Second

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller is the single writer of the client session state.
type Controller struct {
	api          API
	logger       logging.Logger
	defaultMode  model.Mode
	checkoutTier string

	mu    sync.Mutex
	state State

	// gen advances whenever the active conversation changes identity.
	gen uint64

	// lastUserID detects a different account signing in.
	lastUserID int64

	// session advances on every sign-in, sign-out and expiry. Thread list
	// refreshes are keyed by it so one account's list never lands in another.
	session uint64

	// careerBeforeHook restores the indicator when the hook is dismissed.
	careerBeforeHook CareerState

	refreshGroup singleflight.Group
	bg           sync.WaitGroup
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithDefaultMode sets the mode used for new sessions. Career is not a valid
// default since it can only be entered through the hook.
func WithDefaultMode(m model.Mode) Option {
	return func(c *Controller) {
		if m.Valid() && m != model.ModeCareer {
			c.defaultMode = m
		}
	}
}

// WithCheckoutTier sets the plan offered from the paywall.
func WithCheckoutTier(tier string) Option {
	return func(c *Controller) {
		if tier != "" {
			c.checkoutTier = tier
		}
	}
}

// New creates a controller in the signed-out state.
func New(backend API, opts ...Option) *Controller {
	c := &Controller{
		api:          backend,
		logger:       logging.Nop(),
		defaultMode:  model.DefaultMode,
		checkoutTier: api.DefaultCheckoutTier,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.state = State{
		Surface: SurfaceAuth,
		Mode:    c.defaultMode,
	}
	return c
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Busy reports whether a request is in flight.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Busy
}

// Wait blocks until fire-and-forget work has finished.
func (c *Controller) Wait() {
	c.bg.Wait()
}

// =============================================================================
// INTERNAL HELPERS (caller holds c.mu)
// =============================================================================

// resetConversationLocked returns to the empty "new conversation" view.
func (c *Controller) resetConversationLocked() {
	c.gen++
	c.state.ActiveThread = 0
	c.state.Title = ""
	c.state.Messages = nil
	c.hideCareerLocked()
}

func (c *Controller) hideCareerLocked() {
	c.state.Career = CareerHidden
	c.state.CareerProgress = model.CareerProgress{}
}

// setProgressLocked applies a question index to the career flow.
func (c *Controller) setProgressLocked(n int) {
	c.state.CareerProgress = model.NewCareerProgress(n)
	if c.state.CareerProgress.Complete() {
		c.state.Career = CareerComplete
	} else {
		c.state.Career = CareerInProgress
	}
}

// expireSessionLocked routes to the auth surface after a 401. Conversation
// state is kept so the user can continue after signing in again.
func (c *Controller) expireSessionLocked() {
	c.session++
	c.state.User = nil
	c.state.Surface = SurfaceAuth
	c.state.AuthPanel = PanelLogin
	c.state.AuthError = AuthSessionExpired
}

func (c *Controller) appendLocked(msg model.Message) {
	c.state.Messages = append(c.state.Messages, msg)
}

// goBackground runs fn detached from the caller with its own timeout.
func (c *Controller) goBackground(name string, fn func(ctx context.Context) error) {
	c.bg.Add(1)
	go func() {
		defer c.bg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), backgroundTimeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			c.logger.Warn("controller", name+" failed", map[string]interface{}{"error": err.Error()})
		}
	}()
}
