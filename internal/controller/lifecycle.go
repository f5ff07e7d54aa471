// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package controller

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/jeranaias/t2t-tui/internal/api"
	"github.com/jeranaias/t2t-tui/internal/model"
)

// Conversation notices appended by the client.
const (
	NoticeSessionExpired = "⚠️ Your session expired — please sign in again."
	NoticeNetworkError   = "⚠️ Network error — please check your connection and try again."
	FallbackSendError    = "Something went wrong. Please try again."
	FallbackCareerError  = "Failed to start career session. Please try again."
)

// ErrorNotice formats an application error for the transcript.
func ErrorNotice(reason string) string {
	return fmt.Sprintf("⚠️ Error: %s", reason)
}

// =============================================================================
// OUTCOMES
// =============================================================================

// Outcome is how a request resolved.
type Outcome int

const (
	// OutcomeNone means the request had already been run.
	OutcomeNone Outcome = iota
	// OutcomeReply means an assistant reply was appended.
	OutcomeReply
	// OutcomeStarted means a career thread was opened.
	OutcomeStarted
	// OutcomeAuthExpired means the session expired; the auth surface is up.
	OutcomeAuthExpired
	// OutcomePaywall means the career start needs payment.
	OutcomePaywall
	// OutcomeAppError means the server reported a failure.
	OutcomeAppError
	// OutcomeNetworkError means no usable response arrived.
	OutcomeNetworkError
	// OutcomeStale means the conversation changed meanwhile and the response
	// was discarded.
	OutcomeStale
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeNone:
		return "none"
	case OutcomeReply:
		return "reply"
	case OutcomeStarted:
		return "started"
	case OutcomeAuthExpired:
		return "auth-expired"
	case OutcomePaywall:
		return "paywall"
	case OutcomeAppError:
		return "app-error"
	case OutcomeNetworkError:
		return "network-error"
	case OutcomeStale:
		return "stale"
	default:
		return "unknown"
	}
}

// =============================================================================
// REQUEST
// =============================================================================

// Request is an in-flight operation holding the busy flag. Run must be
// called exactly once; it always releases the flag.
type Request struct {
	c        *Controller
	kind     RequestKind
	text     string
	mode     model.Mode
	threadID int64
	gen      uint64
	ran      atomic.Bool

	// restoreCareer is the career state to return to if a start fails.
	restoreCareer CareerState
}

// Kind returns what the request does.
func (r *Request) Kind() RequestKind {
	return r.kind
}

// Text returns the user message being sent.
func (r *Request) Text() string {
	return r.text
}

// BeginSend starts sending text. It is a silent no-op, returning false,
// when the trimmed text is empty or another request is in flight.
// Otherwise it sets the busy flag and appends the user message before
// returning.
func (c *Controller) BeginSend(text string) (*Request, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Busy {
		return nil, false
	}

	mode := c.state.Mode
	c.state.Busy = true
	c.state.BusyKind = RequestSend
	c.state.BusyMode = mode
	c.appendLocked(model.NewUserMessage(text, mode))

	return &Request{
		c:        c,
		kind:     RequestSend,
		text:     text,
		mode:     mode,
		threadID: c.state.ActiveThread,
		gen:      c.gen,
	}, true
}

// Send is BeginSend followed by Run. It reports OutcomeNone when the send
// was ignored.
func (c *Controller) Send(ctx context.Context, text string) Outcome {
	req, ok := c.BeginSend(text)
	if !ok {
		return OutcomeNone
	}
	return req.Run(ctx)
}

// Run performs the request and applies its result.
func (r *Request) Run(ctx context.Context) Outcome {
	if r.ran.Swap(true) {
		return OutcomeNone
	}
	defer r.c.release()

	switch r.kind {
	case RequestCareerStart:
		return r.c.runCareerStart(ctx, r)
	default:
		return r.c.runSend(ctx, r)
	}
}

// release clears the busy flag.
func (c *Controller) release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Busy = false
	c.state.BusyKind = RequestNone
	c.state.BusyMode = ""
}

// staleLocked reports whether a response for r, naming responseThread, no
// longer belongs to the active conversation.
func (c *Controller) staleLocked(r *Request, responseThread int64) bool {
	if r.gen != c.gen {
		return true
	}
	active := c.state.ActiveThread
	return active != 0 && responseThread != 0 && active != responseThread
}

func (c *Controller) runSend(ctx context.Context, r *Request) Outcome {
	req := api.ChatRequest{Message: r.text, Mode: r.mode}
	if r.threadID != 0 {
		id := r.threadID
		req.ThreadID = &id
	}

	resp, err := c.api.Chat(ctx, req)

	switch {
	case api.IsAuthExpired(err):
		c.mu.Lock()
		stale := c.staleLocked(r, r.threadID)
		c.expireSessionLocked()
		if !stale {
			c.appendLocked(model.NewNotice(NoticeSessionExpired, c.state.Mode))
		}
		c.mu.Unlock()
		c.logger.Info("controller", "session expired during send", nil)
		return OutcomeAuthExpired

	case err == nil:
		outcome := c.applyReply(r, resp)
		if err := c.RefreshThreads(ctx); err != nil {
			c.logger.Warn("controller", "thread refresh after reply failed", map[string]interface{}{"error": err.Error()})
		}
		return outcome

	case api.IsNetwork(err):
		c.logger.Warn("controller", "send failed", map[string]interface{}{"error": err.Error()})
		return c.appendFailure(r, NoticeNetworkError, OutcomeNetworkError)

	default:
		c.logger.Warn("controller", "send rejected", map[string]interface{}{"error": err.Error()})
		notice := ErrorNotice(api.ErrorMessage(err, FallbackSendError))
		return c.appendFailure(r, notice, OutcomeAppError)
	}
}

func (c *Controller) applyReply(r *Request, resp *api.ChatResponse) Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.staleLocked(r, resp.ThreadID) {
		c.logger.Info("controller", "discarded stale reply", map[string]interface{}{"thread_id": resp.ThreadID})
		return OutcomeStale
	}

	if c.state.ActiveThread == 0 {
		c.state.ActiveThread = resp.ThreadID
	}
	if title := resp.Title(); title != "" {
		c.state.Title = title
	}

	replyMode := resp.Mode
	if !replyMode.Valid() {
		replyMode = r.mode
	}
	c.appendLocked(model.NewAssistantMessage(resp.Message, replyMode))

	// The user may have left career mode while the reply was in flight.
	if replyMode == model.ModeCareer && c.state.Mode == model.ModeCareer && resp.QuestionNumber != nil {
		c.setProgressLocked(*resp.QuestionNumber)
	}
	return OutcomeReply
}

// appendFailure adds an error notice tagged with the current mode unless
// the request is stale.
func (c *Controller) appendFailure(r *Request, notice string, outcome Outcome) Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.staleLocked(r, r.threadID) {
		return OutcomeStale
	}
	c.appendLocked(model.NewNotice(notice, c.state.Mode))
	return outcome
}
