// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package controller

import (
	"context"
	"errors"

	"github.com/jeranaias/t2t-tui/internal/api"
	"github.com/jeranaias/t2t-tui/internal/model"
)

// =============================================================================
// CAREER FLOW
// =============================================================================

// EnterCareer shows the career hook. No network call is made.
func (c *Controller) EnterCareer() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Career != CareerHooked {
		c.careerBeforeHook = c.state.Career
		if c.careerBeforeHook == CareerPaywallBlocked {
			c.careerBeforeHook = CareerHidden
		}
	}
	c.state.Career = CareerHooked
	c.state.Surface = SurfaceCareerHook
}

// DismissCareer closes the hook without starting.
func (c *Controller) DismissCareer() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Career == CareerHooked {
		c.state.Career = c.careerBeforeHook
	}
	if c.state.Surface == SurfaceCareerHook {
		c.state.Surface = SurfaceApp
	}
}

// DismissPaywall closes the paywall. The blocked attempt is abandoned.
func (c *Controller) DismissPaywall() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Career == CareerPaywallBlocked {
		c.state.Career = c.careerBeforeHook
	}
	if c.state.Surface == SurfacePaywall {
		c.state.Surface = SurfaceApp
	}
}

// CheckoutURL returns where the paywall hands off to payment.
func (c *Controller) CheckoutURL() string {
	return c.api.CheckoutURL(c.checkoutTier)
}

// BeginCareerStart confirms the hook and takes the busy flag for the start
// request. It returns false unless the hook is showing and no request is in
// flight. The active mode is not changed until the start succeeds.
func (c *Controller) BeginCareerStart() (*Request, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Busy || c.state.Career != CareerHooked {
		return nil, false
	}

	c.state.Busy = true
	c.state.BusyKind = RequestCareerStart
	c.state.BusyMode = model.ModeCareer
	c.state.Surface = SurfaceApp

	return &Request{
		c:             c,
		kind:          RequestCareerStart,
		mode:          model.ModeCareer,
		threadID:      c.state.ActiveThread,
		gen:           c.gen,
		restoreCareer: c.careerBeforeHook,
	}, true
}

// ConfirmCareer is BeginCareerStart followed by Run.
func (c *Controller) ConfirmCareer(ctx context.Context) Outcome {
	req, ok := c.BeginCareerStart()
	if !ok {
		return OutcomeNone
	}
	return req.Run(ctx)
}

func (c *Controller) runCareerStart(ctx context.Context, r *Request) Outcome {
	resp, err := c.api.StartCareer(ctx)

	switch {
	case api.IsAuthExpired(err):
		c.mu.Lock()
		c.state.Career = r.restoreCareer
		c.expireSessionLocked()
		c.mu.Unlock()
		return OutcomeAuthExpired

	case errors.Is(err, api.ErrPaywallRequired):
		c.mu.Lock()
		c.state.Career = CareerPaywallBlocked
		c.state.Surface = SurfacePaywall
		c.mu.Unlock()
		c.logger.Info("controller", "career start blocked by paywall", nil)
		return OutcomePaywall

	case err == nil:
		outcome := c.applyCareerStart(r, resp)
		if err := c.RefreshThreads(ctx); err != nil {
			c.logger.Warn("controller", "thread refresh after career start failed", map[string]interface{}{"error": err.Error()})
		}
		return outcome

	default:
		notice := NoticeNetworkError
		outcome := OutcomeNetworkError
		if !api.IsNetwork(err) {
			notice = ErrorNotice(api.ErrorMessage(err, FallbackCareerError))
			outcome = OutcomeAppError
		}
		c.logger.Warn("controller", "career start failed", map[string]interface{}{"error": err.Error()})

		c.mu.Lock()
		defer c.mu.Unlock()
		if c.state.Career == CareerHooked {
			c.state.Career = r.restoreCareer
		}
		if c.staleLocked(r, r.threadID) {
			return OutcomeStale
		}
		c.appendLocked(model.NewNotice(notice, model.ModeCareer))
		return outcome
	}
}

func (c *Controller) applyCareerStart(r *Request, resp *api.CareerStartResponse) Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.staleLocked(r, r.threadID) {
		c.logger.Info("controller", "discarded stale career start", map[string]interface{}{"thread_id": resp.Thread.ID})
		return OutcomeStale
	}

	c.gen++
	c.state.ActiveThread = resp.Thread.ID
	c.state.Title = resp.Thread.Title
	c.state.Mode = model.ModeCareer
	c.state.Messages = []model.Message{model.NewAssistantMessage(resp.OpeningMessage, model.ModeCareer)}
	c.setProgressLocked(0)

	c.logger.Info("controller", "career session started", map[string]interface{}{"thread_id": resp.Thread.ID})
	return OutcomeStarted
}
