// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package controller

import (
	"context"
	"strconv"
	"strings"

	"github.com/jeranaias/t2t-tui/internal/api"
	"github.com/jeranaias/t2t-tui/internal/model"
)

// MaxTitleLength is the longest title the server keeps.
const MaxTitleLength = 200

// =============================================================================
// THREAD REGISTRY
// =============================================================================

// RefreshThreads replaces the thread list from the server. A 401 leaves the
// list untouched and is not an error. Concurrent refreshes within one
// sign-in share a call, which outlives any single caller's context.
func (c *Controller) RefreshThreads(ctx context.Context) error {
	c.mu.Lock()
	session := c.session
	c.mu.Unlock()

	key := "threads:" + strconv.FormatUint(session, 10)
	ch := c.refreshGroup.DoChan(key, func() (interface{}, error) {
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), refreshTimeout)
		defer cancel()

		threads, err := c.api.ListThreads(rctx)
		if err != nil {
			return nil, err
		}
		c.applyThreads(session, threads)
		return nil, nil
	})

	select {
	case <-ctx.Done():
		return ctx.Err()
	case res := <-ch:
		if res.Err != nil && !api.IsAuthExpired(res.Err) {
			return res.Err
		}
		return nil
	}
}

// applyThreads stores a fetched list unless the account changed or signed
// out while it was in flight.
func (c *Controller) applyThreads(session uint64, threads []model.ThreadSummary) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.User == nil || c.session != session {
		c.logger.Debug("controller", "discarded stale thread list", map[string]interface{}{"threads": len(threads)})
		return
	}
	c.state.Threads = make([]model.ThreadSummary, len(threads))
	copy(c.state.Threads, threads)
}

// SelectThread opens a thread. The detail is always fetched fresh; the
// rendered messages are replaced wholesale and the mode and career progress
// are derived from the fetched thread. The busy flag is held until the
// detail is applied, so sends and deletes wait for it. Refused with ErrBusy
// while a request is in flight.
func (c *Controller) SelectThread(ctx context.Context, id int64) error {
	c.mu.Lock()
	if c.state.Busy {
		c.mu.Unlock()
		return ErrBusy
	}
	c.state.Busy = true
	c.state.BusyKind = RequestSelect
	c.state.BusyMode = c.state.Mode
	c.gen++
	gen := c.gen
	c.mu.Unlock()
	defer c.release()

	detail, err := c.api.GetThread(ctx, id)
	if err != nil {
		if api.IsAuthExpired(err) {
			c.mu.Lock()
			c.expireSessionLocked()
			c.mu.Unlock()
		}
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		// Superseded while loading.
		return nil
	}

	c.gen++
	c.state.ActiveThread = detail.ID
	c.state.Title = detail.Title
	c.state.Messages = model.CloneMessages(detail.Messages)
	c.state.Mode = detail.EffectiveMode()
	if c.state.Mode == model.ModeCareer {
		c.setProgressLocked(model.ProgressFromMessages(detail.Messages).Question)
	} else {
		c.hideCareerLocked()
	}
	if c.state.Surface == SurfaceCareerHook || c.state.Surface == SurfacePaywall {
		c.state.Surface = SurfaceApp
	}

	c.logger.Debug("controller", "thread selected", map[string]interface{}{
		"thread_id": detail.ID,
		"mode":      string(c.state.Mode),
		"messages":  len(detail.Messages),
	})
	return nil
}

// RemoveThread deletes a thread. Removing the active thread resets to a new
// conversation. The list is refreshed afterwards whatever the outcome.
// Refused with ErrBusy while a request is in flight.
func (c *Controller) RemoveThread(ctx context.Context, id int64) error {
	if c.Busy() {
		return ErrBusy
	}

	err := c.api.DeleteThread(ctx, id)
	switch {
	case err == nil:
		c.mu.Lock()
		if c.state.ActiveThread == id {
			c.resetConversationLocked()
			c.leaveCareerModeLocked()
		} else {
			// A late load of the deleted thread must not land.
			c.gen++
		}
		c.mu.Unlock()
		c.logger.Info("controller", "thread deleted", map[string]interface{}{"thread_id": id})
	case api.IsAuthExpired(err):
		c.mu.Lock()
		c.expireSessionLocked()
		c.mu.Unlock()
		return err
	}

	if rerr := c.RefreshThreads(ctx); rerr != nil && err == nil {
		err = rerr
	}
	return err
}

// RenameThread sets a thread's title.
func (c *Controller) RenameThread(ctx context.Context, id int64, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return &ValidationError{Field: "title", Message: "title must not be empty"}
	}
	if r := []rune(title); len(r) > MaxTitleLength {
		title = string(r[:MaxTitleLength])
	}

	summary, err := c.api.RenameThread(ctx, id, title)
	if err != nil {
		if api.IsAuthExpired(err) {
			c.mu.Lock()
			c.expireSessionLocked()
			c.mu.Unlock()
		}
		return err
	}

	c.mu.Lock()
	if c.state.ActiveThread == id {
		c.state.Title = summary.Title
	}
	c.mu.Unlock()

	return c.RefreshThreads(ctx)
}

// StartNew resets to an empty conversation without contacting the server.
// The thread is created when the first message is sent. Allowed while a
// request is in flight; that request's response is then discarded.
func (c *Controller) StartNew() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetConversationLocked()
	c.leaveCareerModeLocked()
	if c.state.Surface == SurfaceCareerHook || c.state.Surface == SurfacePaywall {
		c.state.Surface = SurfaceApp
	}
}

// leaveCareerModeLocked drops back to the default mode when the career
// flow is left, since career is only entered through the hook.
func (c *Controller) leaveCareerModeLocked() {
	if c.state.Mode == model.ModeCareer {
		c.state.Mode = c.defaultMode
	}
}
