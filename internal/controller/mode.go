// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package controller

import "github.com/jeranaias/t2t-tui/internal/model"

// SelectMode switches the active mode. Career is never set directly: it
// opens the career hook instead. Other modes take effect at once, keep the
// current thread and messages, and hide the career indicator.
func (c *Controller) SelectMode(m model.Mode) error {
	if !m.Valid() {
		_, err := model.ParseMode(string(m))
		return err
	}
	if m == model.ModeCareer {
		c.EnterCareer()
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Mode = m
	c.hideCareerLocked()
	if c.state.Surface == SurfaceCareerHook || c.state.Surface == SurfacePaywall {
		c.state.Surface = SurfaceApp
	}
	return nil
}

// ModeInfo returns the presentation metadata of the active mode.
func (c *Controller) ModeInfo() model.ModeInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Mode.Info()
}
