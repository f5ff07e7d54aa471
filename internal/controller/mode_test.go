// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package controller

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/t2t-tui/internal/model"
)

func TestSelectMode(t *testing.T) {
	f := newFakeAPI()
	c := signedInController(t, f)
	require.Equal(t, OutcomeReply, c.Send(context.Background(), "hello"))

	for _, m := range []model.Mode{model.ModeDocument, model.ModeResearch, model.ModeChat} {
		require.NoError(t, c.SelectMode(m))
		s := c.Snapshot()
		assert.Equal(t, m, s.Mode)
		assert.Equal(t, m.Info().Label, c.ModeInfo().Label)
		assert.Equal(t, int64(1), s.ActiveThread, "thread kept")
		assert.Len(t, s.Messages, 2, "messages kept")
	}
	assert.Equal(t, 1, f.Calls("chat"), "switching modes makes no request")
}

func TestSelectMode_Invalid(t *testing.T) {
	c := New(newFakeAPI())
	assert.Error(t, c.SelectMode(model.Mode("poetry")))
	assert.Equal(t, model.ModeChat, c.Snapshot().Mode)
}

func TestSelectMode_ClosesCareerHook(t *testing.T) {
	c := signedInController(t, newFakeAPI())
	c.EnterCareer()
	require.NoError(t, c.SelectMode(model.ModeResearch))
	assert.Equal(t, SurfaceApp, c.Snapshot().Surface)
}
