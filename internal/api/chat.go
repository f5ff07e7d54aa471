// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"net/http"
)

// Chat sends one message. It is never retried: a retry after a lost
// response would post the message twice.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	var resp ChatResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/chat", req, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, applicationError(http.StatusOK, resp.Error)
	}
	return &resp, nil
}

// StartCareer opens a career clarity thread. A 403 with "paywall": true
// returns ErrPaywallRequired.
func (c *Client) StartCareer(ctx context.Context) (*CareerStartResponse, error) {
	var resp CareerStartResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/career/start", struct{}{}, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, applicationError(http.StatusOK, resp.Error)
	}
	return &resp, nil
}
