// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/jeranaias/t2t-tui/internal/model"
)

func threadPath(id int64) string {
	return "/api/threads/" + strconv.FormatInt(id, 10)
}

// ListThreads returns the user's threads in server order.
func (c *Client) ListThreads(ctx context.Context) ([]model.ThreadSummary, error) {
	var resp threadListResponse
	if err := c.doWithRetry(ctx, http.MethodGet, "/api/threads", &resp); err != nil {
		return nil, err
	}
	if resp.Threads == nil {
		return []model.ThreadSummary{}, nil
	}
	return resp.Threads, nil
}

// GetThread fetches a thread with its full message history.
func (c *Client) GetThread(ctx context.Context, id int64) (*model.ThreadDetail, error) {
	var resp threadDetailResponse
	if err := c.doWithRetry(ctx, http.MethodGet, threadPath(id), &resp); err != nil {
		return nil, err
	}
	if resp.Thread == nil {
		return nil, fmt.Errorf("%w: thread %d missing from response", ErrNetwork, id)
	}
	if resp.Thread.Messages == nil {
		resp.Thread.Messages = []model.Message{}
	}
	return resp.Thread, nil
}

// DeleteThread removes a thread.
func (c *Client) DeleteThread(ctx context.Context, id int64) error {
	var resp successResponse
	if err := c.doRequest(ctx, http.MethodDelete, threadPath(id), nil, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return applicationError(http.StatusOK, resp.Error)
	}
	return nil
}

// RenameThread changes a thread's title and returns the updated summary.
func (c *Client) RenameThread(ctx context.Context, id int64, title string) (*model.ThreadSummary, error) {
	var resp threadResponse
	if err := c.doRequest(ctx, http.MethodPut, threadPath(id), renameRequest{Title: title}, &resp); err != nil {
		return nil, err
	}
	if resp.Thread == nil {
		return nil, fmt.Errorf("%w: thread %d missing from response", ErrNetwork, id)
	}
	return resp.Thread, nil
}

// CreateThread creates an empty thread in mode.
func (c *Client) CreateThread(ctx context.Context, title string, mode model.Mode) (*model.ThreadSummary, error) {
	var resp threadResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/threads", createThreadRequest{Title: title, Mode: mode}, &resp); err != nil {
		return nil, err
	}
	if resp.Thread == nil {
		return nil, fmt.Errorf("%w: created thread missing from response", ErrNetwork)
	}
	return resp.Thread, nil
}
