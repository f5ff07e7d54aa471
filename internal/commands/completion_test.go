// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"testing"

	"github.com/jeranaias/t2t-tui/internal/model"
)

func values(cs []Completion) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Value
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func newTestCompleter() *Completer {
	c := NewCompleter(NewRegistry())
	c.ThreadsFn = func() []model.ThreadSummary {
		return []model.ThreadSummary{
			{ID: 12, Title: "Pricing strategy", Mode: model.ModeChat},
			{ID: 3, Title: "", Mode: model.ModeCareer},
			{ID: 120, Title: "Market research for a very long title that will be truncated", Mode: model.ModeResearch},
		}
	}
	return c
}

func TestCompleterComplete(t *testing.T) {
	c := newTestCompleter()

	tests := []struct {
		name    string
		input   string
		want    []string
		exclude []string
	}{
		{"command prefix", "/re", []string{"/rename"}, []string{"/help"}},
		{"slash lists names", "/", []string{"/help", "/open", "/whoami"}, []string{"/h", "/q"}},
		{"alias", "/q", []string{"/quit", "/q"}, nil},
		{"mode arg", "/mode ", []string{"chat", "document", "research", "career"}, nil},
		{"mode partial", "/mode re", []string{"research"}, []string{"chat"}},
		{"format arg", "/export y", []string{"yaml"}, []string{"md"}},
		{"thread ids", "/open 1", []string{"12", "120"}, []string{"3"}},
		{"thread hash", "/delete #3", []string{"3"}, nil},
		{"free text", "/rename 12 ", nil, nil},
		{"plain text", "hello", nil, nil},
		{"unknown", "/zzz ", nil, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := values(c.Complete(tc.input, len(tc.input)))
			if tc.want == nil && tc.exclude == nil && len(got) != 0 {
				t.Fatalf("Complete(%q) = %v, want none", tc.input, got)
			}
			for _, w := range tc.want {
				if !contains(got, w) {
					t.Errorf("Complete(%q) = %v, missing %q", tc.input, got, w)
				}
			}
			for _, x := range tc.exclude {
				if contains(got, x) {
					t.Errorf("Complete(%q) = %v, should not contain %q", tc.input, got, x)
				}
			}
		})
	}
}

func TestCompleterComplete_CursorInMiddle(t *testing.T) {
	c := newTestCompleter()
	got := values(c.Complete("/mo research", 3))
	if !contains(got, "/mode") {
		t.Errorf("completion at cursor = %v", got)
	}
}

func TestCompleterThreads_KeepsServerOrder(t *testing.T) {
	c := newTestCompleter()
	got := values(c.Complete("/open ", 6))
	want := []string{"12", "3", "120"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("order[%d] = %s, want %s", i, got[i], want[i])
		}
	}

	for _, comp := range c.Complete("/open 3", 7) {
		if comp.Value == "3" && comp.Display != "3  "+model.DefaultTitle {
			t.Errorf("untitled display = %q", comp.Display)
		}
	}
}

func TestCompleterThreads_NoSource(t *testing.T) {
	c := NewCompleter(NewRegistry())
	if got := c.Complete("/open ", 6); got != nil {
		t.Errorf("without ThreadsFn got %v", got)
	}
}

func TestCalculateScore(t *testing.T) {
	if calculateScore("/help", "/help") <= calculateScore("/help", "/h") {
		t.Error("exact match should outrank prefix")
	}
	if calculateScore("/new", "/n") <= calculateScore("/rename", "/r") {
		t.Error("shorter value should outrank longer")
	}
}

func TestSortCompletions(t *testing.T) {
	cs := []Completion{
		{Value: "b", Score: 10},
		{Value: "a", Score: 10},
		{Value: "c", Score: 20},
	}
	sortCompletions(cs)
	got := values(cs)
	want := []string{"c", "a", "b"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sorted = %v, want %v", got, want)
		}
	}
}

func TestCompletionState(t *testing.T) {
	cs := NewCompletionState()
	if cs.GetSelected() != nil || cs.Visible {
		t.Fatal("new state should be empty")
	}
	if cs.Accept() != "" {
		t.Error("Accept on empty state should return the original input")
	}

	cs.Update("/mode re", []Completion{{Value: "research"}, {Value: "resume"}})
	if !cs.Visible || cs.Selected != 0 {
		t.Fatalf("after Update: %+v", cs)
	}
	if got := cs.Accept(); got != "/mode research " {
		t.Errorf("Accept = %q", got)
	}

	cs.Next()
	if cs.GetSelected().Value != "resume" {
		t.Error("Next should select second")
	}
	cs.Next()
	if cs.Selected != 0 {
		t.Error("Next should wrap")
	}
	cs.Prev()
	if cs.Selected != 1 {
		t.Error("Prev should wrap")
	}

	cs.Update("/op", []Completion{{Value: "/open"}})
	if got := cs.Accept(); got != "/open " {
		t.Errorf("Accept command = %q", got)
	}

	cs.Clear()
	if cs.Visible || cs.Completions != nil || cs.Selected != -1 {
		t.Errorf("after Clear: %+v", cs)
	}
}
