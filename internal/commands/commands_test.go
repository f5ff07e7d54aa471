// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"

	"github.com/jeranaias/t2t-tui/internal/controller"
	"github.com/jeranaias/t2t-tui/internal/model"
)

// =============================================================================
// PARSER TESTS
// =============================================================================

func TestIsCommand(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"/help", true},
		{"/mode research", true},
		{"  /help", true},
		{"hello", false},
		{"hello /help", false},
		{"", false},
		{"/", true},
	}

	for _, tc := range tests {
		if got := IsCommand(tc.input); got != tc.want {
			t.Errorf("IsCommand(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestExtractCommandName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"/help", "/help"},
		{"/open 12", "/open"},
		{"  /rename 3 New title  ", "/rename"},
		{"hello", ""},
		{"/", "/"},
	}

	for _, tc := range tests {
		if got := ExtractCommandName(tc.input); got != tc.want {
			t.Errorf("ExtractCommandName(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestParseArgs(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", nil},
		{"one two", []string{"one", "two"}},
		{`3 "Q3 board deck"`, []string{"3", "Q3 board deck"}},
		{`'it''s'`, []string{"its"}},
		{`"say \"hi\""`, []string{`say "hi"`}},
		{`""`, []string{""}},
		{"naïve  café", []string{"naïve", "café"}},
	}

	for _, tc := range tests {
		if diff := cmp.Diff(tc.want, ParseArgs(tc.input)); diff != "" {
			t.Errorf("ParseArgs(%q) mismatch (-want +got):\n%s", tc.input, diff)
		}
	}
}

func TestParser_Parse(t *testing.T) {
	r := NewRegistry()

	res := r.Parse("  /OPEN 42 ")
	if !res.IsCommand || res.Command == nil || res.Command.Name != "/open" {
		t.Fatalf("Parse(/OPEN 42) = %+v", res)
	}
	if res.RawArgs != "42" {
		t.Errorf("RawArgs = %q, want 42", res.RawArgs)
	}

	res = r.Parse("just chatting")
	if res.IsCommand {
		t.Error("plain text parsed as command")
	}

	res = r.Parse("/nope")
	if !res.IsCommand || res.Command != nil {
		t.Errorf("unknown command: %+v", res)
	}
}

func TestParseThreadID(t *testing.T) {
	tests := []struct {
		input   string
		want    int64
		wantErr bool
	}{
		{"12", 12, false},
		{"#7", 7, false},
		{" 9 ", 9, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"abc", 0, true},
	}

	for _, tc := range tests {
		got, err := ParseThreadID(tc.input)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseThreadID(%q) err = %v, wantErr %v", tc.input, err, tc.wantErr)
		}
		if got != tc.want {
			t.Errorf("ParseThreadID(%q) = %d, want %d", tc.input, got, tc.want)
		}
	}
}

// =============================================================================
// REGISTRY TESTS
// =============================================================================

func TestNewRegistry_Builtins(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{
		"/help", "/quit", "/new", "/mode", "/career", "/threads", "/open",
		"/delete", "/rename", "/export", "/upgrade", "/logout", "/whoami",
	} {
		if r.Get(name) == nil {
			t.Errorf("builtin %s not registered", name)
		}
	}
	if cmd := r.Get("/q"); cmd == nil || cmd.Name != "/quit" {
		t.Error("alias /q should resolve to /quit")
	}
}

func TestRegistry_AllSorted(t *testing.T) {
	cmds := NewRegistry().All()
	for i := 1; i < len(cmds); i++ {
		if cmds[i-1].Name > cmds[i].Name {
			t.Fatalf("All() not sorted at %d: %s > %s", i, cmds[i-1].Name, cmds[i].Name)
		}
	}
}

func TestRegistry_ByCategory(t *testing.T) {
	groups := NewRegistry().ByCategory()
	for cat := range groups {
		found := false
		for _, c := range Categories() {
			if c == cat {
				found = true
			}
		}
		if !found {
			t.Errorf("category %q missing from Categories()", cat)
		}
	}
	if len(groups["Threads"]) != 4 {
		t.Errorf("Threads has %d commands, want 4", len(groups["Threads"]))
	}
}

// =============================================================================
// EXECUTE TESTS
// =============================================================================

func signedIn() *Context {
	return &Context{
		State: controller.State{
			User:     &model.User{ID: 1, Name: "Ada Lovelace", Email: "ada@example.com"},
			Mode:     model.ModeChat,
			Messages: []model.Message{model.NewUserMessage("hi", model.ModeChat)},
		},
		CheckoutTier: "tier1",
	}
}

func run(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command, got nil")
	}
	return cmd()
}

func TestExecute(t *testing.T) {
	tests := []struct {
		input string
		want  tea.Msg
	}{
		{"/help", ShowHelpMsg{}},
		{"/help open", ShowHelpMsg{Topic: "/open"}},
		{"/quit", QuitMsg{}},
		{"/new", NewConversationMsg{}},
		{"/mode research", SwitchModeMsg{Mode: model.ModeResearch}},
		{"/mode DOCUMENT", SwitchModeMsg{Mode: model.ModeDocument}},
		{"/mode career", EnterCareerMsg{}},
		{"/career", EnterCareerMsg{}},
		{"/threads", ListThreadsMsg{}},
		{"/open #12", OpenThreadMsg{ID: 12}},
		{"/delete 4", DeleteThreadMsg{ID: 4}},
		{"/rename 4 Board deck draft", RenameThreadMsg{ID: 4, Title: "Board deck draft"}},
		{`/rename 4 "Quoted title"`, RenameThreadMsg{ID: 4, Title: "Quoted title"}},
		{"/export", ExportMsg{Format: "md"}},
		{"/export YAML", ExportMsg{Format: "yaml"}},
		{"/upgrade", UpgradeMsg{Tier: "tier1"}},
		{"/upgrade tier2", UpgradeMsg{Tier: "tier2"}},
		{"/whoami", WhoAmIMsg{Text: "Signed in as Ada Lovelace <ada@example.com>"}},
		{"/logout", LogoutMsg{}},
	}

	r := NewRegistry()
	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got := run(t, r.Execute(tc.input, signedIn()))
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("Execute(%q) mismatch (-want +got):\n%s", tc.input, diff)
			}
		})
	}
}

func TestExecute_PlainText(t *testing.T) {
	if cmd := NewRegistry().Execute("hello there", signedIn()); cmd != nil {
		t.Error("plain text should not produce a command")
	}
}

func TestExecute_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		ctx     *Context
		wantSub string
	}{
		{"unknown", "/frobnicate", signedIn(), "unknown command /frobnicate"},
		{"missing mode", "/mode", signedIn(), "required argument missing"},
		{"bad mode", "/mode poetry", signedIn(), "expected: chat, document, research, career"},
		{"bad id", "/open abc", signedIn(), "invalid thread id"},
		{"missing title", "/rename 3", signedIn(), "required argument missing for argument 'title'"},
		{"bad format", "/export pdf", signedIn(), "invalid value"},
		{"signed out", "/new", &Context{}, ErrSignedOut.Error()},
		{"nil context", "/threads", nil, ErrSignedOut.Error()},
		{"empty export", "/export", &Context{State: controller.State{User: &model.User{}}}, "nothing to export"},
	}

	r := NewRegistry()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			msg, ok := run(t, r.Execute(tc.input, tc.ctx)).(ErrorMsg)
			if !ok {
				t.Fatalf("expected ErrorMsg for %q", tc.input)
			}
			if !strings.Contains(msg.Error(), tc.wantSub) {
				t.Errorf("error = %q, want substring %q", msg.Error(), tc.wantSub)
			}
		})
	}
}

func TestExecute_SignedOutAllowed(t *testing.T) {
	r := NewRegistry()
	for _, input := range []string{"/help", "/quit", "/whoami"} {
		if _, isErr := run(t, r.Execute(input, &Context{})).(ErrorMsg); isErr {
			t.Errorf("%s should run while signed out", input)
		}
	}
	got := run(t, r.Execute("/whoami", &Context{}))
	if diff := cmp.Diff(WhoAmIMsg{Text: "Not signed in."}, got); diff != "" {
		t.Error(diff)
	}
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Command: "/mode", Arg: "mode", Message: "invalid value", Got: "x", Expected: "chat"}
	want := "/mode: invalid value for argument 'mode' (got: x) - expected: chat"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	var ve *ValidationError
	if !errors.As(ValidateArgs(NewRegistry().Get("/open"), []string{"x"}), &ve) || ve.Arg != "id" {
		t.Errorf("ValidateArgs should tag the argument, got %+v", ve)
	}
}

func TestHelpText(t *testing.T) {
	r := NewRegistry()

	all := HelpText(r, "")
	for _, want := range []string{"Conversation", "Threads", "/rename <id> <title>", "/mode <chat|document|research|career>"} {
		if !strings.Contains(all, want) {
			t.Errorf("help missing %q", want)
		}
	}

	one := HelpText(r, "/open")
	if !strings.Contains(one, "/open <id>") || !strings.Contains(one, "aliases: /o") {
		t.Errorf("command help = %q", one)
	}

	if !strings.Contains(HelpText(r, "/zzz"), "unknown command") {
		t.Error("unknown topic should say so")
	}
}

func TestDescribeUser(t *testing.T) {
	if got := DescribeUser(&model.User{Email: "x@y.z"}); got != "Signed in as x@y.z" {
		t.Errorf("DescribeUser = %q", got)
	}
}
