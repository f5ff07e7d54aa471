// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// confirm.go - Confirmation for destructive commands.
//
// One pattern for every command:
//  1. --yes (or --confirm) proceeds without prompting
//  2. --json mode requires --yes, since there is nobody to ask
//  3. Without a terminal on stdin, --yes is required
//  4. Otherwise the user is asked, defaulting to no

package cli

// RequireConfirmation reports whether the action may proceed.
func (a *App) RequireConfirmation(yes bool, action, usage string) (bool, error) {
	if yes {
		return true, nil
	}
	if a.Args.JSON {
		return false, NewValidationErrorWithExample("confirmation", "", "--json requires --yes to "+action, usage)
	}
	if a.Prompt.In == nil && !IsTTY() {
		return false, NewValidationErrorWithExample("confirmation", "",
			(&TTYRequiredError{Operation: "confirm"}).Error()+"; pass --yes to "+action, usage)
	}
	return a.Prompt.Confirm("Really " + action + "?")
}
