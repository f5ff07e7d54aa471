// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "fmt"

// CareerQuestions is the number of guided questions in the career flow.
const CareerQuestions = 8

// Career progress labels.
const (
	CareerStartingLabel = "Starting your journey…"
	CareerCompleteLabel = "✅ Report Complete"
)

// CareerProgress is the question index of the career flow, always within
// [0, CareerQuestions].
type CareerProgress struct {
	Question int
}

// NewCareerProgress returns progress for question n, clamped into range.
func NewCareerProgress(n int) CareerProgress {
	return CareerProgress{Question: ClampQuestion(n)}
}

// ClampQuestion bounds n to [0, CareerQuestions].
func ClampQuestion(n int) int {
	if n < 0 {
		return 0
	}
	if n > CareerQuestions {
		return CareerQuestions
	}
	return n
}

// ProgressFromMessages rebuilds progress from a thread's history: the number
// of user messages, capped at CareerQuestions.
func ProgressFromMessages(msgs []Message) CareerProgress {
	return NewCareerProgress(CountUserMessages(msgs))
}

// Fraction returns the fill ratio in [0, 1].
func (p CareerProgress) Fraction() float64 {
	return float64(ClampQuestion(p.Question)) / CareerQuestions
}

// Percent returns the fill as a whole percentage.
func (p CareerProgress) Percent() int {
	return ClampQuestion(p.Question) * 100 / CareerQuestions
}

// Complete reports whether every question has been answered.
func (p CareerProgress) Complete() bool {
	return p.Question >= CareerQuestions
}

// Label returns the text shown beside the progress bar.
func (p CareerProgress) Label() string {
	switch q := ClampQuestion(p.Question); {
	case q >= CareerQuestions:
		return CareerCompleteLabel
	case q == 0:
		return CareerStartingLabel
	default:
		return fmt.Sprintf("Question %d of %d", q, CareerQuestions)
	}
}
