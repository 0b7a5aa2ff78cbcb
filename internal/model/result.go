package model

import "time"

// EditOutcome is the result of an edit operation. When DryRun is set only
// Diff is populated and nothing was written.
type EditOutcome struct {
	DryRun  bool
	Diff    string
	Message string
}

// DeleteOutcome is the tagged result of a delete request: either the
// deletion ran (Executed) or a confirmation token was issued.
type DeleteOutcome struct {
	Executed          bool
	Message           string
	ConfirmationToken string
	ExpiresAt         time.Time
}
