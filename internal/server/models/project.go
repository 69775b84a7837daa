package models

import "time"

// Project is a project pack: a named grouping of participant accounts that
// uploads can be associated with.
type Project struct {
	ID           int64
	ProjectName  string
	CreatorEmail string
	// Participants holds the emails of the member accounts.
	Participants []string
	CreatedAt    time.Time
}
