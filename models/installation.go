package models

import "time"

// Installation is a GitHub App installation on a user or organisation.
type Installation struct {
	ID                  int64      `json:"id"`
	AccountLogin        string     `json:"account_login"`
	AccountType         string     `json:"account_type"`
	RepositorySelection string     `json:"repository_selection"`
	CreatedAt           time.Time  `json:"created_at"`
	SuspendedAt         *time.Time `json:"suspended_at,omitempty"`
}

func (i Installation) Suspended() bool {
	return i.SuspendedAt != nil
}
