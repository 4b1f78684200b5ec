package models

import "time"

const (
	ReviewModeSimple    = "simple"
	ReviewModeWorkflow  = "workflow"
	ReviewModeConsensus = "consensus"
)

type UserSettings struct {
	ReviewMode         string    `json:"review_mode"`
	EmailNotifications bool      `json:"email_notifications"`
	Theme              string    `json:"theme"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func DefaultSettings() UserSettings {
	return UserSettings{
		ReviewMode:         ReviewModeSimple,
		EmailNotifications: true,
		Theme:              "dark",
	}
}

func ValidReviewMode(mode string) bool {
	switch mode {
	case ReviewModeSimple, ReviewModeWorkflow, ReviewModeConsensus:
		return true
	}
	return false
}

func ValidTheme(theme string) bool {
	return theme == "dark" || theme == "light"
}
