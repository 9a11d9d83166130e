package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Suggestion is the persisted outcome of a goal-alignment analysis. Rows are
// written by the coach subsystem on both the live and fallback paths and are
// only ever mutated through the apply/unapply toggle.
type Suggestion struct {
	ID                uuid.UUID                   `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID            uuid.UUID                   `gorm:"index;not null;column:user_id" json:"user_id"`
	User              *User                       `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
	EventID           uuid.UUID                   `gorm:"type:uuid;index;not null;column:event_id" json:"event_id"`
	Score             int                         `gorm:"not null;column:score" json:"score"`
	AlignedGoals      datatypes.JSONSlice[string] `gorm:"column:aligned_goals" json:"aligned_goals"`
	Analysis          string                      `gorm:"not null;column:analysis" json:"analysis"`
	SuggestionText    string                      `gorm:"not null;column:suggestion" json:"suggestion"`
	NewGoalSuggestion *string                     `gorm:"column:new_goal_suggestion" json:"new_goal_suggestion,omitempty"`
	IsApplied         bool                        `gorm:"not null;default:false;column:is_applied" json:"is_applied"`
	CreatedAt         time.Time                   `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt         time.Time                   `gorm:"not null;default:now()" json:"updated_at"`
}

func (Suggestion) TableName() string {
	return "suggestion"
}
