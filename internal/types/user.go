package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type CoachVoicePreference string

const (
	CoachVoiceMotivational CoachVoicePreference = "motivational"
	CoachVoiceSupportive   CoachVoicePreference = "supportive"
	CoachVoiceDirect       CoachVoicePreference = "direct"
	CoachVoiceAnalytical   CoachVoicePreference = "analytical"
	CoachVoiceFriendly     CoachVoicePreference = "friendly"
)

type Preferences struct {
	CoachVoice           CoachVoicePreference `json:"coach_voice"`
	Theme                string               `json:"theme"`
	NotificationsEnabled bool                 `json:"notifications_enabled"`
	DailyReminderTime    string               `json:"daily_reminder_time"`
	WeeklySummaryDay     int                  `json:"weekly_summary_day"`
}

func DefaultPreferences() Preferences {
	return Preferences{
		CoachVoice:           CoachVoiceSupportive,
		Theme:                "system",
		NotificationsEnabled: true,
		DailyReminderTime:    "09:00",
		WeeklySummaryDay:     0,
	}
}

type User struct {
	ID          uuid.UUID                          `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Email       string                             `gorm:"uniqueIndex;not null;column:email" json:"email"`
	Username    string                             `gorm:"not null;column:username" json:"username"`
	Password    string                             `gorm:"not null;column:password" json:"-"`
	IsActive    bool                               `gorm:"not null;default:true;column:is_active" json:"is_active"`
	Preferences datatypes.JSONType[Preferences]    `gorm:"column:preferences" json:"preferences"`
	CreatedAt   time.Time                          `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time                          `gorm:"not null;default:now()" json:"updated_at"`
}

func (User) TableName() string {
	return "user"
}
