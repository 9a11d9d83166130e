package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Frequency values accepted for a habit: daily, weekly, monthly.
type Habit struct {
	ID            uuid.UUID                  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID        uuid.UUID                  `gorm:"index;not null;column:user_id" json:"user_id"`
	User          *User                      `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
	Title         string                     `gorm:"not null;column:title" json:"title"`
	Description   string                     `gorm:"column:description" json:"description"`
	Frequency     string                     `gorm:"not null;column:frequency" json:"frequency"`
	TargetDays    datatypes.JSONSlice[int]   `gorm:"column:target_days" json:"target_days,omitempty"`
	StreakCount   int                        `gorm:"not null;default:0;column:streak_count" json:"streak_count"`
	LongestStreak int                        `gorm:"not null;default:0;column:longest_streak" json:"longest_streak"`
	LastCompleted *time.Time                 `gorm:"column:last_completed" json:"last_completed,omitempty"`
	Color         string                     `gorm:"column:color" json:"color,omitempty"`
	Icon          string                     `gorm:"column:icon" json:"icon,omitempty"`
	IsActive      bool                       `gorm:"not null;default:true;column:is_active" json:"is_active"`
	CreatedAt     time.Time                  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt     time.Time                  `gorm:"not null;default:now()" json:"updated_at"`
}

func (Habit) TableName() string {
	return "habit"
}
