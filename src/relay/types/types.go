package types

import "time"

// Users
type User struct {
	ID           string `gorm:"primaryKey;size:36"`
	Email        string `gorm:"size:255;unique;not null"`
	PasswordHash string `gorm:"size:128;not null"`
	Name         string `gorm:"size:128"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// One stored chat exchange: the student's question and the assistant's reply.
type ChatMessage struct {
	ID        uint64 `gorm:"primaryKey"`
	UserID    string `gorm:"index;size:36;not null"`
	Message   string `gorm:"type:text;not null"`
	Response  string `gorm:"type:text;not null"`
	InputType string `gorm:"size:16;default:text"` // text | voice
	Provider  string `gorm:"size:32"`
	CreatedAt time.Time
}

// Per-user assistant preferences
type Preference struct {
	UserID       string `gorm:"primaryKey;size:36"`
	Language     string `gorm:"size:16;default:en"`
	VoiceReplies bool   `gorm:"default:false"`
	UpdatedAt    time.Time
}
