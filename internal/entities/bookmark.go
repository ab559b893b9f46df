package entities

import "time"

// Bookmark points at a vocabulary entry by lesson id and pronunciation.
type Bookmark struct {
	ID            string    `json:"_id,omitempty"`
	UserEmail     string    `json:"userEmail"`
	LessonID      string    `json:"lessonId"`
	Pronunciation string    `json:"pronunciation"`
	CreatedAt     time.Time `json:"createdAt"`
}
