package mood

import (
	"errors"
	"time"

	"github.com/mood-space/core/internal/journal"
	"github.com/mood-space/core/internal/models"
)

type CreateMoodDTO struct {
	// Owner may be omitted; when set it must match the caller.
	Owner     string `json:"owner"`
	Mood      string `json:"mood"      binding:"required"`
	Note      string `json:"note"      binding:"required"`
	Timestamp string `json:"timestamp"`
}

type moodResponse struct {
	ID        string    `json:"id"`
	Owner     string    `json:"owner"`
	Mood      string    `json:"mood"`
	Name      string    `json:"name"`
	Note      string    `json:"note"`
	Timestamp string    `json:"timestamp"`
	Created   time.Time `json:"created"`
}

func toResponse(m *models.MoodEntryModel) moodResponse {
	res := moodResponse{
		ID:        m.ID,
		Owner:     m.UserID,
		Mood:      m.Mood,
		Note:      m.Note,
		Timestamp: m.Timestamp.UTC().Format(journal.TimestampLayout),
		Created:   m.CreatedAt,
	}
	if parsed, err := journal.ParseMood(m.Mood); err == nil {
		res.Name = parsed.Name()
	}
	return res
}

var (
	ErrNoOwner      = errors.New("entry has no owner")
	ErrEmptyNote    = errors.New("note is required")
	ErrBadTimestamp = errors.New("invalid timestamp")
)
