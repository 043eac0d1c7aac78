package mood

import (
	"context"
	"fmt"
	"time"

	"github.com/mood-space/core/internal/journal"
	"github.com/mood-space/core/internal/models"
	"github.com/mood-space/core/internal/pkg/pagination"
	"github.com/mood-space/core/internal/pkg/response"
	"go.uber.org/zap"
)

type Service struct {
	repo Repository
	log  *zap.Logger
}

func NewService(repo Repository, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{repo: repo, log: log.Named("mood")}
}

// Insert stores one entry as given. The mood is stored as its symbol.
func (s *Service) Insert(ctx context.Context, e journal.Entry) (*models.MoodEntryModel, error) {
	if e.Owner == "" {
		return nil, ErrNoOwner
	}
	if !e.Mood.Valid() {
		return nil, journal.ErrUnknownMood
	}
	if e.Note == "" {
		return nil, ErrEmptyNote
	}
	ts := e.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	m := &models.MoodEntryModel{
		UserID:    e.Owner,
		Mood:      e.Mood.Symbol(),
		Note:      e.Note,
		Timestamp: ts.UTC(),
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("insert mood entry: %w", err)
	}
	s.log.Debug("mood saved", zap.String("user_id", e.Owner), zap.String("mood", e.Mood.Name()))
	return m, nil
}

// InsertMoodEntry lets the service serve directly as a journal.EntryStore.
func (s *Service) InsertMoodEntry(ctx context.Context, e journal.Entry) error {
	_, err := s.Insert(ctx, e)
	return err
}

func (s *Service) List(ctx context.Context, userID string, q pagination.Query) ([]models.MoodEntryModel, response.Pagination, error) {
	return s.repo.List(ctx, userID, q)
}

// Latest returns the caller's newest entry, or nil.
func (s *Service) Latest(ctx context.Context, userID string) (*models.MoodEntryModel, error) {
	return s.repo.Latest(ctx, userID)
}
