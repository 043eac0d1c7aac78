package journal

import (
	"context"
	"time"
)

// TimestampLayout renders entry timestamps in a sortable absolute format.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Session is a read-only view of what the identity provider issued.
type Session struct {
	UserID       string
	Email        string
	AccessToken  string
	RefreshToken string
}

// User is the identity the dashboard holds for the rest of a visit.
type User struct {
	ID    string
	Email string
}

// Entry is the immutable record handed to the store on a successful submit.
type Entry struct {
	Owner     string
	Mood      Mood
	Note      string
	Timestamp time.Time
}

// FormatTimestamp returns the entry's timestamp in UTC with millisecond precision.
func (e Entry) FormatTimestamp() string {
	return e.Timestamp.UTC().Format(TimestampLayout)
}

// SessionProvider is the identity provider as seen by both surfaces.
// A nil session with a nil error means "no session".
type SessionProvider interface {
	GetSession(ctx context.Context) (*Session, error)
	ExchangeSession(ctx context.Context, accessToken, refreshToken string) (*Session, error)
	RequestMagicLink(ctx context.Context, email string) error
	SignOut(ctx context.Context) error
}

// EntryStore accepts mood entries.
type EntryStore interface {
	InsertMoodEntry(ctx context.Context, entry Entry) error
}

// SoundPlayer plays a mood sound. Play must return without waiting for playback.
type SoundPlayer interface {
	Play(path string) error
}

// NoticeLevel classifies a transient user-visible notification.
type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeSuccess NoticeLevel = "success"
	NoticeWarning NoticeLevel = "warning"
	NoticeError   NoticeLevel = "error"
)

// Notice is a toast shown to the user.
type Notice struct {
	Level   NoticeLevel
	Message string
}

// Notifier surfaces notices to the user.
type Notifier interface {
	Notify(n Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }

type nopNotifier struct{}

func (nopNotifier) Notify(Notice) {}

type nopPlayer struct{}

func (nopPlayer) Play(string) error { return nil }
