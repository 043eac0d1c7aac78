package journal

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const (
	MsgSelectMoodAndNote = "Please select a mood and write a note."
	MsgUserNotFound      = "User not found."
	MsgSaveFailed        = "Failed to save entry."
	MsgSaved             = "Mood saved successfully!"
)

// LatestEntry is the in-memory projection of the last successful submit.
type LatestEntry struct {
	Mood Mood
	Note string
}

// ComposerOptions configures a Composer. Zero values fall back to no-op
// collaborators and the wall clock.
type ComposerOptions struct {
	Player   SoundPlayer
	Notifier Notifier
	Logger   *zap.Logger
	Now      func() time.Time
}

// Composer holds the transient mood/note state of a dashboard visit and
// submits it to the store.
type Composer struct {
	store  EntryStore
	player SoundPlayer
	notify Notifier
	log    *zap.Logger
	now    func() time.Time

	owner  string
	mood   Mood
	note   string
	saving bool
	latest *LatestEntry
}

// NewComposer binds a composer to the owner recorded by the guard. An empty
// owner is allowed; Submit then fails with ErrNoSession.
func NewComposer(store EntryStore, owner string, opts ComposerOptions) *Composer {
	c := &Composer{
		store:  store,
		player: opts.Player,
		notify: opts.Notifier,
		log:    opts.Logger,
		now:    opts.Now,
		owner:  owner,
	}
	if c.player == nil {
		c.player = nopPlayer{}
	}
	if c.notify == nil {
		c.notify = nopNotifier{}
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c
}

func (c *Composer) Mood() Mood    { return c.mood }
func (c *Composer) Note() string  { return c.note }
func (c *Composer) Saving() bool  { return c.saving }
func (c *Composer) Owner() string { return c.owner }

// Latest returns a copy of the latest-entry cache, or nil before the first save.
func (c *Composer) Latest() *LatestEntry {
	if c.latest == nil {
		return nil
	}
	cp := *c.latest
	return &cp
}

// SelectMood sets the selection and cues its sound. The note is kept.
func (c *Composer) SelectMood(m Mood) {
	c.mood = m
	if !m.Valid() {
		return
	}
	c.playSound(m.SoundPath())
}

func (c *Composer) playSound(path string) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Debug("sound playback panicked", zap.String("path", path), zap.Any("panic", r))
		}
	}()
	if err := c.player.Play(path); err != nil {
		c.log.Debug("sound playback failed", zap.String("path", path), zap.Error(err))
	}
}

// EditNote replaces the note verbatim.
func (c *Composer) EditNote(text string) { c.note = text }

// Submit validates the current selection and hands one entry to the store.
// Inputs survive a failed insert so the user can retry.
func (c *Composer) Submit(ctx context.Context) error {
	if c.saving {
		return ErrBusy
	}
	if !c.mood.Valid() || c.note == "" {
		c.notify.Notify(Notice{Level: NoticeWarning, Message: MsgSelectMoodAndNote})
		return ErrValidation
	}

	c.saving = true
	defer func() { c.saving = false }()

	if c.owner == "" {
		c.notify.Notify(Notice{Level: NoticeError, Message: MsgUserNotFound})
		return ErrNoSession
	}

	entry := Entry{
		Owner:     c.owner,
		Mood:      c.mood,
		Note:      c.note,
		Timestamp: c.now(),
	}
	if err := c.store.InsertMoodEntry(ctx, entry); err != nil {
		c.log.Warn("mood entry insert failed", zap.String("owner", c.owner), zap.Error(err))
		c.notify.Notify(Notice{Level: NoticeError, Message: MsgSaveFailed})
		return &StoreError{Err: err}
	}

	c.notify.Notify(Notice{Level: NoticeSuccess, Message: MsgSaved})
	c.latest = &LatestEntry{Mood: entry.Mood, Note: entry.Note}
	c.mood = MoodNone
	c.note = ""
	return nil
}

// Suggestion returns the media link for the latest saved mood.
func (c *Composer) Suggestion() (string, bool) {
	if c.latest == nil {
		return "", false
	}
	link := c.latest.Mood.SuggestionURL()
	return link, link != ""
}
