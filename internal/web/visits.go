package web

import (
	"os"
	"path"
	"path/filepath"
	"sync"
	"time"

	"github.com/mood-space/core/internal/journal"
	"go.uber.org/zap"
)

const defaultVisitIdle = 12 * time.Hour

// visit is the dashboard state of one signed-in browser session. It lives in
// memory only and is gone after a restart or logout.
type visit struct {
	mu       sync.Mutex
	composer *journal.Composer
	notices  []journal.Notice
	cue      string
	seen     time.Time
}

// Notify queues a notice for the next render.
func (v *visit) Notify(n journal.Notice) { v.notices = append(v.notices, n) }

// takeFlash returns and clears the pending notices and sound cue.
func (v *visit) takeFlash() ([]journal.Notice, string) {
	notices, cue := v.notices, v.cue
	v.notices, v.cue = nil, ""
	return notices, cue
}

// cuePlayer records the sound to play on the next render. Sounds missing from
// disk are reported as errors, which the composer discards.
type cuePlayer struct {
	v   *visit
	dir string
}

func (p cuePlayer) Play(soundPath string) error {
	if p.dir != "" {
		name := filepath.Join(p.dir, filepath.FromSlash(path.Base(soundPath)))
		if _, err := os.Stat(name); err != nil {
			return err
		}
	}
	p.v.cue = soundPath
	return nil
}

type visitRegistry struct {
	mu     sync.Mutex
	visits map[string]*visit
	idle   time.Duration
	now    func() time.Time

	store     journal.EntryStore
	soundsDir string
	log       *zap.Logger
}

func newVisitRegistry(store journal.EntryStore, soundsDir string, log *zap.Logger) *visitRegistry {
	return &visitRegistry{
		visits:    make(map[string]*visit),
		idle:      defaultVisitIdle,
		now:       time.Now,
		store:     store,
		soundsDir: soundsDir,
		log:       log,
	}
}

// get returns the visit for a session, creating it for owner on first use.
// A session whose owner changed starts over.
func (r *visitRegistry) get(sessionID, owner string) *visit {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.sweepLocked(now)
	v, ok := r.visits[sessionID]
	if !ok || v.composer.Owner() != owner {
		v = &visit{}
		v.composer = journal.NewComposer(r.store, owner, journal.ComposerOptions{
			Player:   cuePlayer{v: v, dir: r.soundsDir},
			Notifier: v,
			Logger:   r.log,
		})
		r.visits[sessionID] = v
	}
	v.seen = now
	return v
}

func (r *visitRegistry) evict(sessionID string) {
	r.mu.Lock()
	delete(r.visits, sessionID)
	r.mu.Unlock()
}

func (r *visitRegistry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.visits)
}

// sweep drops idle visits and reports how many went.
func (r *visitRegistry) sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sweepLocked(r.now())
}

func (r *visitRegistry) sweepLocked(now time.Time) int {
	n := 0
	for id, v := range r.visits {
		if now.Sub(v.seen) > r.idle {
			delete(r.visits, id)
			n++
		}
	}
	return n
}
