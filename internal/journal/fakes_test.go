package journal

import (
	"context"
	"errors"
)

type fakeProvider struct {
	session       *Session
	getErr        error
	exchanged     *Session
	exchangeErr   error
	linkErr       error
	signOutErr    error
	getCalls      int
	exchangeCalls int
	linkEmails    []string
	signOutCalls  int
}

func (f *fakeProvider) GetSession(context.Context) (*Session, error) {
	f.getCalls++
	return f.session, f.getErr
}

func (f *fakeProvider) ExchangeSession(_ context.Context, _, _ string) (*Session, error) {
	f.exchangeCalls++
	return f.exchanged, f.exchangeErr
}

func (f *fakeProvider) RequestMagicLink(_ context.Context, email string) error {
	f.linkEmails = append(f.linkEmails, email)
	return f.linkErr
}

func (f *fakeProvider) SignOut(context.Context) error {
	f.signOutCalls++
	return f.signOutErr
}

type fakeStore struct {
	entries []Entry
	err     error
}

func (s *fakeStore) InsertMoodEntry(_ context.Context, e Entry) error {
	if s.err != nil {
		return s.err
	}
	s.entries = append(s.entries, e)
	return nil
}

type recordingNotifier struct {
	notices []Notice
}

func (r *recordingNotifier) Notify(n Notice) { r.notices = append(r.notices, n) }

func (r *recordingNotifier) last() Notice {
	if len(r.notices) == 0 {
		return Notice{}
	}
	return r.notices[len(r.notices)-1]
}

type fakePlayer struct {
	played []string
	err    error
	panic  bool
}

func (p *fakePlayer) Play(path string) error {
	p.played = append(p.played, path)
	if p.panic {
		panic("audio device gone")
	}
	return p.err
}

var errBoom = errors.New("boom")
