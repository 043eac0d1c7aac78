package journal

import (
	"fmt"
	"strings"
)

// Mood is one of the fixed mood symbols a user can pick on the dashboard.
type Mood int

const (
	MoodNone Mood = iota
	MoodHappy
	MoodCalm
	MoodNeutral
	MoodSad
	MoodCrying
	MoodAngry
	MoodMischievous
	MoodLoving
	MoodSurprised
	MoodTired
	MoodSick

	moodCount
)

type moodInfo struct {
	symbol     string
	name       string
	sound      string
	suggestion string
}

// moodTable is indexed by Mood. Every variant except MoodNone must be filled in.
var moodTable = [moodCount]moodInfo{
	MoodHappy:       {"😄", "happy", "/sounds/happy.mp3", "https://www.youtube.com/results?search_query=stay+happy+motivational"},
	MoodCalm:        {"🙂", "calm", "/sounds/calm.mp3", "https://www.youtube.com/results?search_query=relaxing+videos"},
	MoodNeutral:     {"😐", "neutral", "/sounds/neutral.mp3", "https://www.youtube.com/results?search_query=neutral+mood+uplift"},
	MoodSad:         {"😔", "sad", "/sounds/sad.mp3", "https://www.youtube.com/results?search_query=cheer+up+videos"},
	MoodCrying:      {"😢", "crying", "/sounds/crying.mp3", "https://www.youtube.com/results?search_query=feel+better+videos"},
	MoodAngry:       {"😡", "angry", "/sounds/angry.mp3", "https://www.youtube.com/results?search_query=stay+calm+when+angry"},
	MoodMischievous: {"😈", "mischievous", "/sounds/devilish.mp3", "https://www.youtube.com/results?search_query=control+evil+thoughts"},
	MoodLoving:      {"🥰", "loving", "/sounds/loving.mp3", "https://www.youtube.com/results?search_query=falling+in+love+moments"},
	MoodSurprised:   {"😲", "surprised", "/sounds/surprised.mp3", "https://www.youtube.com/results?search_query=surprising+stories"},
	MoodTired:       {"😴", "tired", "/sounds/tired.mp3", "https://www.youtube.com/results?search_query=relax+and+sleep+sounds"},
	MoodSick:        {"🤒", "sick", "/sounds/sick.mp3", "https://www.youtube.com/results?search_query=feel+better+soon+videos"},
}

var moodAliases = map[string]Mood{
	"devilish": MoodMischievous,
}

func init() {
	if err := validateTables(); err != nil {
		panic(err)
	}
}

func validateTables() error {
	seen := make(map[string]Mood, moodCount)
	for m := MoodNone + 1; m < moodCount; m++ {
		info := moodTable[m]
		if info.symbol == "" || info.name == "" || info.sound == "" || info.suggestion == "" {
			return fmt.Errorf("journal: mood %d has an incomplete table entry", int(m))
		}
		for _, key := range []string{info.symbol, info.name} {
			if prev, ok := seen[key]; ok {
				return fmt.Errorf("journal: mood key %q shared by %d and %d", key, int(prev), int(m))
			}
			seen[key] = m
		}
	}
	return nil
}

// Moods returns every selectable mood in display order.
func Moods() []Mood {
	out := make([]Mood, 0, moodCount-1)
	for m := MoodNone + 1; m < moodCount; m++ {
		out = append(out, m)
	}
	return out
}

// ParseMood accepts either the emoji symbol or the lower-case mood name.
func ParseMood(s string) (Mood, error) {
	key := strings.TrimSpace(s)
	if key == "" {
		return MoodNone, fmt.Errorf("%w: empty mood", ErrUnknownMood)
	}
	lower := strings.ToLower(key)
	for m := MoodNone + 1; m < moodCount; m++ {
		if moodTable[m].symbol == key || moodTable[m].name == lower {
			return m, nil
		}
	}
	if m, ok := moodAliases[lower]; ok {
		return m, nil
	}
	return MoodNone, fmt.Errorf("%w: %q", ErrUnknownMood, s)
}

// Valid reports whether m is a real selection.
func (m Mood) Valid() bool { return m > MoodNone && m < moodCount }

// Symbol returns the emoji stored with an entry.
func (m Mood) Symbol() string {
	if !m.Valid() {
		return ""
	}
	return moodTable[m].symbol
}

// Name returns the lower-case mood name.
func (m Mood) Name() string {
	if !m.Valid() {
		return ""
	}
	return moodTable[m].name
}

// SoundPath is the local audio resource played when the mood is picked.
func (m Mood) SoundPath() string {
	if !m.Valid() {
		return ""
	}
	return moodTable[m].sound
}

// SuggestionURL is the outbound media link offered after saving this mood.
func (m Mood) SuggestionURL() string {
	if !m.Valid() {
		return ""
	}
	return moodTable[m].suggestion
}

func (m Mood) String() string {
	if !m.Valid() {
		return "none"
	}
	return moodTable[m].name
}
