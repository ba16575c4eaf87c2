package models

import (
	"fmt"
	"time"
)

// Mood is a check-in rating from 1 (worst) to 5 (best).
type Mood int

const (
	MoodVeryBad Mood = iota + 1
	MoodBad
	MoodOkay
	MoodGood
	MoodGreat
)

const (
	MinMood = MoodVeryBad
	MaxMood = MoodGreat
)

var (
	moodEmojis = [...]string{"😫", "😔", "😐", "😊", "😄"}
	moodLabels = [...]string{"Very Bad", "Bad", "Okay", "Good", "Great"}
)

func (m Mood) Valid() bool {
	return m >= MinMood && m <= MaxMood
}

// Emoji returns the display glyph, or "" for an out-of-range mood.
func (m Mood) Emoji() string {
	if !m.Valid() {
		return ""
	}
	return moodEmojis[m-1]
}

func (m Mood) Label() string {
	if !m.Valid() {
		return ""
	}
	return moodLabels[m-1]
}

func (m Mood) String() string {
	if !m.Valid() {
		return fmt.Sprintf("Mood(%d)", int(m))
	}
	return m.Label()
}

// MoodEntry is one check-in. Timestamp is epoch milliseconds.
type MoodEntry struct {
	ID        string `json:"id"`
	Emoji     string `json:"emoji"`
	Mood      Mood   `json:"mood"`
	Note      string `json:"note,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// NewMoodEntry fills Emoji from mood and Timestamp from at.
func NewMoodEntry(id string, mood Mood, note string, at time.Time) MoodEntry {
	return MoodEntry{
		ID:        id,
		Emoji:     mood.Emoji(),
		Mood:      mood,
		Note:      note,
		Timestamp: at.UnixMilli(),
	}
}

func (e MoodEntry) Time() time.Time {
	return time.UnixMilli(e.Timestamp)
}
