package models

import (
	"fmt"
	"strings"
)

// Activity is one of the content categories a teacher can ask for.
type Activity string

// Activity codes
const (
	ActivityStory Activity = "story"
	ActivitySkit  Activity = "skit"
	ActivityPoem  Activity = "poem"
	ActivitySong  Activity = "song"
	ActivityFree  Activity = "free"
)

// Activities lists every activity in display order.
var Activities = []Activity{ActivityStory, ActivitySkit, ActivityPoem, ActivitySong, ActivityFree}

var activityLabels = map[Language]map[Activity]string{
	LangFR: {
		ActivityStory: "📚 Histoire",
		ActivitySkit:  "🎭 Saynette",
		ActivityPoem:  "✒️ Poème",
		ActivitySong:  "🎵 Chanson",
		ActivityFree:  "✨ Libre",
	},
	LangEN: {
		ActivityStory: "📚 Story",
		ActivitySkit:  "🎭 Skit",
		ActivityPoem:  "✒️ Poem",
		ActivitySong:  "🎵 Song",
		ActivityFree:  "✨ Free",
	},
}

// Label returns the display label of the activity in the given language.
// Languages without their own labels use the French ones.
func (a Activity) Label(lang Language) string {
	if labels, ok := activityLabels[lang]; ok {
		if l, ok := labels[a]; ok {
			return l
		}
	}
	return activityLabels[LangFR][a]
}

// Valid reports whether a is a known activity code.
func (a Activity) Valid() bool {
	for _, known := range Activities {
		if a == known {
			return true
		}
	}
	return false
}

// ParseActivity accepts an activity code ("poem") or any of its labels
// ("✒️ Poème", "Poème").
func ParseActivity(s string) (Activity, error) {
	s = strings.TrimSpace(s)
	if a := Activity(strings.ToLower(s)); a.Valid() {
		return a, nil
	}
	for _, labels := range activityLabels {
		for a, label := range labels {
			if strings.EqualFold(s, label) || strings.EqualFold(s, stripEmoji(label)) {
				return a, nil
			}
		}
	}
	return "", fmt.Errorf("unknown activity %q", s)
}

// stripEmoji drops the leading pictogram of a label ("📚 Histoire" -> "Histoire").
func stripEmoji(label string) string {
	if i := strings.IndexByte(label, ' '); i >= 0 {
		return label[i+1:]
	}
	return label
}
