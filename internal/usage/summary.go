package usage

import (
	"cmp"
	"slices"

	"atelier/internal/models"
)

// DefaultRecent is how many rows the admin view lists.
const DefaultRecent = 20

// Summarize counts generations per user, language and activity and keeps the
// recentN newest records, newest first.
func Summarize(records []models.UsageRecord, recentN int) models.UsageSummary {
	byUser := map[string]int{}
	byLang := map[string]int{}
	byActivity := map[string]int{}
	for _, rec := range records {
		byUser[rec.User]++
		byLang[string(rec.Language)]++
		byActivity[string(rec.Activity)]++
	}

	recent := slices.Clone(records)
	slices.SortStableFunc(recent, func(a, b models.UsageRecord) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
	if recentN >= 0 && len(recent) > recentN {
		recent = recent[:recentN]
	}

	return models.UsageSummary{
		Total:      len(records),
		Users:      len(byUser),
		ByUser:     sortedCounts(byUser),
		ByLanguage: sortedCounts(byLang),
		ByActivity: sortedCounts(byActivity),
		Recent:     recent,
	}
}

// sortedCounts orders entries by count, highest first, then by key.
func sortedCounts(m map[string]int) []models.CountEntry {
	out := make([]models.CountEntry, 0, len(m))
	for k, n := range m {
		out = append(out, models.CountEntry{Key: k, Count: n})
	}
	slices.SortFunc(out, func(a, b models.CountEntry) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Key, b.Key)
	})
	return out
}

// MaxAttempts returns the highest attempt count recorded per user.
func MaxAttempts(records []models.UsageRecord) map[string]int {
	out := make(map[string]int)
	for _, rec := range records {
		if rec.Attempts > out[rec.User] {
			out[rec.User] = rec.Attempts
		}
	}
	return out
}
