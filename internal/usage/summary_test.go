package usage

import (
	"context"
	"testing"
	"time"

	"atelier/internal/models"
)

func TestSummarize(t *testing.T) {
	base := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	records := []models.UsageRecord{
		{Timestamp: base, User: "marie", Language: models.LangFR, Activity: models.ActivityStory, Attempts: 1},
		{Timestamp: base.Add(3 * time.Minute), User: "paul", Language: models.LangEN, Activity: models.ActivityPoem, Attempts: 1},
		{Timestamp: base.Add(1 * time.Minute), User: "marie", Language: models.LangFR, Activity: models.ActivityPoem, Attempts: 2},
		{Timestamp: base.Add(2 * time.Minute), User: "marie", Language: models.LangFR, Activity: models.ActivitySong, Attempts: 3},
	}

	s := Summarize(records, 2)

	if s.Total != 4 || s.Users != 2 {
		t.Errorf("Total/Users = %d/%d, want 4/2", s.Total, s.Users)
	}
	if len(s.ByUser) != 2 || s.ByUser[0] != (models.CountEntry{Key: "marie", Count: 3}) {
		t.Errorf("ByUser = %v", s.ByUser)
	}
	if s.ByLanguage[0] != (models.CountEntry{Key: "FR", Count: 3}) {
		t.Errorf("ByLanguage = %v", s.ByLanguage)
	}
	if s.ByActivity[0] != (models.CountEntry{Key: "poem", Count: 2}) {
		t.Errorf("ByActivity = %v", s.ByActivity)
	}
	// ties are ordered by key
	if s.ByActivity[1].Key != "song" || s.ByActivity[2].Key != "story" {
		t.Errorf("ByActivity tie order = %v", s.ByActivity)
	}

	if len(s.Recent) != 2 {
		t.Fatalf("Recent has %d rows, want 2", len(s.Recent))
	}
	if s.Recent[0].User != "paul" || s.Recent[1].Attempts != 3 {
		t.Errorf("Recent not newest first: %v", s.Recent)
	}
	if records[0].User != "marie" {
		t.Error("Summarize() reordered its input")
	}
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil, DefaultRecent)
	if s.Total != 0 || len(s.ByUser) != 0 || len(s.Recent) != 0 {
		t.Errorf("Summarize(nil) = %+v", s)
	}
}

func TestMaxAttempts(t *testing.T) {
	got := MaxAttempts([]models.UsageRecord{
		{User: "a", Attempts: 1}, {User: "a", Attempts: 3}, {User: "a", Attempts: 2}, {User: "b", Attempts: 1},
	})
	if got["a"] != 3 || got["b"] != 1 || len(got) != 2 {
		t.Errorf("MaxAttempts() = %v", got)
	}
}

func TestMemoryLedger(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLedger(record("marie", 1))
	if err := l.Append(ctx, record("paul", 1)); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if err := l.Append(ctx, record("", 1)); err == nil {
		t.Error("Append() accepted a blank user")
	}
	all, _ := l.All(ctx)
	if len(all) != 2 {
		t.Errorf("All() = %d records, want 2", len(all))
	}
}
