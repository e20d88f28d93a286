package common

import (
	"testing"
	"time"
)

type session struct {
	name string
	at   time.Time
}

func TestSortByTimeRelativeToNow(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	day := 24 * time.Hour

	items := []session{
		{"past-far", now.Add(-10 * day)},
		{"future-far", now.Add(10 * day)},
		{"now", now},
		{"past-near", now.Add(-1 * day)},
		{"future-near", now.Add(1 * day)},
	}

	SortByTimeRelativeToNow(items, now, func(s session) time.Time { return s.at })

	want := []string{"now", "future-near", "future-far", "past-near", "past-far"}
	for i, name := range want {
		if items[i].name != name {
			t.Errorf("Position %d: expected %s, got %s", i, name, items[i].name)
		}
	}
}

func TestSortByTimeRelativeToNow_StableForTies(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	at := now.Add(time.Hour)

	items := []session{{"a", at}, {"b", at}, {"c", at}}
	SortByTimeRelativeToNow(items, now, func(s session) time.Time { return s.at })

	for i, name := range []string{"a", "b", "c"} {
		if items[i].name != name {
			t.Errorf("Position %d: expected %s, got %s", i, name, items[i].name)
		}
	}
}
