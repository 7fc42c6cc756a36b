package domain

import (
	"sort"
	"time"
)

// ElapsedDays returns the number of unlock days since the character was
// created, counting the creation day itself as day 1. Dates are compared as
// UTC calendar dates, so the boundary moves at midnight UTC regardless of the
// server's local zone.
func ElapsedDays(createdAt, today time.Time) int {
	start := utcDate(createdAt)
	end := utcDate(today)
	return int(end.Sub(start).Hours()/24) + 1
}

// utcDate truncates a timestamp to its UTC calendar date
func utcDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AvailableQuestions returns the catalog entries unlocked for the character as
// of today, ascending by day number. Pure function of the character's creation
// date, the catalog and the clock; no side effects.
func AvailableQuestions(character *Character, catalog []Question, today time.Time) []Question {
	// No character means nothing is unlocked
	if character == nil {
		return nil
	}
	elapsed := ElapsedDays(character.CreatedAt, today)
	available := make([]Question, 0, len(catalog))
	for _, q := range catalog {
		if q.DayNumber <= elapsed {
			available = append(available, q)
		}
	}
	// Keep the unlock order stable even if the catalog arrives unsorted
	sort.Slice(available, func(i, j int) bool {
		return available[i].DayNumber < available[j].DayNumber
	})
	return available
}
