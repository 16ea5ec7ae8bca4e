package schedule

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/listora/postqueue/recurrence"
)

// Occurrence pairs a post with one concrete publish instant. Occurrences are
// values recomputed on demand; they carry no identity beyond (post, instant).
type Occurrence struct {
	PostID uuid.UUID
	At     time.Time
}

// Upcoming flattens the occurrences of all posts falling in (now, now+window]
// into one chronologically sorted feed, for the dashboard's "next 7 days"
// style summaries. perPost bounds expansion per item; now is injected so the
// feed is deterministic under test.
func Upcoming(posts []Post, now time.Time, window time.Duration, perPost int) ([]Occurrence, error) {
	horizon := now.Add(window)

	var feed []Occurrence
	for _, post := range posts {
		instants, err := post.Occurrences(perPost)
		if err != nil {
			return nil, fmt.Errorf("expand post %s: %w", post.ID, err)
		}
		for _, at := range instants {
			if at.After(now) && !at.After(horizon) {
				feed = append(feed, Occurrence{PostID: post.ID, At: at})
			}
		}
	}

	sort.Slice(feed, func(i, j int) bool {
		if feed[i].At.Equal(feed[j].At) {
			return feed[i].PostID.String() < feed[j].PostID.String()
		}
		return feed[i].At.Before(feed[j].At)
	})
	return feed, nil
}

// ActiveDays reports which days of a month carry at least one occurrence, so
// the calendar grid knows which cells to light up. Keys are day-of-month in
// the given location (UTC when nil).
func ActiveDays(posts []Post, year int, month time.Month, loc *time.Location) (map[int]bool, error) {
	if loc == nil {
		loc = time.UTC
	}
	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	monthEnd := monthStart.AddDate(0, 1, 0).Add(-time.Nanosecond)

	days := make(map[int]bool)
	for _, post := range posts {
		instants, err := post.Occurrences(recurrence.DefaultCalendarLimit)
		if err != nil {
			return nil, fmt.Errorf("expand post %s: %w", post.ID, err)
		}
		for _, at := range instants {
			if at.Before(monthStart) || at.After(monthEnd) {
				continue
			}
			days[at.In(loc).Day()] = true
		}
	}
	return days, nil
}
