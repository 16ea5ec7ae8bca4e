package schedule

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listora/postqueue/recurrence"
)

func TestUpcoming(t *testing.T) {
	now := time.Date(2026, 2, 11, 8, 0, 0, 0, time.UTC)

	daily := Post{
		ID:        uuid.New(),
		Caption:   "New listing teaser",
		PublishAt: time.Date(2026, 2, 11, 9, 0, 0, 0, time.UTC),
		Recurrence: mo.Some(recurrence.Rule{
			Enabled: true,
			Cadence: recurrence.CadenceDaily,
		}),
	}
	oneShot := Post{
		ID:        uuid.New(),
		Caption:   "Price drop announcement",
		PublishAt: time.Date(2026, 2, 12, 12, 0, 0, 0, time.UTC),
	}
	past := Post{
		ID:        uuid.New(),
		Caption:   "Already published",
		PublishAt: time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC),
	}

	feed, err := Upcoming([]Post{daily, oneShot, past}, now, 72*time.Hour, recurrence.DefaultPreviewLimit)
	require.NoError(t, err)

	// Three daily occurrences plus the one-shot fall inside the window; the
	// already-published post does not.
	require.Len(t, feed, 4)
	assert.Equal(t, daily.ID, feed[0].PostID)
	assert.Equal(t, daily.PublishAt, feed[0].At)
	assert.Equal(t, oneShot.ID, feed[2].PostID)

	for i := 1; i < len(feed); i++ {
		assert.False(t, feed[i].At.Before(feed[i-1].At), "feed must be chronological")
	}
}

func TestUpcoming_WindowExcludesNowItself(t *testing.T) {
	at := time.Date(2026, 2, 11, 9, 0, 0, 0, time.UTC)
	post := Post{ID: uuid.New(), PublishAt: at}

	feed, err := Upcoming([]Post{post}, at, 24*time.Hour, 5)
	require.NoError(t, err)
	assert.Empty(t, feed, "an occurrence exactly at now is no longer upcoming")
}

func TestUpcoming_InvalidLimit(t *testing.T) {
	post := Post{ID: uuid.New(), PublishAt: time.Date(2026, 2, 11, 9, 0, 0, 0, time.UTC)}

	_, err := Upcoming([]Post{post}, time.Now(), 24*time.Hour, 0)
	assert.ErrorIs(t, err, recurrence.ErrInvalidLimit)
}

func TestActiveDays(t *testing.T) {
	weekly := Post{
		ID:        uuid.New(),
		PublishAt: time.Date(2026, 2, 11, 9, 0, 0, 0, time.UTC), // Wednesday
		Recurrence: mo.Some(recurrence.Rule{
			Enabled: true,
			Cadence: recurrence.CadenceWeekly,
		}),
	}
	oneShot := Post{
		ID:        uuid.New(),
		PublishAt: time.Date(2026, 3, 20, 18, 0, 0, 0, time.UTC),
	}

	days, err := ActiveDays([]Post{weekly, oneShot}, 2026, time.March, time.UTC)
	require.NoError(t, err)

	// Wednesdays in March 2026 plus the one-shot on the 20th.
	assert.Equal(t, map[int]bool{4: true, 11: true, 18: true, 20: true, 25: true}, days)
}

func TestActiveDays_EmptyMonth(t *testing.T) {
	post := Post{
		ID:        uuid.New(),
		PublishAt: time.Date(2026, 2, 11, 9, 0, 0, 0, time.UTC),
	}

	days, err := ActiveDays([]Post{post}, 2026, time.June, nil)
	require.NoError(t, err)
	assert.Empty(t, days)
}
