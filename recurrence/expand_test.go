package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func utc(year int, month time.Month, day, hour int) time.Time {
	return time.Date(year, month, day, hour, 0, 0, 0, time.UTC)
}

func TestExpand_DisabledRule(t *testing.T) {
	anchor := utc(2026, time.February, 11, 15)

	occurrences, err := Expand(anchor, Rule{}, DefaultPreviewLimit)
	require.NoError(t, err)
	assert.Equal(t, []time.Time{anchor}, occurrences)
}

func TestExpand_WeeklyUntilEndDate(t *testing.T) {
	// Wednesday anchor, weekly, bounded by a bare end date that is itself a
	// Wednesday: the final occurrence lands on the end date.
	anchor := utc(2026, time.February, 11, 9)
	rule := Rule{
		Enabled: true,
		Cadence: CadenceWeekly,
		End: EndPolicy{
			OnDate: true,
			Until:  time.Date(2026, 4, 8, 23, 59, 59, 999999999, time.UTC),
		},
	}

	occurrences, err := Expand(anchor, rule, 100)
	require.NoError(t, err)
	require.Len(t, occurrences, 9)
	assert.Equal(t, anchor, occurrences[0])
	assert.Equal(t, utc(2026, time.February, 18, 9), occurrences[1])
	assert.Equal(t, utc(2026, time.April, 8, 9), occurrences[8])
}

func TestExpand_WeekdaySkipsWeekends(t *testing.T) {
	// Friday anchor: Saturday and Sunday are skipped entirely.
	anchor := utc(2026, time.February, 13, 9)
	rule := Rule{Enabled: true, Cadence: CadenceWeekday}

	occurrences, err := Expand(anchor, rule, 5)
	require.NoError(t, err)
	assert.Equal(t, []time.Time{
		anchor,
		utc(2026, time.February, 16, 9),
		utc(2026, time.February, 17, 9),
		utc(2026, time.February, 18, 9),
		utc(2026, time.February, 19, 9),
	}, occurrences)

	for _, occurrence := range occurrences {
		assert.False(t, isWeekend(occurrence), "weekday occurrence on %s", occurrence.Weekday())
	}
}

func TestExpand_WeekendOnly(t *testing.T) {
	// Wednesday anchor: the anchor itself is exempt from filtering, every
	// later occurrence must land on Saturday or Sunday.
	anchor := utc(2026, time.February, 11, 9)
	rule := Rule{Enabled: true, Cadence: CadenceWeekend}

	occurrences, err := Expand(anchor, rule, 5)
	require.NoError(t, err)
	require.Len(t, occurrences, 5)
	assert.Equal(t, anchor, occurrences[0])
	for _, occurrence := range occurrences[1:] {
		assert.True(t, isWeekend(occurrence), "weekend occurrence on %s", occurrence.Weekday())
	}
	assert.Equal(t, utc(2026, time.February, 14, 9), occurrences[1]) // Saturday
	assert.Equal(t, utc(2026, time.February, 15, 9), occurrences[2]) // Sunday
	assert.Equal(t, utc(2026, time.February, 21, 9), occurrences[3]) // next Saturday
}

func TestExpand_CustomEveryTwoMonths(t *testing.T) {
	anchor := utc(2026, time.January, 1, 0)
	rule := Rule{
		Enabled: true,
		Cadence: CadenceCustom,
		Custom:  CustomCadence{Unit: UnitMonthly, Interval: 2},
	}

	occurrences, err := Expand(anchor, rule, 6)
	require.NoError(t, err)
	assert.Equal(t, []time.Time{
		anchor,
		utc(2026, time.March, 1, 0),
		utc(2026, time.May, 1, 0),
		utc(2026, time.July, 1, 0),
		utc(2026, time.September, 1, 0),
		utc(2026, time.November, 1, 0),
	}, occurrences)

	// With room to spare, the implicit one-year boundary is itself a valid
	// occurrence: 2027-01-01 sits exactly on anchor+1y and is included.
	occurrences, err = Expand(anchor, rule, 12)
	require.NoError(t, err)
	require.Len(t, occurrences, 7)
	assert.Equal(t, utc(2027, time.January, 1, 0), occurrences[6])
}

func TestExpand_OneYearHorizonForNever(t *testing.T) {
	anchor := utc(2026, time.February, 11, 9)
	rule := Rule{Enabled: true, Cadence: CadenceWeekly}

	occurrences, err := Expand(anchor, rule, 1000)
	require.NoError(t, err)

	horizon := anchor.AddDate(1, 0, 0)
	for _, occurrence := range occurrences {
		assert.False(t, occurrence.After(horizon))
	}
	// 52 weekly steps fit inside one year; the 53rd would overshoot.
	assert.Len(t, occurrences, 53)
}

func TestExpand_StepCapBoundsGenerousLimits(t *testing.T) {
	// A year of hourly occurrences (~8760) exceeds the internal step cap,
	// and the caller's limit is far beyond both: the cap must be what stops
	// the loop, at anchor plus exactly maxSteps advancements.
	anchor := utc(2026, time.February, 11, 9)
	rule := Rule{Enabled: true, Cadence: CadenceHourly}

	occurrences, err := Expand(anchor, rule, 5000)
	require.NoError(t, err)
	require.Len(t, occurrences, maxSteps+1)
	assert.Equal(t, anchor.Add(maxSteps*time.Hour), occurrences[len(occurrences)-1])
}

func TestExpand_NonPositiveIntervalBehavesAsDaily(t *testing.T) {
	anchor := utc(2026, time.February, 11, 9)
	rule := Rule{
		Enabled: true,
		Cadence: CadenceCustom,
		Custom:  CustomCadence{Unit: UnitDaily, Interval: -5},
	}

	occurrences, err := Expand(anchor, rule, 3)
	require.NoError(t, err)
	assert.Equal(t, []time.Time{
		anchor,
		utc(2026, time.February, 12, 9),
		utc(2026, time.February, 13, 9),
	}, occurrences)
}

func TestExpand_InvalidLimit(t *testing.T) {
	anchor := utc(2026, time.February, 11, 9)

	_, err := Expand(anchor, Rule{Enabled: true, Cadence: CadenceDaily}, 0)
	assert.ErrorIs(t, err, ErrInvalidLimit)

	_, err = Expand(anchor, Rule{}, -3)
	assert.ErrorIs(t, err, ErrInvalidLimit)
}

func TestExpand_AdversarialRulesTerminate(t *testing.T) {
	anchor := utc(2026, time.February, 11, 9)

	tests := []struct {
		name string
		rule Rule
	}{
		{
			name: "Enabled without cadence",
			rule: Rule{Enabled: true},
		},
		{
			name: "Custom without frequency unit",
			rule: Rule{Enabled: true, Cadence: CadenceCustom, Custom: CustomCadence{Interval: 3}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			type result struct {
				occurrences []time.Time
				err         error
			}
			done := make(chan result, 1)
			go func() {
				occurrences, err := Expand(anchor, tt.rule, 100)
				done <- result{occurrences, err}
			}()

			select {
			case r := <-done:
				require.NoError(t, r.err)
				// No advancement is defined, so only the anchor comes back.
				assert.Equal(t, []time.Time{anchor}, r.occurrences)
			case <-time.After(5 * time.Second):
				t.Fatal("expansion did not terminate")
			}
		})
	}
}

func TestExpand_Properties(t *testing.T) {
	anchor := utc(2026, time.February, 11, 9)

	rules := []Rule{
		{},
		{Enabled: true, Cadence: CadenceHourly},
		{Enabled: true, Cadence: CadenceDaily},
		{Enabled: true, Cadence: CadenceWeekday},
		{Enabled: true, Cadence: CadenceWeekend},
		{Enabled: true, Cadence: CadenceWeekly},
		{Enabled: true, Cadence: CadenceCustom, Custom: CustomCadence{Unit: UnitYearly, Interval: 1}},
		{Enabled: true, Cadence: CadenceWeekly, End: EndPolicy{OnDate: true, Until: utc(2026, time.March, 1, 0)}},
	}

	for _, rule := range rules {
		for _, limit := range []int{1, 2, DefaultPreviewLimit, DefaultCalendarLimit} {
			occurrences, err := Expand(anchor, rule, limit)
			require.NoError(t, err)

			// Anchor first, length bounded by the limit.
			require.NotEmpty(t, occurrences)
			assert.Equal(t, anchor, occurrences[0])
			assert.LessOrEqual(t, len(occurrences), limit)

			// Strictly increasing.
			for i := 1; i < len(occurrences); i++ {
				assert.True(t, occurrences[i].After(occurrences[i-1]))
			}

			// Boundary respected.
			boundary := rule.End.boundary(anchor)
			for _, occurrence := range occurrences {
				assert.False(t, occurrence.After(boundary))
			}

			// Pure: a second call yields the identical list.
			again, err := Expand(anchor, rule, limit)
			require.NoError(t, err)
			assert.Equal(t, occurrences, again)
		}
	}
}

func TestExpand_HourlyCrossesDays(t *testing.T) {
	anchor := utc(2026, time.February, 11, 22)
	rule := Rule{Enabled: true, Cadence: CadenceHourly}

	occurrences, err := Expand(anchor, rule, 4)
	require.NoError(t, err)
	assert.Equal(t, []time.Time{
		anchor,
		utc(2026, time.February, 11, 23),
		utc(2026, time.February, 12, 0),
		utc(2026, time.February, 12, 1),
	}, occurrences)
}
