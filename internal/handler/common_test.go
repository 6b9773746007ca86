package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satsun/backend/internal/model"
)

func TestEnumerateDays(t *testing.T) {
	t.Run("friday saturday", func(t *testing.T) {
		days, err := enumerateDays("2025-01-03", "2025-01-04")
		require.NoError(t, err)
		require.Len(t, days, 2)
		assert.Equal(t, "2025-01-03", days[0].Date)
		assert.Equal(t, "Friday", days[0].DayLabel)
		assert.Equal(t, 0, days[0].Order)
		assert.Equal(t, "2025-01-04", days[1].Date)
		assert.Equal(t, "Saturday", days[1].DayLabel)
		assert.Equal(t, 1, days[1].Order)
	})

	t.Run("single day", func(t *testing.T) {
		days, err := enumerateDays("2025-06-01", "2025-06-01")
		require.NoError(t, err)
		require.Len(t, days, 1)
		assert.Equal(t, "Sunday", days[0].DayLabel)
		assert.Equal(t, 0, days[0].Order)
	})

	t.Run("covers range inclusively with increasing order", func(t *testing.T) {
		days, err := enumerateDays("2025-03-28", "2025-04-01")
		require.NoError(t, err)
		require.Len(t, days, 5)
		for i, d := range days {
			assert.Equal(t, i, d.Order)
		}
		assert.Equal(t, "2025-03-28", days[0].Date)
		assert.Equal(t, "2025-04-01", days[4].Date)
	})

	t.Run("end before start yields no days", func(t *testing.T) {
		days, err := enumerateDays("2025-01-04", "2025-01-03")
		require.NoError(t, err)
		assert.Empty(t, days)
	})

	t.Run("bad format", func(t *testing.T) {
		_, err := enumerateDays("03-01-2025", "2025-01-04")
		assert.Error(t, err)
	})
}

func TestValidTimeRange(t *testing.T) {
	s := func(v string) *string { return &v }

	assert.True(t, validTimeRange(nil, nil))
	assert.True(t, validTimeRange(s("10:00"), nil))
	assert.True(t, validTimeRange(nil, s("09:00")))
	assert.True(t, validTimeRange(s("09:00"), s("10:00")))
	assert.True(t, validTimeRange(s("09:00"), s("09:00")))
	assert.False(t, validTimeRange(s("10:00"), s("09:00")))
}

func TestNestInstances(t *testing.T) {
	days := []model.DayInstance{{ID: "d1"}, {ID: "d2"}}
	instances := []model.ActivityInstance{
		{ID: "a1", DayID: "d1", Order: 0},
		{ID: "a2", DayID: "d1", Order: 3},
		{ID: "a3", DayID: "d2", Order: 1},
	}
	nested := nestInstances(days, instances)
	require.Len(t, nested, 2)
	require.Len(t, nested[0].Activities, 2)
	assert.Equal(t, "a1", nested[0].Activities[0].ID)
	assert.Equal(t, "a2", nested[0].Activities[1].ID)
	require.Len(t, nested[1].Activities, 1)

	// A day without instances gets an empty slice, not nil, so the JSON
	// projection renders [] instead of null.
	nested = nestInstances(days, nil)
	require.Len(t, nested, 2)
	assert.NotNil(t, nested[0].Activities)
	assert.Empty(t, nested[0].Activities)
}

func TestIsMood(t *testing.T) {
	for _, m := range Moods {
		assert.True(t, IsMood(m))
	}
	assert.False(t, IsMood("melancholic"))
	assert.False(t, IsMood(""))
	assert.Len(t, Moods, 7)
}
