package testutil

import (
	"testing"

	"github.com/hupe1980/datefilter/internal/timestamp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestamps(t *testing.T) {
	rng := NewRNG(4711)

	ts := rng.Timestamps(500, 1999, 2001)

	assert.Len(t, ts, 500)
	for _, v := range ts {
		assert.GreaterOrEqual(t, v.Year, 1999)
		assert.LessOrEqual(t, v.Year, 2001)

		parsed, err := timestamp.Parse(v.String())
		require.NoError(t, err, v.String())
		assert.Equal(t, v, parsed)
	}
}

func TestLines(t *testing.T) {
	rng := NewRNG(4711)
	ts := rng.Timestamps(200, 1990, 2030)

	lines := rng.Lines(ts, LineOptions{DuplicateRate: 0.3, GarbageRate: 0.1, OffsetRate: 0.5})
	assert.Greater(t, len(lines), len(ts))

	unique := ExactUnique(lines)
	assert.Len(t, unique, len(ExactUnique(rng.Lines(ts, LineOptions{}))))
}

func TestWithOffset(t *testing.T) {
	ts := timestamp.Timestamp{Year: 2024, Month: 1, Day: 1, Hour: 0, Minute: 15}

	line := withOffset(ts, -90)
	assert.Equal(t, "2023-12-31T22:45:00-01:30", line)

	parsed, err := timestamp.Parse(line)
	require.NoError(t, err)
	assert.True(t, parsed.Adjusted)
	parsed.Adjusted = false
	assert.Equal(t, ts, parsed)
}

func TestExactUnique(t *testing.T) {
	lines := []string{
		"2024-01-01T00:00:00Z",
		"garbage",
		"2024-01-01T01:00:00+01:00",
		"2024-01-01T00:00:01Z",
		"2024-01-01T00:00:00Z",
	}

	assert.Equal(t, []string{"2024-01-01T00:00:00Z", "2024-01-01T00:00:01Z"}, ExactUnique(lines))
}

func TestReset(t *testing.T) {
	rng := NewRNG(4711)
	v1 := rng.Timestamps(3, 2000, 2100)

	rng.Reset()
	v2 := rng.Timestamps(3, 2000, 2100)

	assert.Equal(t, v1, v2)
	assert.Equal(t, int64(4711), rng.Seed())
}
