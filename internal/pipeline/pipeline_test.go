package pipeline

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/hupe1980/datefilter"
	"github.com/hupe1980/datefilter/internal/timestamp"
	"github.com/hupe1980/datefilter/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seenSet is a map-backed Inserter used as a reference.
type seenSet struct {
	seen map[timestamp.Timestamp]bool
	fail error
}

func newSeenSet() *seenSet {
	return &seenSet{seen: make(map[timestamp.Timestamp]bool)}
}

func (s *seenSet) InsertTimestamp(ts timestamp.Timestamp) (bool, error) {
	if s.fail != nil {
		return false, s.fail
	}
	ts.Adjusted = false
	was := s.seen[ts]
	s.seen[ts] = true
	return was, nil
}

func TestRun(t *testing.T) {
	input := strings.Join([]string{
		"2024-01-01T00:00:00Z",
		"2024-01-01T00:00:00Z",
		"2024-01-01T01:00:00+01:00",
		"not a timestamp",
		"2024-02-30T00:00:00Z",
		"2025-01-01T00:00:00Z\r",
		"",
		"2023-12-31T19:00:00-05:00",
	}, "\n")

	var out bytes.Buffer
	sum, err := Run(context.Background(), newSeenSet(), strings.NewReader(input), &out, WithName("events.txt"))
	require.NoError(t, err)

	assert.Equal(t, "2024-01-01T00:00:00Z\n2025-01-01T00:00:00Z\n", out.String())
	assert.Equal(t, "events.txt", sum.Name)
	assert.Equal(t, 8, sum.Lines)
	assert.Equal(t, 3, sum.ParseFailures)
	assert.Equal(t, 5, sum.Parsed)
	assert.Equal(t, 2, sum.Written)
	assert.Equal(t, 3, sum.Duplicates)
	assert.Equal(t, sum.Lines, sum.ParseFailures+sum.Written+sum.Duplicates)
	assert.Contains(t, sum.String(), "8 lines of input => 3 failed parse, 5 ts parsed => 2 written to file, 3 discarded")
}

func TestRun_RandomInput(t *testing.T) {
	rng := testutil.NewRNG(4711)
	lines := rng.Lines(rng.Timestamps(2000, 1990, 2030), testutil.LineOptions{
		DuplicateRate: 0.3,
		GarbageRate:   0.05,
		OffsetRate:    0.2,
	})
	want := testutil.ExactUnique(lines)

	f, err := datefilter.New()
	require.NoError(t, err)
	defer f.Teardown()

	var out bytes.Buffer
	sum, err := Run(context.Background(), f, strings.NewReader(strings.Join(lines, "\n")), &out)
	require.NoError(t, err)

	assert.Equal(t, strings.Join(want, "\n")+"\n", out.String())
	assert.Equal(t, len(want), sum.Written)
	assert.Equal(t, len(lines), sum.Lines)
	assert.Equal(t, uint64(len(want)), f.Stats().SetBits)
}

func TestRun_KeepsOriginalLine(t *testing.T) {
	var out bytes.Buffer
	_, err := Run(context.Background(), newSeenSet(), strings.NewReader("2024-06-01T12:00:00+02:00\n2024-06-01T10:00:00Z\n"), &out)
	require.NoError(t, err)
	assert.Equal(t, "2024-06-01T12:00:00+02:00\n", out.String())
}

func TestRun_Empty(t *testing.T) {
	var out bytes.Buffer
	sum, err := Run(context.Background(), newSeenSet(), strings.NewReader(""), &out)
	require.NoError(t, err)
	assert.Zero(t, sum.Lines)
	assert.Empty(t, out.String())
}

func TestRun_InserterError(t *testing.T) {
	boom := errors.New("out of memory")
	s := newSeenSet()
	s.fail = boom

	var out bytes.Buffer
	sum, err := Run(context.Background(), s, strings.NewReader("x\n2024-01-01T00:00:00Z\n"), &out)
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "line 2")
	assert.Equal(t, 2, sum.Lines)
	assert.Equal(t, 1, sum.ParseFailures)
}

func TestRun_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	_, err := Run(ctx, newSeenSet(), strings.NewReader("2024-01-01T00:00:00Z\n"), &out)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_LineTooLong(t *testing.T) {
	var out bytes.Buffer
	_, err := Run(context.Background(), newSeenSet(), strings.NewReader(strings.Repeat("x", MaxLineBytes+1)), &out)
	assert.Error(t, err)
}

func TestRun_DebugLogging(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	var out bytes.Buffer
	_, err := Run(context.Background(), newSeenSet(),
		strings.NewReader("2024-01-01T01:00:00+01:00\n2024-01-01T00:00:00Z\nbad\n"), &out,
		WithLogger(logger), WithName("in.txt"), WithProgressInterval(0))
	require.NoError(t, err)

	text := logs.String()
	assert.Contains(t, text, "new entry written")
	assert.Contains(t, text, "normalized=2024-01-01T00:00:00Z")
	assert.Contains(t, text, "duplicate discarded")
	assert.Contains(t, text, "parse failed")
	assert.Contains(t, text, "input=in.txt")
	assert.Contains(t, text, "input filtered")
}

func TestOutputName(t *testing.T) {
	tests := map[string]string{
		"events.txt":            "events_output.txt",
		"dir/events.txt":        "events_output.txt",
		"events":                "events_output.txt",
		"events.txt.zst":        "events_output.txt",
		"s3/prefix/a.b.log.lz4": "a.b_output.txt",
		"C:\\data\\windows.txt": "windows_output.txt",
	}
	for in, want := range tests {
		assert.Equal(t, want, OutputName(in), in)
	}
}
