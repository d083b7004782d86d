package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hupe1980/datefilter"
	"github.com/hupe1980/datefilter/internal/compress"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `2024-01-01T00:00:00Z
2024-01-01T00:00:00Z
2024-01-01T01:00:00+01:00
garbage
2025-01-01T00:00:00Z
`

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCommand(strings.NewReader(""), &out, &errOut)
	cmd.SetArgs(append([]string{"--env-file", ""}, args...))
	err = cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func writeInput(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRoot_FiltersFile(t *testing.T) {
	in := writeInput(t, t.TempDir(), "events.txt", sample)
	outDir := t.TempDir()
	metrics := filepath.Join(t.TempDir(), "datefilter.prom")

	stdout, _, err := execute(t, "-o", outDir, "--metrics-file", metrics, in)
	require.NoError(t, err)

	got, err := os.ReadFile(filepath.Join(outDir, "events_output.txt"))
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01T00:00:00Z\n2025-01-01T00:00:00Z\n", string(got))

	assert.Contains(t, stdout, "Filtering file")
	assert.Contains(t, stdout, "5 lines of input => 1 failed parse, 4 ts parsed => 2 written to file, 2 discarded")

	prom, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(prom), `datefilter_inserts_total{result="duplicate"} 2`)
	assert.Contains(t, string(prom), `datefilter_input_lines_total{result="parse_failure"} 1`)
	assert.Contains(t, string(prom), "datefilter_memory_peak_bytes")
}

func TestRoot_IndependentInputs(t *testing.T) {
	dir := t.TempDir()
	writeInput(t, dir, "a.txt", "2024-01-01T00:00:00Z\n")
	writeInput(t, dir, "nested/b.txt", "2024-01-01T00:00:00Z\n2024-01-01T00:00:00Z\n")
	outDir := t.TempDir()

	_, _, err := execute(t, "-o", outDir, "-w", "2", dir)
	require.NoError(t, err)

	for _, name := range []string{"a_output.txt", "b_output.txt"} {
		got, err := os.ReadFile(filepath.Join(outDir, name))
		require.NoError(t, err, name)
		assert.Equal(t, "2024-01-01T00:00:00Z\n", string(got), name)
	}
}

func TestRoot_DuplicateOutputName(t *testing.T) {
	dir := t.TempDir()
	east := writeInput(t, dir, "east/log.txt", "2024-01-01T00:00:00Z\n")
	west := writeInput(t, dir, "west/log.txt", "2030-01-01T00:00:00Z\n")
	outDir := t.TempDir()

	_, _, err := execute(t, "-o", outDir, east, west)
	require.ErrorIs(t, err, ErrDuplicateOutput)
	assert.Contains(t, err.Error(), "log_output.txt")

	_, statErr := os.Stat(filepath.Join(outDir, "log_output.txt"))
	assert.ErrorIs(t, statErr, os.ErrNotExist, "nothing is written when outputs collide")

	// Directory expansion is checked the same way.
	_, _, err = execute(t, "-o", outDir, dir)
	require.ErrorIs(t, err, ErrDuplicateOutput)
}

func TestRoot_Compression(t *testing.T) {
	dir := t.TempDir()

	var buf bytes.Buffer
	w, err := compress.NewWriter(&buf, compress.Zstd)
	require.NoError(t, err)
	_, err = w.Write([]byte(sample))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	in := writeInput(t, dir, "events.txt.zst", buf.String())

	outDir := t.TempDir()
	_, _, err = execute(t, "-o", outDir, "--compress", "lz4", in)
	require.NoError(t, err)

	f, err := os.Open(filepath.Join(outDir, "events_output.txt.lz4"))
	require.NoError(t, err)
	defer f.Close()

	r, err := compress.NewReader(f, compress.LZ4)
	require.NoError(t, err)
	var got bytes.Buffer
	_, err = got.ReadFrom(r)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01T00:00:00Z\n2025-01-01T00:00:00Z\n", got.String())
}

func TestRoot_VerboseDumpsTrees(t *testing.T) {
	in := writeInput(t, t.TempDir(), "events.txt", sample)

	stdout, stderr, err := execute(t, "-o", t.TempDir(), "-v", "2", "--log-format", "json", in)
	require.NoError(t, err)

	assert.Contains(t, stdout, "Verbose level set to 2")
	assert.Contains(t, stdout, "year 2024")
	assert.Contains(t, stdout, "year 2025")
	assert.Contains(t, stderr, `"msg":"duplicate discarded"`)
}

func TestRoot_MemoryLimitFails(t *testing.T) {
	var lines strings.Builder
	for h := 0; h < 24; h++ {
		for d := 1; d <= 28; d++ {
			lines.WriteString("2024-01-")
			lines.WriteString(two(d))
			lines.WriteString("T")
			lines.WriteString(two(h))
			lines.WriteString(":00:00Z\n")
		}
	}
	in := writeInput(t, t.TempDir(), "events.txt", lines.String())
	outDir := t.TempDir()

	_, _, err := execute(t, "-o", outDir, "--memory-limit", "2048", in)
	require.Error(t, err)
	assert.ErrorIs(t, err, datefilter.ErrAllocationFailed)

	_, statErr := os.Stat(filepath.Join(outDir, "events_output.txt"))
	assert.ErrorIs(t, statErr, os.ErrNotExist, "failed runs leave no output behind")
}

func TestRoot_Errors(t *testing.T) {
	_, _, err := execute(t, "--workers", "0", "x.txt")
	require.ErrorIs(t, err, ErrInvalidWorkers)

	_, _, err = execute(t, "--compress", "gzip", "x.txt")
	require.ErrorIs(t, err, ErrInvalidCompression)

	_, _, err = execute(t, "-o", t.TempDir(), filepath.Join(t.TempDir(), "missing.txt"))
	require.ErrorIs(t, err, os.ErrNotExist)

	t.Setenv("DATEFILTER_MINIO_ENDPOINT", "")
	_, _, err = execute(t, "minio://bucket/events.txt")
	require.ErrorIs(t, err, ErrMinioNotConfigured)
}

func two(n int) string {
	return string([]byte{byte('0' + n/10), byte('0' + n%10)})
}
