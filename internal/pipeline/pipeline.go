// Package pipeline drives line-by-line de-duplication of timestamp files.
package pipeline

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/hupe1980/datefilter/internal/compress"
	"github.com/hupe1980/datefilter/internal/timestamp"
	"golang.org/x/time/rate"
)

// MaxLineBytes bounds a single input line.
const MaxLineBytes = 1 << 20

// Inserter records a timestamp and reports whether it was seen before.
// *datefilter.Filter satisfies it.
type Inserter interface {
	InsertTimestamp(ts timestamp.Timestamp) (bool, error)
}

// Summary counts what happened to the lines of one input.
type Summary struct {
	Name          string
	Lines         int
	ParseFailures int
	Parsed        int
	Written       int
	Duplicates    int
	Duration      time.Duration
}

// LogValue implements slog.LogValuer.
func (s Summary) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("name", s.Name),
		slog.Int("lines", s.Lines),
		slog.Int("parse_failures", s.ParseFailures),
		slog.Int("parsed", s.Parsed),
		slog.Int("written", s.Written),
		slog.Int("duplicates", s.Duplicates),
		slog.Duration("duration", s.Duration),
	)
}

func (s Summary) String() string {
	return fmt.Sprintf("%s: %d lines of input => %d failed parse, %d ts parsed => %d written to file, %d discarded (%s)",
		s.Name, s.Lines, s.ParseFailures, s.Parsed, s.Written, s.Duplicates, s.Duration.Round(time.Microsecond))
}

type options struct {
	logger   *slog.Logger
	name     string
	progress time.Duration
}

// Option configures Run.
type Option func(*options)

// WithLogger sets the logger for per-line debug records and progress.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithName labels the summary and every log record with the input name.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithProgressInterval sets the minimum gap between progress records.
// Zero disables them.
func WithProgressInterval(d time.Duration) Option {
	return func(o *options) { o.progress = d }
}

// Run reads timestamps from r, one per line, and copies to w every line
// whose normalized instant was not recorded in f before. Lines that fail to
// parse are counted and dropped. The context is checked between lines.
func Run(ctx context.Context, f Inserter, r io.Reader, w io.Writer, opts ...Option) (Summary, error) {
	o := options{
		logger:   slog.New(slog.DiscardHandler),
		progress: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(&o)
	}

	log := o.logger
	if o.name != "" {
		log = log.With(slog.String("input", o.name))
	}
	debug := log.Enabled(ctx, slog.LevelDebug)

	var progress *rate.Sometimes
	if o.progress > 0 {
		progress = &rate.Sometimes{Interval: o.progress}
	}

	sum := Summary{Name: o.name}
	start := time.Now()

	bw := bufio.NewWriter(w)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), MaxLineBytes)

	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return finish(sum, start), err
		}

		line := bytes.TrimSuffix(sc.Bytes(), []byte{'\r'})
		sum.Lines++

		ts, err := timestamp.Parse(string(line))
		if err != nil {
			sum.ParseFailures++
			if debug {
				log.DebugContext(ctx, "parse failed, discarded", slog.String("line", string(line)), slog.Any("error", err))
			}
			continue
		}
		sum.Parsed++

		seen, err := f.InsertTimestamp(ts)
		if err != nil {
			return finish(sum, start), fmt.Errorf("pipeline: line %d: %w", sum.Lines, err)
		}

		if seen {
			sum.Duplicates++
			if debug {
				log.DebugContext(ctx, "duplicate discarded", lineAttrs(line, ts)...)
			}
		} else {
			if _, err := bw.Write(line); err != nil {
				return finish(sum, start), err
			}
			if err := bw.WriteByte('\n'); err != nil {
				return finish(sum, start), err
			}
			sum.Written++
			if debug {
				log.DebugContext(ctx, "new entry written", lineAttrs(line, ts)...)
			}
		}

		if progress != nil {
			progress.Do(func() {
				log.InfoContext(ctx, "progress", slog.Int("lines", sum.Lines), slog.Int("written", sum.Written))
			})
		}
	}
	if err := sc.Err(); err != nil {
		return finish(sum, start), fmt.Errorf("pipeline: read line %d: %w", sum.Lines+1, err)
	}
	if err := bw.Flush(); err != nil {
		return finish(sum, start), err
	}

	sum = finish(sum, start)
	log.InfoContext(ctx, "input filtered", slog.Any("summary", sum))
	return sum, nil
}

func finish(sum Summary, start time.Time) Summary {
	sum.Duration = time.Since(start)
	return sum
}

func lineAttrs(line []byte, ts timestamp.Timestamp) []any {
	attrs := []any{
		slog.String("line", string(line)),
		slog.Uint64("key", uint64(ts.Fields().Encode())),
	}
	if ts.Adjusted {
		attrs = append(attrs, slog.String("normalized", ts.String()))
	}
	return attrs
}

// OutputName derives the output blob name for input: the base name without
// its compression suffix and extension, followed by "_output.txt".
func OutputName(input string) string {
	base := path.Base(strings.ReplaceAll(compress.StripExt(input), "\\", "/"))
	if ext := path.Ext(base); ext != "" && ext != base {
		base = strings.TrimSuffix(base, ext)
	}
	return base + "_output.txt"
}
