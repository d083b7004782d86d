package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/hupe1980/datefilter"
	"github.com/hupe1980/datefilter/blobstore"
	"github.com/hupe1980/datefilter/blobstore/minio"
	"github.com/hupe1980/datefilter/blobstore/s3"
	"github.com/hupe1980/datefilter/internal/compress"
	"github.com/hupe1980/datefilter/internal/pipeline"
	"github.com/hupe1980/datefilter/internal/resource"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"
)

// ErrMinioNotConfigured is returned for minio:// locations without an
// endpoint.
var ErrMinioNotConfigured = errors.New("minio endpoint not configured")

// ErrDuplicateOutput is returned when two inputs would be filtered into the
// same output.
var ErrDuplicateOutput = errors.New("inputs share an output")

// runner filters every input into its own output with its own Filter.
// All filters share one resource controller.
type runner struct {
	cfg      Config
	stdout   io.Writer
	stdoutMu sync.Mutex
	logger   *datefilter.Logger
	rc       *resource.Controller
	registry *prometheus.Registry
	metrics  datefilter.MetricsCollector
	outType  compress.Type

	storesMu sync.Mutex
	stores   map[string]blobstore.BlobStore
}

func newRunner(cfg Config, stdout, stderr io.Writer) (*runner, error) {
	level := slog.LevelInfo
	if cfg.Verbose > 0 {
		level = slog.LevelDebug
	}
	logger := datefilter.NewTextLogger(stderr, level)
	if cfg.LogFormat == "json" {
		logger = datefilter.NewJSONLogger(stderr, level)
	}

	outType, err := compress.ParseType(cfg.Compress)
	if err != nil {
		return nil, err
	}

	rc := resource.NewController(resource.Config{
		MemoryLimitBytes:   cfg.MemoryLimit,
		MaxWorkers:         int64(cfg.Workers),
		IOLimitBytesPerSec: cfg.IOLimit,
	})

	reg := prometheus.NewRegistry()
	pc, err := datefilter.NewPrometheusCollector(reg)
	if err != nil {
		return nil, err
	}
	if err := reg.Register(collectors.NewGoCollector()); err != nil {
		return nil, err
	}
	if err := reg.Register(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "datefilter",
		Name:      "memory_peak_bytes",
		Help:      "Highest accounted tree memory across all inputs.",
	}, func() float64 { return float64(rc.PeakMemoryUsage()) })); err != nil {
		return nil, err
	}

	return &runner{
		cfg:      cfg,
		stdout:   stdout,
		logger:   logger,
		rc:       rc,
		registry: reg,
		metrics:  pc,
		outType:  outType,
		stores:   make(map[string]blobstore.BlobStore),
	}, nil
}

// store returns the cached store serving loc, dialing it on first use.
func (r *runner) store(ctx context.Context, loc location) (blobstore.BlobStore, error) {
	r.storesMu.Lock()
	defer r.storesMu.Unlock()

	if s, ok := r.stores[loc.storeKey()]; ok {
		return s, nil
	}

	var s blobstore.BlobStore
	switch loc.scheme {
	case schemeS3:
		var opts []s3.Option
		if r.cfg.S3Region != "" {
			opts = append(opts, s3.WithRegion(r.cfg.S3Region))
		}
		if r.cfg.S3Endpoint != "" {
			opts = append(opts, s3.WithEndpoint(r.cfg.S3Endpoint))
		}
		st, err := s3.New(ctx, loc.bucket, opts...)
		if err != nil {
			return nil, fmt.Errorf("s3 bucket %s: %w", loc.bucket, err)
		}
		s = st
	case schemeMinio:
		if r.cfg.MinioEndpoint == "" {
			return nil, ErrMinioNotConfigured
		}
		client, err := minio.Dial(r.cfg.MinioEndpoint, r.cfg.MinioAccessKey, r.cfg.MinioSecretKey, r.cfg.MinioSecure)
		if err != nil {
			return nil, fmt.Errorf("minio %s: %w", r.cfg.MinioEndpoint, err)
		}
		s = minio.NewStore(client, loc.bucket, "")
	default:
		s = blobstore.NewLocalStore("")
	}

	r.stores[loc.storeKey()] = s
	return s, nil
}

// expand replaces prefix inputs (a local directory, or a remote key ending
// in "/") with the blobs below them.
func (r *runner) expand(ctx context.Context, inputs []string) ([]location, error) {
	var out []location
	for _, in := range inputs {
		loc, err := parseLocation(in)
		if err != nil {
			return nil, err
		}

		if loc.scheme == schemeLocal {
			fi, err := os.Stat(loc.String())
			if err != nil || !fi.IsDir() {
				out = append(out, loc)
				continue
			}
			names, err := blobstore.NewLocalStore(loc.String()).List(ctx, "")
			if err != nil {
				return nil, err
			}
			for _, name := range names {
				out = append(out, loc.join(name))
			}
			continue
		}

		if !loc.isPrefix() {
			out = append(out, loc)
			continue
		}
		st, err := r.store(ctx, loc)
		if err != nil {
			return nil, err
		}
		names, err := st.List(ctx, loc.key)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", loc, err)
		}
		for _, name := range names {
			out = append(out, location{scheme: loc.scheme, bucket: loc.bucket, key: name})
		}
	}
	return out, nil
}

// Run filters all inputs, at most cfg.Workers at a time.
func (r *runner) Run(ctx context.Context, inputs []string) error {
	locs, err := r.expand(ctx, inputs)
	if err != nil {
		return err
	}
	outDir, err := parseLocation(r.cfg.OutputDir)
	if err != nil {
		return err
	}

	if err := r.checkOutputs(locs, outDir); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, in := range locs {
		if err := r.rc.AcquireWorker(gctx); err != nil {
			break
		}
		g.Go(func() error {
			defer r.rc.ReleaseWorker()
			return r.filterOne(gctx, in, outDir)
		})
	}
	runErr := g.Wait()
	if runErr == nil {
		runErr = ctx.Err()
	}

	if r.cfg.MetricsFile != "" {
		if err := prometheus.WriteToTextfile(r.cfg.MetricsFile, r.registry); err != nil {
			runErr = errors.Join(runErr, fmt.Errorf("write metrics: %w", err))
		}
	}
	return runErr
}

// checkOutputs rejects inputs whose outputs collide, before anything is
// written.
func (r *runner) checkOutputs(locs []location, outDir location) error {
	owners := make(map[string]location, len(locs))
	for _, in := range locs {
		out := r.outputFor(in, outDir).String()
		if prev, ok := owners[out]; ok {
			return fmt.Errorf("%w: %s and %s both write %s", ErrDuplicateOutput, prev, in, out)
		}
		owners[out] = in
	}
	return nil
}

func (r *runner) outputFor(in, outDir location) location {
	return outDir.join(pipeline.OutputName(in.key) + r.outType.Ext())
}

func (r *runner) printf(format string, args ...any) {
	r.stdoutMu.Lock()
	defer r.stdoutMu.Unlock()
	fmt.Fprintf(r.stdout, format, args...)
}

func (r *runner) filterOne(ctx context.Context, in, outDir location) (err error) {
	out := r.outputFor(in, outDir)
	logger := r.logger.WithInput(in.String())

	src, err := r.store(ctx, in)
	if err != nil {
		return err
	}
	dst, err := r.store(ctx, out)
	if err != nil {
		return err
	}

	blob, err := src.Open(ctx, in.key)
	if err != nil {
		return fmt.Errorf("open %s: %w", in, err)
	}
	defer blob.Close()

	body, err := blob.NewReader(ctx)
	if err != nil {
		return fmt.Errorf("read %s: %w", in, err)
	}
	defer body.Close()

	dec, err := compress.NewReader(resource.NewRateLimitedReader(ctx, body, r.rc), compress.FromName(in.key))
	if err != nil {
		return fmt.Errorf("read %s: %w", in, err)
	}
	defer dec.Close()

	wb, err := dst.Create(ctx, out.key)
	if err != nil {
		return fmt.Errorf("create %s: %w", out, err)
	}
	defer func() {
		if err != nil {
			_ = wb.Abort(context.WithoutCancel(ctx))
		}
	}()

	enc, err := compress.NewWriter(wb, r.outType)
	if err != nil {
		return err
	}

	f, err := datefilter.New(
		datefilter.WithLogger(logger),
		datefilter.WithMetricsCollector(r.metrics),
		datefilter.WithResourceController(r.rc),
	)
	if err != nil {
		return err
	}
	defer f.Teardown()

	r.printf("Filtering file '%s' into '%s'.\n", in, out)

	sum, err := pipeline.Run(ctx, f, dec, enc,
		pipeline.WithLogger(logger.Logger),
		pipeline.WithName(in.String()),
	)
	if err != nil {
		return fmt.Errorf("filter %s: %w", in, err)
	}
	if err = enc.Close(); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	if err = wb.Close(); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}

	r.metrics.RecordInput(sum.Lines, sum.ParseFailures, sum.Written, sum.Duplicates, sum.Duration)
	r.printf("DateFilter: %s\n", sum)

	if r.cfg.Verbose >= 2 {
		r.stdoutMu.Lock()
		defer r.stdoutMu.Unlock()
		return f.DumpTrees(r.stdout)
	}
	return nil
}
