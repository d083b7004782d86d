package main

import (
	"io"

	"github.com/spf13/cobra"
)

// NewRootCommand builds the datefilter command with injected streams.
func NewRootCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	var envFile string
	flags := Config{}

	rc := &cobra.Command{
		Use:   "datefilter [flags] [INPUT...]",
		Short: "Drop repeated ISO 8601 timestamps from text files.",
		Long: `datefilter reads files of ISO 8601 timestamps, one per line, in Zulu time
or with a ±HH:MM offset. Every line whose instant was not seen earlier in
the same file is copied to <input name>_output.txt in the output directory.
Lines that do not parse are dropped.

Inputs and the output directory may be local paths, s3://bucket/key or
minio://bucket/key. A directory, or a remote key ending in '/', expands to
every file below it. Files ending in .zst or .lz4 are decompressed.

Settings are read from DATEFILTER_* environment variables (optionally loaded
from a .env file) and overridden by flags.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(envFile)
			if err != nil {
				return err
			}
			applyFlags(cmd, &cfg, &flags)
			if err := ValidateConfig(&cfg); err != nil {
				return err
			}

			if len(args) == 0 {
				args = []string{"test.txt"}
			}

			r, err := newRunner(cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if cfg.Verbose > 0 {
				r.printf("Verbose level set to %d\n", cfg.Verbose)
			}
			return r.Run(cmd.Context(), args)
		},
	}

	fs := rc.Flags()
	fs.StringVar(&envFile, "env-file", ".env", "Environment file loaded before reading DATEFILTER_* variables.")
	fs.IntVarP(&flags.Verbose, "verbose", "v", 0, "Verbosity: 1 logs every line, 2 also dumps the trees.")
	fs.StringVar(&flags.LogFormat, "log-format", "text", "Log format: text or json.")
	fs.StringVarP(&flags.OutputDir, "output-dir", "o", ".", "Directory or bucket prefix for output files.")
	fs.StringVar(&flags.Compress, "compress", "none", "Output compression: none, lz4 or zstd.")
	fs.IntVarP(&flags.Workers, "workers", "w", 4, "Inputs filtered in parallel.")
	fs.Int64Var(&flags.MemoryLimit, "memory-limit", 0, "Tree memory budget in bytes shared by all inputs (0 = unlimited).")
	fs.Int64Var(&flags.IOLimit, "io-limit", 0, "Input read limit in bytes per second (0 = unlimited).")
	fs.StringVar(&flags.MetricsFile, "metrics-file", "", "Write Prometheus metrics in text format to this file.")

	rc.SetIn(stdin)
	rc.SetOut(stdout)
	rc.SetErr(stderr)
	return rc
}

// applyFlags copies every flag set on the command line over cfg.
func applyFlags(cmd *cobra.Command, cfg, flags *Config) {
	fs := cmd.Flags()
	if fs.Changed("verbose") {
		cfg.Verbose = flags.Verbose
	}
	if fs.Changed("log-format") {
		cfg.LogFormat = flags.LogFormat
	}
	if fs.Changed("output-dir") {
		cfg.OutputDir = flags.OutputDir
	}
	if fs.Changed("compress") {
		cfg.Compress = flags.Compress
	}
	if fs.Changed("workers") {
		cfg.Workers = flags.Workers
	}
	if fs.Changed("memory-limit") {
		cfg.MemoryLimit = flags.MemoryLimit
	}
	if fs.Changed("io-limit") {
		cfg.IOLimit = flags.IOLimit
	}
	if fs.Changed("metrics-file") {
		cfg.MetricsFile = flags.MetricsFile
	}
}
