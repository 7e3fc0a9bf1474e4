// Package main provides a CLI command for summarizing a text document.
// Usage: summarize [FILE] [--output text|json] [--show-original]
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"doc-summarizer/internal/config"
	"doc-summarizer/internal/infra/summarizer"
	"doc-summarizer/internal/observability/logging"
	"doc-summarizer/internal/usecase/summarize"
)

var version = "dev"

// thresholdFlags maps flag names to the reduction settings they override.
var thresholdFlags = []struct {
	name  string
	usage string
	field func(*config.ReductionConfig) *int
}{
	{"max-words-per-chunk", "maximum words per chunk", func(c *config.ReductionConfig) *int { return &c.MaxWordsPerChunk }},
	{"short-threshold", "documents up to this many words are summarized in one call", func(c *config.ReductionConfig) *int { return &c.ShortThreshold }},
	{"chunk-max-length", "maximum words per chunk summary", func(c *config.ReductionConfig) *int { return &c.ChunkMaxLength }},
	{"chunk-min-length", "minimum words per chunk summary", func(c *config.ReductionConfig) *int { return &c.ChunkMinLength }},
	{"final-max-length", "maximum words in the final summary", func(c *config.ReductionConfig) *int { return &c.FinalMaxLength }},
	{"final-min-length", "minimum words in the final summary", func(c *config.ReductionConfig) *int { return &c.FinalMinLength }},
	{"recombine-threshold", "re-summarize joined chunk summaries longer than this", func(c *config.ReductionConfig) *int { return &c.RecombineThreshold }},
}

type options struct {
	output       string
	showOriginal bool
	configFile   string
	provider     string
	logLevel     string
	quiet        bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdin, os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "summarize [FILE]",
		Short: "Summarize a plain-text document",
		Long: `Summarize a UTF-8 plain-text document of any length.

Documents longer than the short threshold are split into chunks, each chunk is
summarized, and the joined chunk summaries are summarized once more when they
are still longer than the recombine threshold.

Reads standard input when FILE is omitted or "-".

Environment variables:
  SUMMARIZER_PROVIDER   noop, openai, claude or huggingface (default: noop)
  ANTHROPIC_API_KEY     API key for the claude provider
  OPENAI_API_KEY        API key for the openai provider
  HUGGINGFACE_API_KEY   API key for the huggingface provider (optional)

Examples:
  summarize report.txt
  cat report.txt | summarize --output json
  summarize report.txt --show-original --final-max-length 80`,
		Args:          cobra.MaximumNArgs(1),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "-"
			if len(args) == 1 {
				path = args[0]
			}
			return run(cmd, path, opts, stdin, stdout, stderr)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.output, "output", "o", "text", "Output format: text or json")
	flags.BoolVar(&opts.showOriginal, "show-original", false, "Include the original text in the output")
	flags.StringVar(&opts.configFile, "config", "", "YAML configuration file (overrides SUMMARIZER_CONFIG_FILE)")
	flags.StringVar(&opts.provider, "provider", "", "Summarizer provider (overrides SUMMARIZER_PROVIDER)")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "Do not report progress on stderr")
	for _, f := range thresholdFlags {
		flags.Int(f.name, 0, f.usage)
	}

	return cmd
}

func run(cmd *cobra.Command, path string, opts options, stdin io.Reader, stdout, stderr io.Writer) error {
	if opts.output != "text" && opts.output != "json" {
		return fmt.Errorf("invalid output format %q (must be 'text' or 'json')", opts.output)
	}

	if opts.provider != "" {
		_ = os.Setenv("SUMMARIZER_PROVIDER", opts.provider)
	}
	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	if err := applyThresholdFlags(cmd, &cfg.Reduction); err != nil {
		return err
	}

	level := cfg.Observability.LogLevel
	if opts.logLevel != "" {
		level = opts.logLevel
	}
	logger := logging.New(stderr, level, false)
	slog.SetDefault(logger)

	data, name, err := readInput(path, stdin)
	if err != nil {
		return err
	}
	document, err := summarize.DecodeText(data)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	client, err := summarizer.New(cfg.Provider)
	if err != nil {
		return err
	}

	ctx := logging.WithLogger(cmd.Context(), logger)
	svc := summarize.NewService(client, cfg.Reduction)

	runOpts := []summarize.Option{}
	if !opts.quiet {
		runOpts = append(runOpts, summarize.WithProgress(func(fraction float64) {
			fmt.Fprintf(stderr, "\rSummarizing... %3d%%", int(fraction*100))
			if fraction >= 1 {
				fmt.Fprintln(stderr)
			}
		}))
	}

	res, err := svc.Summarize(ctx, document, runOpts...)
	if err != nil {
		return err
	}

	out := newOutput(name, client.Provider(), res)
	if opts.showOriginal {
		out.Original = document
	}

	if opts.output == "json" {
		return writeJSON(stdout, out)
	}
	return writeText(stdout, out)
}

// applyThresholdFlags overrides cfg with the threshold flags the user set.
func applyThresholdFlags(cmd *cobra.Command, cfg *config.ReductionConfig) error {
	for _, f := range thresholdFlags {
		if !cmd.Flags().Changed(f.name) {
			continue
		}
		v, err := cmd.Flags().GetInt(f.name)
		if err != nil {
			return err
		}
		*f.field(cfg) = v
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid thresholds: %w", err)
	}
	return nil
}

// readInput reads the whole document from path, or from stdin when path is "-".
func readInput(path string, stdin io.Reader) ([]byte, string, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, "", fmt.Errorf("read stdin: %w", err)
		}
		return data, "stdin", nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("read input: %w", err)
	}
	return data, path, nil
}
