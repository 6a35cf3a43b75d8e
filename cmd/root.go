/*
Copyright (c) 2026 moyaru <rbffo@icloud.com>
*/

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/MOYARU/normalizeurl/internal/app/batch"
	"github.com/MOYARU/normalizeurl/internal/app/output"
	"github.com/MOYARU/normalizeurl/internal/app/ui"
	"github.com/MOYARU/normalizeurl/internal/config"
	"github.com/MOYARU/normalizeurl/internal/logging"
	msges "github.com/MOYARU/normalizeurl/internal/messages"
	"github.com/MOYARU/normalizeurl/internal/normalizer"
	appver "github.com/MOYARU/normalizeurl/internal/version"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type rootOptions struct {
	configPath string

	removeTrackingParams bool
	removeTrailingSlash  bool
	downcaseHostname     bool
	removeWWW            bool
	removeFragment       bool
	trackingParams       []string
	preserve             []string

	format    string
	workers   int
	dedupe    bool
	summary   bool
	logLevel  string
	logFormat string
}

func newRootCmd() *cobra.Command {
	o := &rootOptions{}
	d := normalizer.DefaultConfig()

	cmd := &cobra.Command{
		Use:           "normalizeurl [url...]",
		Short:         "normalizeurl rewrites HTTP/HTTPS URLs into a canonical form for deduplication, caching and comparison.",
		Version:       appver.Value,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, args)
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.configPath, "config", "", "Config file (default: "+config.DefaultFile+" in the working directory, if present)")
	f.BoolVar(&o.removeTrackingParams, "remove-tracking-params", d.RemoveTrackingParams, "Remove known tracking query parameters")
	f.BoolVar(&o.removeTrailingSlash, "remove-trailing-slash", d.RemoveTrailingSlash, "Remove one trailing slash from non-root paths")
	f.BoolVar(&o.downcaseHostname, "downcase-hostname", d.DowncaseHostname, "Lowercase the hostname")
	f.BoolVar(&o.removeWWW, "remove-www", d.RemoveWWW, "Strip a leading www. from the hostname")
	f.BoolVar(&o.removeFragment, "remove-fragment", d.RemoveFragment, "Drop the #fragment")
	f.StringArrayVar(&o.trackingParams, "tracking-param", nil, "Extra tracking parameter to remove (repeatable)")
	f.StringArrayVar(&o.preserve, "preserve", nil, "Parameters to keep on a host, as host=a,b (repeatable)")
	f.StringVar(&o.format, "format", string(output.FormatText), "Output format: text, json or csv")
	f.IntVar(&o.workers, "workers", 0, "Concurrent workers for batch input (default: number of CPUs)")
	f.BoolVar(&o.dedupe, "dedupe", false, "Print each canonical URL only once")
	f.BoolVar(&o.summary, "summary", false, "Print a summary to stderr when done")
	f.StringVar(&o.logLevel, "log-level", "", "Log level: trace, debug, info, warn, error (default: warn)")
	f.StringVar(&o.logFormat, "log-format", "", "Log format: console or json")

	cmd.Long = ui.AsciiArt + `
normalizeurl lowercases scheme and host, strips trailing slashes and fragments,
removes tracking query parameters (utm_*, gclid, fbclid, session ids, ...) while
keeping parameters that matter on well-known domains, and sorts what is left.

Usage:
   normalizeurl [url...] [flags]
   cat urls.txt | normalizeurl [flags]

Example:
  normalizeurl "https://EXAMPLE.COM/Path/?utm_source=x"
  normalizeurl --remove-www --remove-fragment=false "https://www.example.com/a#top"
  normalizeurl --preserve example.com=ref,src --tracking-param cmpid < urls.txt
  normalizeurl --format json --dedupe < urls.txt

Unparseable input and non-HTTP(S) URLs are printed unchanged.
`
	return cmd
}

func (o *rootOptions) run(cmd *cobra.Command, args []string) error {
	logCfg := logging.FromEnv(logging.DefaultConfig())
	logCfg.Out = cmd.ErrOrStderr()
	if o.logLevel != "" {
		level, err := logging.ParseLevel(o.logLevel)
		if err != nil {
			return err
		}
		logCfg.Level = level
	}
	if o.logFormat != "" {
		logCfg.Format = o.logFormat
	}
	logger := logging.New(logCfg)

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := ui.WaitForCancel(logger.WithContext(parent))
	defer cancel()

	format, err := output.ParseFormat(o.format)
	if err != nil {
		return err
	}

	loaded, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	if loaded.Path != "" {
		logger.Debug().Msg(msges.GetUIMessage("ConfigLoaded", loaded.Path))
	}
	cfg := loaded.Config
	if err := o.applyFlags(cmd.Flags(), &cfg); err != nil {
		return err
	}

	inputs := args
	if len(inputs) == 0 {
		if ui.IsTerminal(os.Stdin) && cmd.InOrStdin() == os.Stdin {
			banner := cmd.ErrOrStderr() == os.Stderr && ui.ColorEnabled(os.Stderr)
			printStdinPrompt(cmd.ErrOrStderr(), banner)
		}
		inputs, err = batch.ReadLines(cmd.InOrStdin())
		if err != nil {
			return err
		}
	}

	results, sum, err := batch.Run(ctx, normalizer.New(cfg), inputs, batch.Options{
		Workers: o.workers,
		Dedupe:  o.dedupe,
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(cmd.ErrOrStderr(), msges.GetUIMessage("Cancelled"))
		}
		return err
	}

	palette := ui.Palette{Enabled: format == output.FormatText && cmd.OutOrStdout() == os.Stdout && ui.ColorEnabled(os.Stdout)}
	if err := output.WriteResults(cmd.OutOrStdout(), format, results, palette); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}
	if o.summary {
		errPalette := ui.Palette{Enabled: cmd.ErrOrStderr() == os.Stderr && ui.ColorEnabled(os.Stderr)}
		output.PrintSummary(cmd.ErrOrStderr(), sum, errPalette)
	}
	return nil
}

// printStdinPrompt tells an interactive user that URLs are read from stdin.
func printStdinPrompt(w io.Writer, banner bool) {
	if banner {
		ui.PrintBanner(w, appver.String())
	}
	fmt.Fprintln(w, msges.GetUIMessage("ReadingStdin"))
}

// applyFlags overrides file settings with flags the user set explicitly.
func (o *rootOptions) applyFlags(fs *pflag.FlagSet, cfg *normalizer.Config) error {
	if fs.Changed("remove-tracking-params") {
		cfg.RemoveTrackingParams = o.removeTrackingParams
	}
	if fs.Changed("remove-trailing-slash") {
		cfg.RemoveTrailingSlash = o.removeTrailingSlash
	}
	if fs.Changed("downcase-hostname") {
		cfg.DowncaseHostname = o.downcaseHostname
	}
	if fs.Changed("remove-www") {
		cfg.RemoveWWW = o.removeWWW
	}
	if fs.Changed("remove-fragment") {
		cfg.RemoveFragment = o.removeFragment
	}
	cfg.CustomTrackingParams = append(cfg.CustomTrackingParams, o.trackingParams...)

	for _, spec := range o.preserve {
		host, names, err := config.ParsePreserve(spec)
		if err != nil {
			return err
		}
		if cfg.PreserveParams == nil {
			cfg.PreserveParams = make(map[string][]string)
		}
		cfg.PreserveParams[host] = append(cfg.PreserveParams[host], names...)
	}
	return nil
}

func Execute() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%sError: %v%s\n", ui.ColorRed, err, ui.ColorReset)
		os.Exit(1)
	}
}
