package batch

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/url"
	"runtime"
	"strings"

	"github.com/MOYARU/normalizeurl/internal/normalizer"
	"github.com/rs/zerolog"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/sync/errgroup"
)

// maxLineBytes bounds a single input line; longer URLs fail the read.
const maxLineBytes = 1 << 20 // 1 MiB

// Options controls a batch run.
type Options struct {
	// Workers is the number of concurrent normalizations. Zero means GOMAXPROCS.
	Workers int
	// Dedupe drops results whose normalized form was already emitted.
	Dedupe bool
}

// Result is the outcome for one input line.
type Result struct {
	Line       int    `json:"line"`
	Input      string `json:"input"`
	Normalized string `json:"normalized,omitempty"`
	Changed    bool   `json:"changed"`
	Skipped    bool   `json:"skipped,omitempty"`
	Domain     string `json:"domain,omitempty"`
}

type Summary struct {
	Total     int `json:"total"`
	Changed   int `json:"changed"`
	Unchanged int `json:"unchanged"`
	Skipped   int `json:"skipped"`
	Deduped   int `json:"deduped"`
}

// ReadLines returns every line of r without its line terminator.
func ReadLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for sc.Scan() {
		lines = append(lines, strings.TrimRight(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return lines, nil
}

// Run normalizes inputs concurrently with a shared Normalizer and returns the
// results in input order. It stops early when ctx is canceled.
func Run(ctx context.Context, n *normalizer.Normalizer, inputs []string, opts Options) ([]Result, Summary, error) {
	log := zerolog.Ctx(ctx)

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]Result, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, raw := range inputs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = normalizeOne(log, n, i+1, raw)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, Summary{}, err
	}
	if err := ctx.Err(); err != nil {
		return nil, Summary{}, err
	}

	var sum Summary
	out := results[:0]
	seen := make(map[string]struct{})
	for _, r := range results {
		sum.Total++
		switch {
		case r.Skipped:
			sum.Skipped++
		case r.Changed:
			sum.Changed++
		default:
			sum.Unchanged++
		}
		if opts.Dedupe && !r.Skipped {
			if _, dup := seen[r.Normalized]; dup {
				sum.Deduped++
				continue
			}
			seen[r.Normalized] = struct{}{}
		}
		out = append(out, r)
	}

	log.Info().
		Int("total", sum.Total).
		Int("changed", sum.Changed).
		Int("skipped", sum.Skipped).
		Int("deduped", sum.Deduped).
		Msg("batch complete")
	return out, sum, nil
}

func normalizeOne(log *zerolog.Logger, n *normalizer.Normalizer, line int, raw string) Result {
	res := Result{Line: line, Input: raw}
	got, ok := n.Normalize(raw)
	if !ok {
		res.Skipped = true
		return res
	}
	res.Normalized = got
	res.Changed = got != raw

	if !res.Changed {
		u, err := normalizer.Parse(strings.TrimSpace(raw))
		if err != nil {
			log.Debug().Int("line", line).Err(err).Msg("passing through unparseable input")
			return res
		}
		if !normalizer.IsWebScheme(u.Scheme) {
			log.Debug().Int("line", line).Str("scheme", u.Scheme).Msg("passing through non-web url")
			return res
		}
	}
	res.Domain = RegistrableDomain(got)
	return res
}

// RegistrableDomain returns the eTLD+1 of an http(s) URL, the bare host when
// the public suffix list has no answer, or "" for anything else.
func RegistrableDomain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || !normalizer.IsWebScheme(u.Scheme) {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return ""
	}
	root, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return root
}
