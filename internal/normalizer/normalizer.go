// Package normalizer rewrites HTTP and HTTPS URLs into a canonical form that
// can be used as a deduplication or cache key.
package normalizer

import (
	"net/url"
	"sort"
	"strings"
)

// Config controls which normalization steps run. Build one with DefaultConfig
// and override the fields you need.
type Config struct {
	RemoveTrackingParams bool
	RemoveTrailingSlash  bool
	DowncaseHostname     bool
	RemoveWWW            bool
	RemoveFragment       bool

	// CustomTrackingParams are merged into DefaultTrackingParams.
	CustomTrackingParams []string
	// PreserveParams maps an exact host to extra keys that are never removed
	// on that host.
	PreserveParams map[string][]string
}

func DefaultConfig() Config {
	return Config{
		RemoveTrackingParams: true,
		RemoveTrailingSlash:  true,
		DowncaseHostname:     true,
		RemoveWWW:            false,
		RemoveFragment:       true,
	}
}

// Normalizer is immutable once built and safe for concurrent use.
type Normalizer struct {
	cfg      Config
	tracking paramSet
	preserve map[string]paramSet
}

func New(cfg Config) *Normalizer {
	n := &Normalizer{
		cfg:      cfg,
		tracking: newParamSet(DefaultTrackingParams, cfg.CustomTrackingParams),
		preserve: make(map[string]paramSet, len(cfg.PreserveParams)),
	}
	for host, names := range cfg.PreserveParams {
		set, ok := n.preserve[host]
		if !ok {
			set = make(paramSet)
			n.preserve[host] = set
		}
		set.add(names...)
	}
	// only the switches are read after construction
	n.cfg.CustomTrackingParams, n.cfg.PreserveParams = nil, nil
	return n
}

// Normalize is a shorthand for New(cfg).Normalize(raw).
func Normalize(raw string, cfg Config) (string, bool) {
	return New(cfg).Normalize(raw)
}

// Normalize returns the canonical form of raw. The boolean is false when raw
// is empty or only whitespace. Input that does not parse, or whose scheme is
// not http or https, is returned unchanged.
func (n *Normalizer) Normalize(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", false
	}

	u, err := Parse(trimmed)
	if err != nil {
		return raw, true
	}
	if !IsWebScheme(u.Scheme) {
		return raw, true
	}

	u.Scheme = strings.ToLower(u.Scheme)
	n.normalizeHost(u)
	n.normalizePath(u)
	n.normalizeQuery(u)
	n.normalizeFragment(u)

	return u.String(), true
}

// IsWebScheme reports whether scheme is http or https, ignoring case.
func IsWebScheme(scheme string) bool {
	return strings.EqualFold(scheme, "http") || strings.EqualFold(scheme, "https")
}

func (n *Normalizer) normalizeHost(u *url.URL) {
	if u.Host == "" {
		return
	}
	if n.cfg.DowncaseHostname {
		u.Host = strings.ToLower(u.Host)
	}
	if n.cfg.RemoveWWW && len(u.Host) > 4 && strings.EqualFold(u.Host[:4], "www.") {
		u.Host = u.Host[4:]
	}
}

func (n *Normalizer) normalizePath(u *url.URL) {
	// http:opaque has no path component
	if u.Opaque != "" {
		return
	}
	p := u.EscapedPath()
	orig := p
	if n.cfg.RemoveTrailingSlash && p != "/" && strings.HasSuffix(p, "/") {
		p = p[:len(p)-1]
	}
	if p == "" {
		p = "/"
	}
	if p == orig {
		return
	}
	unescaped, err := url.PathUnescape(p)
	if err != nil {
		// EscapedPath always yields a valid encoding.
		panic("normalizer: invalid escaped path " + p + ": " + err.Error())
	}
	u.Path = unescaped
	u.RawPath = p
}

func (n *Normalizer) normalizeQuery(u *url.URL) {
	if !n.cfg.RemoveTrackingParams || (u.RawQuery == "" && !u.ForceQuery) {
		return
	}
	pairs, err := decodeQuery(u.RawQuery)
	if err != nil {
		return
	}

	preserved := n.preserveSetFor(u.Hostname())
	kept := pairs[:0]
	for _, p := range pairs {
		if !n.shouldRemove(p.Key, preserved) {
			kept = append(kept, p)
		}
	}

	u.ForceQuery = false
	if len(kept) == 0 {
		u.RawQuery = ""
		return
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Key < kept[j].Key })
	u.RawQuery = encodeQuery(kept)
}

func (n *Normalizer) normalizeFragment(u *url.URL) {
	if n.cfg.RemoveFragment {
		u.Fragment = ""
		u.RawFragment = ""
	}
}
