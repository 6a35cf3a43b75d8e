package normalizer

import "strings"

// DefaultTrackingParams lists query keys used for analytics, attribution and
// session tracking. Matching is case-insensitive.
var DefaultTrackingParams = []string{
	"utm_source", "utm_medium", "utm_campaign", "utm_term", "utm_content",
	"utm_name", "utm_cid", "utm_reader", "utm_viz_id", "utm_pubreferrer", "utm_swu",
	"gclid", "fbclid", "msclkid",
	"_ga", "_gl",
	"mc_cid", "mc_eid",
	"PHPSESSID", "JSESSIONID", "ASPSESSIONID",
	"sid", "sessionid", "session_id",
	"ref", "referer", "referrer",
	"source", "src",
	"campaign",
	"yclid",
	"_openstat",
	"rb_clickid",
	"s_cid",
	"vero_conv", "vero_id",
	"wickedid",
	"oly_anon_id", "oly_enc_id",
	"__s",
	"subscriber_id",
	"ig_rid",
}

// DomainPreserveTable maps a registrable domain to the keys that must survive
// filtering on that domain and all of its subdomains.
var DomainPreserveTable = map[string][]string{
	"youtube.com":       {"v", "t", "list", "index"},
	"youtu.be":          {"v", "t"},
	"vimeo.com":         {"h_original"},
	"amazon.com":        {"keywords", "tag"},
	"amazon.co.uk":      {"keywords", "tag"},
	"ebay.com":          {"hash"},
	"ebay.co.uk":        {"hash"},
	"twitter.com":       {"s"},
	"github.com":        {"tab"},
	"stackoverflow.com": {"answertab"},
	"google.com":        {"q"},
	"google.co.uk":      {"q"},
	"bing.com":          {"q"},
	"duckduckgo.com":    {"q"},
}

// paramSet is a case-insensitive set of query keys.
type paramSet map[string]struct{}

func newParamSet(lists ...[]string) paramSet {
	s := make(paramSet)
	for _, list := range lists {
		s.add(list...)
	}
	return s
}

func (s paramSet) add(names ...string) {
	for _, n := range names {
		s[strings.ToLower(n)] = struct{}{}
	}
}

func (s paramSet) has(name string) bool {
	_, ok := s[strings.ToLower(name)]
	return ok
}

// preserveSetFor collects every key protected on host: the exact table entry,
// every table domain host is a subdomain of, and the per-instance entry for the
// exact host. The union is built before any lookup so an entry contributed by
// several sources is kept once.
func (n *Normalizer) preserveSetFor(host string) paramSet {
	out := make(paramSet)
	if host == "" {
		return out
	}
	if names, ok := DomainPreserveTable[host]; ok {
		out.add(names...)
	}
	for domain, names := range DomainPreserveTable {
		if strings.HasSuffix(host, "."+domain) {
			out.add(names...)
		}
	}
	if custom, ok := n.preserve[host]; ok {
		for name := range custom {
			out[name] = struct{}{}
		}
	}
	return out
}

// shouldRemove reports whether key is a tracking parameter that no preservation
// rule protects. Preservation wins over removal.
func (n *Normalizer) shouldRemove(key string, preserved paramSet) bool {
	if preserved.has(key) {
		return false
	}
	return n.tracking.has(key)
}
