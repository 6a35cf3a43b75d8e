package normalizer

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrInvalidURL is returned by Parse for input that is not a syntactically
// valid URI reference.
var ErrInvalidURL = errors.New("invalid url")

// Parse decomposes raw into a URL. On top of url.Parse it checks characters
// per component: authority, path and fragment must use RFC 3986 characters,
// with '[' and ']' only around an IP-literal host. The query may hold any byte
// except '#'. Every '%' must start a two digit hex escape.
func Parse(raw string) (*url.URL, error) {
	if err := checkURIChars(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	return u, nil
}

func checkURIChars(s string) error {
	rest, frag, hasFrag := strings.Cut(s, "#")
	if hasFrag {
		if err := checkComponent("fragment", frag, "/?"); err != nil {
			return err
		}
	}
	rest, query, hasQuery := strings.Cut(rest, "?")
	if hasQuery {
		if err := checkEscapes("query", query); err != nil {
			return err
		}
	}

	if i := strings.IndexByte(rest, ':'); i > 0 && isScheme(rest[:i]) {
		rest = rest[i+1:]
	}
	if strings.HasPrefix(rest, "//") {
		authority := rest[2:]
		path := ""
		if i := strings.IndexByte(authority, '/'); i >= 0 {
			authority, path = authority[:i], authority[i:]
		}
		if err := checkAuthority(authority); err != nil {
			return err
		}
		rest = path
	}
	return checkComponent("path", rest, "/")
}

func checkAuthority(a string) error {
	userinfo, hostport := "", a
	if i := strings.LastIndexByte(a, '@'); i >= 0 {
		userinfo, hostport = a[:i], a[i+1:]
	}
	if err := checkComponent("userinfo", userinfo, ""); err != nil {
		return err
	}
	if strings.HasPrefix(hostport, "[") {
		end := strings.IndexByte(hostport, ']')
		if end < 0 {
			return errors.New("missing ']' in host")
		}
		if err := checkComponent("host", hostport[1:end], ""); err != nil {
			return err
		}
		hostport = hostport[end+1:]
	}
	return checkComponent("host", hostport, "")
}

// checkComponent accepts pchar plus the bytes in extra.
func checkComponent(name, s, extra string) error {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '%':
			if i+2 >= len(s) || !isHex(s[i+1]) || !isHex(s[i+2]) {
				return fmt.Errorf("malformed escape in %s at offset %d", name, i)
			}
			i += 2
		case !isPChar(c) && strings.IndexByte(extra, c) < 0:
			return fmt.Errorf("invalid character %q in %s at offset %d", c, name, i)
		}
	}
	return nil
}

func checkEscapes(name, s string) error {
	for i := 0; i < len(s); i++ {
		if s[i] != '%' {
			continue
		}
		if i+2 >= len(s) || !isHex(s[i+1]) || !isHex(s[i+2]) {
			return fmt.Errorf("malformed escape in %s at offset %d", name, i)
		}
		i += 2
	}
	return nil
}

func isScheme(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		case i > 0 && ('0' <= c && c <= '9' || c == '+' || c == '-' || c == '.'):
		default:
			return false
		}
	}
	return s != ""
}

func isPChar(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-._~!$&'()*+,;=:@", c) >= 0
}

func isHex(c byte) bool {
	switch {
	case '0' <= c && c <= '9', 'a' <= c && c <= 'f', 'A' <= c && c <= 'F':
		return true
	}
	return false
}

// queryPair is one decoded key/value pair. Order and duplicates are kept.
type queryPair struct {
	Key   string
	Value string
}

// decodeQuery splits a form-encoded query into ordered pairs. Empty segments
// are skipped and a segment without '=' decodes to an empty value.
func decodeQuery(raw string) ([]queryPair, error) {
	var pairs []queryPair
	for _, seg := range strings.Split(raw, "&") {
		if seg == "" {
			continue
		}
		k, v, _ := strings.Cut(seg, "=")
		key, err := url.QueryUnescape(k)
		if err != nil {
			return nil, fmt.Errorf("decode key %q: %w", k, err)
		}
		value, err := url.QueryUnescape(v)
		if err != nil {
			return nil, fmt.Errorf("decode value of %q: %w", key, err)
		}
		pairs = append(pairs, queryPair{Key: key, Value: value})
	}
	return pairs, nil
}

func encodeQuery(pairs []queryPair) string {
	var sb strings.Builder
	for i, p := range pairs {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(p.Key))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(p.Value))
	}
	return sb.String()
}
