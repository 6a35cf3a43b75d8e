package normalizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	u, err := Parse("HTTPS://Example.com:8443/a%20b/?x=1#frag")
	require.NoError(t, err)
	assert.Equal(t, "https", u.Scheme)
	assert.Equal(t, "Example.com:8443", u.Host)
	assert.Equal(t, "/a b/", u.Path)
	assert.Equal(t, "x=1", u.RawQuery)
	assert.Equal(t, "frag", u.Fragment)

	u, err = Parse("https://user:pw@[fe80::1%25eth0]:80/p?q=a b{}|\"#top")
	require.NoError(t, err)
	assert.Equal(t, "[fe80::1%eth0]:80", u.Host)
	assert.Equal(t, "q=a b{}|\"", u.RawQuery)

	for _, raw := range []string{
		"https://example.com/a b",
		"https://example.com/a[b]",
		"https://exa[mple.com/",
		"https://us[er@example.com/",
		"https://example.com/#[frag]",
		"https://example.com/?a=%g1",
		"https://example.com/<script>",
		"https://example.com/{x}",
		"https://example.com/100%",
		"https://example.com/%4",
		"https://example.com/#a#b",
		"http://[::1/",
		"https://example.com/\x7f",
	} {
		_, err := Parse(raw)
		assert.ErrorIs(t, err, ErrInvalidURL, raw)
	}
}

func TestDecodeQuery(t *testing.T) {
	pairs, err := decodeQuery("b=2&&a=%20x+y&flag&a=")
	require.NoError(t, err)
	assert.Equal(t, []queryPair{
		{Key: "b", Value: "2"},
		{Key: "a", Value: " x y"},
		{Key: "flag", Value: ""},
		{Key: "a", Value: ""},
	}, pairs)

	_, err = decodeQuery("a=%zz")
	assert.Error(t, err)
}

func TestEncodeQuery(t *testing.T) {
	got := encodeQuery([]queryPair{
		{Key: "q", Value: "a b&c"},
		{Key: "name", Value: "Jürgen"},
		{Key: "e", Value: ""},
	})
	assert.Equal(t, "q=a+b%26c&name=J%C3%BCrgen&e=", got)

	got = encodeQuery([]queryPair{{Key: "sel", Value: "*~"}})
	assert.Equal(t, "sel=%2A~", got)
}

func TestPreserveSetFor(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PreserveParams = map[string][]string{
		"music.youtube.com": {"V", "autoplay"},
	}
	n := New(cfg)

	set := n.preserveSetFor("music.youtube.com")
	for _, name := range []string{"v", "t", "list", "index", "autoplay"} {
		assert.True(t, set.has(name), name)
	}
	assert.Len(t, set, 5)

	assert.Empty(t, n.preserveSetFor(""))
	assert.Empty(t, n.preserveSetFor("example.com"))
	assert.True(t, n.preserveSetFor("a.b.google.co.uk").has("Q"))
}
