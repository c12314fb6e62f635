package quotes

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFetcher(srcs ...source) *fetcher {
	return &fetcher{
		client:  &http.Client{Timeout: time.Second},
		sources: srcs,
	}
}

func TestFetchFallsThroughFailingSources(t *testing.T) {
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer bad.Close()
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"q": "Stay hungry.", "a": "Someone"}]`))
	}))
	defer good.Close()

	f := newTestFetcher(
		source{name: "bad", url: bad.URL, parse: parseZenQuotes},
		source{name: "good", url: good.URL, parse: parseZenQuotes},
	)

	q, src, err := f.Fetch()
	require.NoError(t, err)
	assert.Equal(t, "good", src)
	assert.Equal(t, "Stay hungry.", q.Text)
	assert.Equal(t, "Someone", q.Author)
}

func TestFetchAllSourcesFail(t *testing.T) {
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer bad.Close()

	f := newTestFetcher(
		source{name: "one", url: bad.URL, parse: parseZenQuotes},
		source{name: "two", url: bad.URL, parse: parseQuoteGarden},
	)

	_, _, err := f.Fetch()
	assert.Error(t, err)
}

func TestParseQuoteGarden(t *testing.T) {
	body := []byte(`{"data": [{"quoteText": "Be yourself.", "quoteAuthor": "Anon"}]}`)
	q, err := parseQuoteGarden(body)
	require.NoError(t, err)
	assert.Equal(t, "Be yourself.", q.Text)
	assert.Equal(t, "Anon", q.Author)

	_, err = parseQuoteGarden([]byte(`{"data": []}`))
	assert.Error(t, err)
}

func TestParseRedditQuotesSkipsStickied(t *testing.T) {
	body := []byte(`{"data": {"children": [
		{"data": {"title": "pinned", "author": "mod", "stickied": true}},
		{"data": {"title": "A good quote", "author": "poster", "stickied": false}}
	]}}`)
	q, err := parseRedditQuotes(body)
	require.NoError(t, err)
	assert.Equal(t, "A good quote", q.Text)
	assert.Equal(t, "u/poster", q.Author)
}
