package quotes

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"
)

// Quote is one fetched quote, whatever the source.
type Quote struct {
	Text   string
	Author string
}

type source struct {
	name  string
	url   string
	parse func(body []byte) (*Quote, error)
}

// fetcher tries quote sources in shuffled order and returns the first one
// that answers in time.
type fetcher struct {
	client  *http.Client
	sources []source
}

func newFetcher() *fetcher {
	return &fetcher{
		client: &http.Client{Timeout: time.Second * 5},
		sources: []source{
			{
				name:  "quotegarden",
				url:   "https://quote-garden.onrender.com/api/v3/quotes/random",
				parse: parseQuoteGarden,
			},
			{
				name:  "zenquotes",
				url:   "https://zenquotes.io/api/random",
				parse: parseZenQuotes,
			},
			{
				name:  "reddit",
				url:   "https://www.reddit.com/r/quotes/top.json?limit=25&t=week",
				parse: parseRedditQuotes,
			},
		},
	}
}

// Fetch returns a quote from the first source that works, or an error when
// every source failed.
func (f *fetcher) Fetch() (*Quote, string, error) {
	order := rand.Perm(len(f.sources))
	var lastErr error
	for _, n := range order {
		src := f.sources[n]
		q, err := f.fetchOne(src)
		if err != nil {
			lastErr = fmt.Errorf("%v: %w", src.name, err)
			continue
		}
		return q, src.name, nil
	}
	return nil, "", lastErr
}

func (f *fetcher) fetchOne(src source) (*Quote, error) {
	req, err := http.NewRequest(http.MethodGet, src.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "custodian")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %v", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return src.parse(body)
}

func parseQuoteGarden(body []byte) (*Quote, error) {
	var data struct {
		Data []struct {
			QuoteText   string `json:"quoteText"`
			QuoteAuthor string `json:"quoteAuthor"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, err
	}
	if len(data.Data) == 0 || data.Data[0].QuoteText == "" {
		return nil, fmt.Errorf("empty response")
	}
	return &Quote{Text: data.Data[0].QuoteText, Author: data.Data[0].QuoteAuthor}, nil
}

func parseZenQuotes(body []byte) (*Quote, error) {
	var data []struct {
		Q string `json:"q"`
		A string `json:"a"`
	}
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, err
	}
	if len(data) == 0 || data[0].Q == "" {
		return nil, fmt.Errorf("empty response")
	}
	return &Quote{Text: data[0].Q, Author: data[0].A}, nil
}

func parseRedditQuotes(body []byte) (*Quote, error) {
	var data struct {
		Data struct {
			Children []struct {
				Data struct {
					Title    string `json:"title"`
					Author   string `json:"author"`
					Stickied bool   `json:"stickied"`
				} `json:"data"`
			} `json:"children"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, err
	}
	for _, child := range data.Data.Children {
		if child.Data.Stickied || child.Data.Title == "" {
			continue
		}
		return &Quote{Text: child.Data.Title, Author: "u/" + child.Data.Author}, nil
	}
	return nil, fmt.Errorf("no usable posts")
}
