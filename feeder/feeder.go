package feeder

import (
	"crypto/tls"
	"net/http"
	"sort"
	"time"

	"github.com/mmcdole/gofeed"
)

// SourceItem is one article surfaced by an idea source feed.
type SourceItem struct {
	Title       string
	Link        string
	PublishedAt time.Time
}

// FetchRssFeeds pulls one idea-source feed and returns its usable
// articles, newest first. If limit is greater than 0, only the first
// limit items are returned.
func FetchRssFeeds(rssUrl string, limit int) ([]SourceItem, error) {
	httpClient := &http.Client{
		Transport: &http.Transport{
			// Some source sites ship broken certificate chains.
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		},
	}

	fp := gofeed.NewParser()
	fp.Client = httpClient

	feed, err := fp.ParseURL(rssUrl)
	if err != nil {
		return nil, err
	}

	var items []SourceItem
	for _, item := range feed.Items {
		var published time.Time
		if item.PublishedParsed != nil {
			published = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			published = *item.UpdatedParsed
		}

		items = append(items, SourceItem{
			Title:       item.Title,
			Link:        item.Link,
			PublishedAt: published,
		})
	}

	return normalizeItems(items, limit), nil
}

// normalizeItems drops items the extractor cannot mine (no link to
// render) and orders the rest newest first before applying the limit.
// Some source feeds arrive oldest first, which would starve the idea
// backlog of fresh articles.
func normalizeItems(items []SourceItem, limit int) []SourceItem {
	var kept []SourceItem
	for _, item := range items {
		if item.Link == "" {
			continue
		}
		kept = append(kept, item)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].PublishedAt.After(kept[j].PublishedAt)
	})

	if limit > 0 && len(kept) > limit {
		kept = kept[:limit]
	}
	return kept
}
