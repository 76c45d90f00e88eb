// Package cache keeps recently seen articles and search results in memory
// under short sequential identifiers, so the user can say "read 3" instead
// of pasting a URL.
package cache

import (
	"container/list"
	"sync"
	"time"

	urlutil "github.com/newshound/newshound/internal/utils/url"
	"github.com/newshound/newshound/pkg/models"
	"github.com/rs/zerolog/log"
)

// Entry is one cached item. Search results enter with URL and title only;
// Article is attached once a cascade retrieves the content.
type Entry struct {
	ID      int
	URL     string
	Title   string
	Source  string
	Article *models.Article
	addedAt time.Time
}

// ArticleCache assigns sequential numeric IDs and evicts least-recently
// used entries past the size bound. Expired entries are dropped on access
// and by a background sweep.
type ArticleCache struct {
	mu        sync.Mutex
	byID      map[int]*list.Element
	byURL     map[string]int
	lruList   *list.List
	nextID    int
	maxSize   int
	ttl       time.Duration
	done      chan struct{}
	closeOnce sync.Once
}

// New creates an ArticleCache bounded to maxSize entries with the given TTL.
func New(maxSize int, ttl time.Duration) *ArticleCache {
	if maxSize <= 0 {
		maxSize = 200
	}
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}

	c := &ArticleCache{
		byID:    make(map[int]*list.Element),
		byURL:   make(map[string]int),
		lruList: list.New(),
		nextID:  1,
		maxSize: maxSize,
		ttl:     ttl,
		done:    make(chan struct{}),
	}
	go c.sweep()
	return c
}

// Add registers a URL under the next sequential ID and returns that ID.
// A URL already present keeps its existing ID. URLs are canonicalized so
// fragment-only variants share one entry.
func (c *ArticleCache) Add(url, title, source string) int {
	url = urlutil.Canonical(url)

	c.mu.Lock()
	defer c.mu.Unlock()

	if id, ok := c.byURL[url]; ok {
		if el, ok := c.byID[id]; ok {
			entry := el.Value.(*Entry)
			if title != "" {
				entry.Title = title
			}
			entry.addedAt = time.Now()
			c.lruList.MoveToFront(el)
			return id
		}
	}

	for c.lruList.Len() >= c.maxSize {
		c.evictOldest()
	}

	id := c.nextID
	c.nextID++
	entry := &Entry{
		ID:      id,
		URL:     url,
		Title:   title,
		Source:  source,
		addedAt: time.Now(),
	}
	el := c.lruList.PushFront(entry)
	c.byID[id] = el
	c.byURL[url] = id

	log.Debug().Int("id", id).Str("url", url).Msg("Cached entry")
	return id
}

// Attach stores the retrieved article on an existing entry.
func (c *ArticleCache) Attach(id int, art *models.Article) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.byID[id]
	if !ok {
		return false
	}
	entry := el.Value.(*Entry)
	entry.Article = art
	if entry.Title == "" {
		entry.Title = art.Title
	}
	entry.addedAt = time.Now()
	c.lruList.MoveToFront(el)
	return true
}

// Get returns the entry for id, refreshing its recency. Expired entries
// are removed and reported as missing.
func (c *ArticleCache) Get(id int) (*Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.byID[id]
	if !ok {
		return nil, false
	}
	entry := el.Value.(*Entry)
	if time.Since(entry.addedAt) > c.ttl {
		c.remove(el)
		return nil, false
	}
	c.lruList.MoveToFront(el)
	return entry, true
}

// GetByURL returns the entry for a URL, if cached and fresh.
func (c *ArticleCache) GetByURL(url string) (*Entry, bool) {
	c.mu.Lock()
	id, ok := c.byURL[urlutil.Canonical(url)]
	c.mu.Unlock()
	if !ok {
		return nil, false
	}
	return c.Get(id)
}

// List returns all live entries in ascending ID order.
func (c *ArticleCache) List() []*Entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries := make([]*Entry, 0, c.lruList.Len())
	now := time.Now()
	for el := c.lruList.Front(); el != nil; el = el.Next() {
		entry := el.Value.(*Entry)
		if now.Sub(entry.addedAt) <= c.ttl {
			entries = append(entries, entry)
		}
	}
	for i := 0; i < len(entries); i++ {
		for j := i + 1; j < len(entries); j++ {
			if entries[j].ID < entries[i].ID {
				entries[i], entries[j] = entries[j], entries[i]
			}
		}
	}
	return entries
}

// Len returns the number of stored entries, expired or not.
func (c *ArticleCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lruList.Len()
}

// Close stops the background sweep.
func (c *ArticleCache) Close() {
	c.closeOnce.Do(func() { close(c.done) })
}

func (c *ArticleCache) evictOldest() {
	el := c.lruList.Back()
	if el == nil {
		return
	}
	entry := el.Value.(*Entry)
	c.remove(el)
	log.Debug().Int("id", entry.ID).Msg("Evicted cache entry (LRU)")
}

func (c *ArticleCache) remove(el *list.Element) {
	entry := el.Value.(*Entry)
	c.lruList.Remove(el)
	delete(c.byID, entry.ID)
	delete(c.byURL, entry.URL)
}

func (c *ArticleCache) sweep() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.mu.Lock()
			now := time.Now()
			var next *list.Element
			for el := c.lruList.Front(); el != nil; el = next {
				next = el.Next()
				if now.Sub(el.Value.(*Entry).addedAt) > c.ttl {
					c.remove(el)
				}
			}
			c.mu.Unlock()
		case <-c.done:
			return
		}
	}
}
