package cache

import (
	"encoding/json"
	"time"
)

// snapshotEntry is the serialized form of one entry. Articles are not
// persisted; a restored entry holds metadata only until re-retrieved.
type snapshotEntry struct {
	ID      int       `json:"id"`
	URL     string    `json:"url"`
	Title   string    `json:"title,omitempty"`
	Source  string    `json:"source,omitempty"`
	AddedAt time.Time `json:"added_at"`
}

// Snapshot serializes the live entries so the ID assignments survive
// between CLI invocations.
func (c *ArticleCache) Snapshot() ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	entries := make([]snapshotEntry, 0, c.lruList.Len())
	for el := c.lruList.Back(); el != nil; el = el.Prev() {
		entry := el.Value.(*Entry)
		if now.Sub(entry.addedAt) > c.ttl {
			continue
		}
		entries = append(entries, snapshotEntry{
			ID:      entry.ID,
			URL:     entry.URL,
			Title:   entry.Title,
			Source:  entry.Source,
			AddedAt: entry.addedAt,
		})
	}
	return json.Marshal(entries)
}

// Restore loads a snapshot into an empty cache, keeping the original IDs
// and TTL clocks. Entries already expired are skipped.
func (c *ArticleCache) Restore(data []byte) error {
	var entries []snapshotEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for _, se := range entries {
		if now.Sub(se.AddedAt) > c.ttl {
			continue
		}
		if _, exists := c.byURL[se.URL]; exists {
			continue
		}
		for c.lruList.Len() >= c.maxSize {
			c.evictOldest()
		}
		entry := &Entry{
			ID:      se.ID,
			URL:     se.URL,
			Title:   se.Title,
			Source:  se.Source,
			addedAt: se.AddedAt,
		}
		el := c.lruList.PushFront(entry)
		c.byID[se.ID] = el
		c.byURL[se.URL] = se.ID
		if se.ID >= c.nextID {
			c.nextID = se.ID + 1
		}
	}
	return nil
}
