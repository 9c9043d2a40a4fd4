package domain

import "time"

// Corpus is the full ordered collection of endpoint records plus load
// metadata. It is immutable after construction and replaced wholesale on
// reload; nothing mutates it in place.
type Corpus struct {
	BaseURL   string
	Endpoints []Endpoint
	ScrapedAt time.Time
	// Skipped counts malformed entries dropped during load.
	Skipped int
}

// Len returns the number of endpoint records.
func (c *Corpus) Len() int { return len(c.Endpoints) }
