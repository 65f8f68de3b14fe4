// Package readcache caches readability results by page URL.
package readcache

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/net/idna"
)

// DefaultSize is the capacity of the shared cache.
const DefaultSize = 64

var ErrInvalidURL = errors.New("invalid url")

// Result is the content extracted from a page.
type Result struct {
	Title   string `json:"title"`
	Byline  string `json:"byline"`
	Excerpt string `json:"excerpt"`
	Content string `json:"content"`
}

// Entry is a cached extraction: a result, or the reason it failed.
type Entry struct {
	Result *Result `json:"result,omitempty"`
	Err    string  `json:"error,omitempty"`
}

// Failed reports whether the extraction failed.
func (e Entry) Failed() bool {
	return e.Err != ""
}

// Cache stores extraction results keyed by page URL.
type Cache interface {
	Get(url string) (Entry, bool)
	Put(url string, r *Result, err error)
}

// LRU is a Cache that evicts the least recently used page. It is safe for
// concurrent use; concurrent puts for one page keep the last one.
type LRU struct {
	cache *lru.Cache
}

// NewLRU returns a cache holding up to size pages.
func NewLRU(size int) (*LRU, error) {
	c, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("readcache: %w", err)
	}

	return &LRU{cache: c}, nil
}

// Get returns the entry cached for rawURL.
func (c *LRU) Get(rawURL string) (Entry, bool) {
	key, err := Normalize(rawURL)
	if err != nil {
		return Entry{}, false
	}

	v, ok := c.cache.Get(key)
	if !ok {
		return Entry{}, false
	}

	return v.(Entry), true
}

// Put caches r, or err when the extraction failed. URLs that cannot be
// normalized are not cached.
func (c *LRU) Put(rawURL string, r *Result, err error) {
	key, nerr := Normalize(rawURL)
	if nerr != nil {
		slog.Debug("readcache: skipping url", "url", rawURL, "error", nerr)
		return
	}

	e := Entry{Result: r}
	if err != nil {
		e = Entry{Err: err.Error()}
	}

	c.cache.Add(key, e)
}

// Len returns the number of cached pages.
func (c *LRU) Len() int {
	return c.cache.Len()
}

// Purge empties the cache.
func (c *LRU) Purge() {
	c.cache.Purge()
}

// Normalize returns the cache key for rawURL: lowercase scheme and host,
// ASCII host, no default port and no fragment.
func Normalize(rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}

	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}

	u.Scheme = strings.ToLower(u.Scheme)
	host := strings.ToLower(u.Hostname())
	if net.ParseIP(host) == nil {
		if host, err = idna.Lookup.ToASCII(host); err != nil {
			return "", fmt.Errorf("%w: %w", ErrInvalidURL, err)
		}
	}

	port := u.Port()
	if (u.Scheme == "http" && port == "80") || (u.Scheme == "https" && port == "443") {
		port = ""
	}

	switch {
	case port != "":
		host = net.JoinHostPort(host, port)
	case strings.Contains(host, ":"):
		// IPv6 literal
		host = "[" + host + "]"
	}

	u.Host = host
	u.Fragment = ""
	u.RawFragment = ""
	if u.Path == "" {
		u.Path = "/"
	}

	return u.String(), nil
}

var (
	sharedOnce sync.Once
	shared     *LRU
	sharedSize = DefaultSize
)

// SetSharedSize sets the capacity of the shared cache. It has no effect once
// Shared has been called.
func SetSharedSize(n int) {
	if n > 0 {
		sharedSize = n
	}
}

// Shared returns the process-wide cache.
func Shared() *LRU {
	sharedOnce.Do(func() {
		c, err := NewLRU(sharedSize)
		if err != nil {
			panic(err.Error()) // only errors on size <= 0
		}
		shared = c
	})

	return shared
}
