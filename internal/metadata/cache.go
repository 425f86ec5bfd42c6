package metadata

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

type cachedRead struct {
	md  *TypeMetadata
	err error
}

// CachingReader memoizes a delegate Reader. Misses are cached too, so a
// missing type is looked up once per TTL.
type CachingReader struct {
	delegate Reader
	cache    *gocache.Cache
}

// NewCachingReader wraps delegate. A ttl of zero keeps entries until Clear.
func NewCachingReader(delegate Reader, ttl time.Duration) *CachingReader {
	exp := ttl
	cleanup := 2 * ttl
	if ttl <= 0 {
		exp = gocache.NoExpiration
		cleanup = 0
	}
	return &CachingReader{delegate: delegate, cache: gocache.New(exp, cleanup)}
}

// Read implements Reader.
func (r *CachingReader) Read(typeName string) (*TypeMetadata, error) {
	if v, ok := r.cache.Get(typeName); ok {
		hit := v.(cachedRead)
		return hit.md, hit.err
	}
	md, err := r.delegate.Read(typeName)
	r.cache.Set(typeName, cachedRead{md: md, err: err}, gocache.DefaultExpiration)
	return md, err
}

// Types implements Lister when the delegate does.
func (r *CachingReader) Types(pkgPrefix string) []*TypeMetadata {
	if l, ok := r.delegate.(Lister); ok {
		return l.Types(pkgPrefix)
	}
	return nil
}

// Clear drops every cached entry.
func (r *CachingReader) Clear() {
	r.cache.Flush()
}

// Len returns the number of cached entries.
func (r *CachingReader) Len() int {
	return r.cache.ItemCount()
}
