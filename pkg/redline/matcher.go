package redline

import (
	"context"
	"fmt"
	"hash/fnv"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Matcher decides cross-document correspondence: which target paragraph a
// revision record belongs to, and how its text maps onto that paragraph. The
// projection engine treats it as a black box; implementations may use
// embeddings, LLM prompting, or plain lexical matching.
type Matcher interface {
	// AlignParagraph resolves the target paragraph corresponding to the
	// record's source paragraph and returns its index into candidates. A
	// failure to find an acceptable candidate is reported as a MatchError.
	AlignParagraph(ctx context.Context, rec *RevisionRecord, candidates []string) (int, error)

	// ResolveInsertion produces the replacement text for an insertion record
	// and the character offset inside the target paragraph's current text
	// where it belongs.
	ResolveInsertion(ctx context.Context, rec *RevisionRecord, targetText string) (string, int, error)

	// ResolveDeletion produces the exact substring of the target paragraph's
	// current text that corresponds to the record's deleted text.
	ResolveDeletion(ctx context.Context, rec *RevisionRecord, targetText string) (string, error)
}

// AvailabilityProber is implemented by matchers that can check their backend
// before a run begins. An unavailable backend is a fatal configuration
// error, surfaced before any mutation.
type AvailabilityProber interface {
	Available(ctx context.Context) error
}

// cachedMatcher memoizes paragraph alignment results. Alignment is the one
// matcher call repeated with identical inputs (every record in a source
// paragraph aligns the same context), and it is also the most expensive.
type cachedMatcher struct {
	Matcher
	cache *lru.Cache[string, int]
}

// NewCachedMatcher wraps a matcher with an LRU cache over paragraph
// alignment. Resolution calls pass through uncached.
func NewCachedMatcher(m Matcher, size int) (Matcher, error) {
	cache, err := lru.New[string, int](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create alignment cache: %w", err)
	}
	return &cachedMatcher{Matcher: m, cache: cache}, nil
}

func (c *cachedMatcher) AlignParagraph(ctx context.Context, rec *RevisionRecord, candidates []string) (int, error) {
	key := alignKey(rec, candidates)
	if idx, ok := c.cache.Get(key); ok {
		return idx, nil
	}

	idx, err := c.Matcher.AlignParagraph(ctx, rec, candidates)
	if err != nil {
		return 0, err
	}
	c.cache.Add(key, idx)
	return idx, nil
}

func (c *cachedMatcher) Available(ctx context.Context) error {
	if p, ok := c.Matcher.(AvailabilityProber); ok {
		return p.Available(ctx)
	}
	return nil
}

// alignKey identifies an alignment query: the record's source context plus
// the candidate set it was asked against.
func alignKey(rec *RevisionRecord, candidates []string) string {
	h := fnv.New64a()
	h.Write([]byte(rec.OriginalContext))
	h.Write([]byte{0})
	for _, c := range candidates {
		h.Write([]byte(c))
		h.Write([]byte{0})
	}
	return fmt.Sprintf("%x", h.Sum64())
}
