package usecase

import (
	"context"
	"strings"
	"sync"
	"time"

	"mercadillo/internal/domain/entity"
)

// SearchResult is delivered on the results channel once a debounced query
// settles and completes.
type SearchResult struct {
	Term     string
	Products []entity.Product
	Err      error
}

// Searcher debounces keystrokes before hitting the product search endpoint.
// Keystrokes inside the debounce interval reset the timer, so each settled
// pause yields at most one query; input shorter than the minimum length
// never fires. Results for superseded input are dropped.
//
// The query function goes through the catalog listing path, so search and
// browsing share one envelope normalization.
type Searcher struct {
	query    func(ctx context.Context, term string) ([]entity.Product, error)
	debounce time.Duration
	minLen   int
	maxHits  int

	mu    sync.Mutex
	timer *time.Timer
	gen   int

	results chan SearchResult
}

func NewSearcher(catalog *Catalog, debounce time.Duration, minLen, maxHits int) *Searcher {
	return &Searcher{
		query: func(ctx context.Context, term string) ([]entity.Product, error) {
			list, err := catalog.Products(ctx, map[string]string{"search": term})
			if err != nil {
				return nil, err
			}
			return list.Products, nil
		},
		debounce: debounce,
		minLen:   minLen,
		maxHits:  maxHits,
		results:  make(chan SearchResult, 1),
	}
}

// newSearcherFunc is the test seam: same machinery, direct query function.
func newSearcherFunc(query func(ctx context.Context, term string) ([]entity.Product, error), debounce time.Duration, minLen, maxHits int) *Searcher {
	return &Searcher{
		query:    query,
		debounce: debounce,
		minLen:   minLen,
		maxHits:  maxHits,
		results:  make(chan SearchResult, 1),
	}
}

// Results delivers at most the latest settled search; an unread stale
// result is replaced rather than queued.
func (s *Searcher) Results() <-chan SearchResult {
	return s.results
}

// Input registers the current state of the search box after a keystroke.
func (s *Searcher) Input(term string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	gen := s.gen

	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}

	trimmed := strings.TrimSpace(term)
	if len([]rune(trimmed)) < s.minLen {
		return
	}

	s.timer = time.AfterFunc(s.debounce, func() {
		s.run(gen, trimmed)
	})
}

func (s *Searcher) run(gen int, term string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	products, err := s.query(ctx, term)

	s.mu.Lock()
	superseded := gen != s.gen
	s.mu.Unlock()
	if superseded {
		return
	}

	if err == nil && s.maxHits > 0 && len(products) > s.maxHits {
		products = products[:s.maxHits]
	}

	result := SearchResult{Term: term, Products: products, Err: err}
	for {
		select {
		case s.results <- result:
			return
		default:
			// Replace an unread stale result with the fresh one.
			select {
			case <-s.results:
			default:
			}
		}
	}
}

// Search runs the query immediately (the submit path), bypassing the
// debounce but keeping the minimum-length rule.
func (s *Searcher) Search(ctx context.Context, term string) ([]entity.Product, error) {
	trimmed := strings.TrimSpace(term)
	if len([]rune(trimmed)) < s.minLen {
		return nil, nil
	}
	return s.query(ctx, trimmed)
}
