package server

import (
	"context"
	"math/rand/v2"
	"net/http"

	"golang.org/x/sync/errgroup"

	"perplexica/internal/searxng"
)

// Searcher runs web searches
type Searcher interface {
	Search(ctx context.Context, query string, opts searxng.Options) (*searxng.Response, error)
}

// discoverQueries feed the discover page with business news
var discoverQueries = []string{
	"site:businessinsider.com business",
	"site:www.exchangewire.com business",
	"site:yahoo.com business",
}

// handleDiscover merges the results of all discover queries in random order
func (s *Server) handleDiscover(w http.ResponseWriter, r *http.Request) {
	opts := searxng.Options{Engines: []string{"bing news"}, PageNo: 1}

	results := make([][]searxng.Result, len(discoverQueries))
	g, ctx := errgroup.WithContext(r.Context())
	for i, query := range discoverQueries {
		g.Go(func() error {
			resp, err := s.search.Search(ctx, query, opts)
			if err != nil {
				return err
			}
			results[i] = resp.Results
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.log.Error().Err(err).Msg("Error in discover route")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "An error has occurred"})
		return
	}

	blogs := []searxng.Result{}
	for _, rs := range results {
		blogs = append(blogs, rs...)
	}
	rand.Shuffle(len(blogs), func(i, j int) { blogs[i], blogs[j] = blogs[j], blogs[i] })

	writeJSON(w, http.StatusOK, map[string]interface{}{"blogs": blogs})
}
