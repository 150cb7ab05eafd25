package baseline

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

// folder performs Unicode case folding so that "CSS", "css" and "Css"
// queries match identically.
var folder = cases.Fold()

// SearchFeatures returns every dataset entry whose id, name or description
// contains the query, case-insensitively, ordered by id. An empty query or
// an uninitialized service yields an empty, fully materialized slice.
// Results are cached per folded query until ClearCache.
func (s *Service) SearchFeatures(query string) []Feature {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	folded := folder.String(query)

	s.cacheMu.RLock()
	cached, hit := s.searchCache[folded]
	s.cacheMu.RUnlock()
	if hit {
		return cached
	}

	s.mu.RLock()
	if !s.initialized {
		// Nothing loaded yet; do not cache, or this query would keep
		// answering empty after Initialize.
		s.mu.RUnlock()
		return nil
	}
	var matches []Feature
	for _, id := range s.order {
		f := s.features[id]
		if strings.Contains(folder.String(f.ID), folded) ||
			strings.Contains(folder.String(f.Name), folded) ||
			strings.Contains(folder.String(f.Description), folded) {
			matches = append(matches, *f)
		}
	}
	s.mu.RUnlock()

	sort.Slice(matches, func(i, j int) bool { return matches[i].ID < matches[j].ID })

	s.cacheMu.Lock()
	s.searchCache[folded] = matches
	s.cacheMu.Unlock()
	return matches
}
