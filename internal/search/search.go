// Package search composes ranked full-text retrieval with structured
// filters over the command history.
package search

import (
	"strings"

	"github.com/recall-sh/recall/internal/store"
)

// Options holds a free-text query plus structured predicates applied
// after the ranked fetch.
type Options struct {
	Query      string
	Repo       string // exact git_repo match
	Dir        string // cwd substring match
	FailedOnly bool   // keep only commands with a known non-zero exit code
	Limit      int
}

// DefaultLimit is used when Options.Limit is unset.
const DefaultLimit = 50

// overfetchFactor compensates for post-filter attrition: the ranked
// query fetches limit*overfetchFactor rows before predicates run.
const overfetchFactor = 2

// Search runs the ranked FTS query, applies the structured predicates in
// memory, and truncates to the limit. Rank order from the index is
// preserved.
func Search(s *store.Store, opts Options) ([]store.SearchResult, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	results, err := s.SearchCommands(opts.Query, limit*overfetchFactor)
	if err != nil {
		return nil, err
	}

	filtered := results[:0]
	for _, r := range results {
		if !keep(&r.Command, opts) {
			continue
		}
		filtered = append(filtered, r)
	}
	if len(filtered) > limit {
		filtered = filtered[:limit]
	}
	return filtered, nil
}

// Recent returns the most recent commands unranked. The Q&A context
// builder uses this to backfill candidates beyond keyword hits.
func Recent(s *store.Store, limit int) ([]store.Command, error) {
	return s.RecentCommands(limit)
}

func keep(c *store.Command, opts Options) bool {
	if opts.FailedOnly && !c.Failed() {
		return false
	}
	if opts.Repo != "" {
		if c.GitRepo == nil || *c.GitRepo != opts.Repo {
			return false
		}
	}
	if opts.Dir != "" {
		if c.Cwd == nil || !strings.Contains(*c.Cwd, opts.Dir) {
			return false
		}
	}
	return true
}
