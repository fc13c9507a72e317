package runner

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"unicode"

	"github.com/semmy-space/walletrunner/internal/wallet"
)

const icon = "wallet"

// Resolver turns a raw query into matches. It keeps no state between
// calls apart from moving the store's folder cursor.
type Resolver struct {
	prefix string
	marker *regexp.Regexp
	logger *slog.Logger
}

// NewResolver creates a resolver for the given search prefix and add marker.
// An empty prefix or marker disables that query form.
func NewResolver(prefix, marker string, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	r := &Resolver{prefix: prefix, logger: logger}
	if marker != "" {
		// The marker must be the last whitespace-delimited token.
		r.marker = regexp.MustCompile(`(?:^|\s)` + regexp.QuoteMeta(marker) + `\s*$`)
	}
	return r
}

// SearchTerm extracts the search term from a "<prefix> <term>" query.
// ok is false when the query is not a search; a bare prefix with no
// trailing whitespace is not a search.
func (r *Resolver) SearchTerm(query string) (term string, ok bool) {
	if r.prefix == "" {
		return "", false
	}

	q := strings.TrimLeftFunc(query, unicode.IsSpace)
	i := strings.IndexFunc(q, unicode.IsSpace)
	if i < 0 {
		return "", false
	}
	if !strings.EqualFold(q[:i], r.prefix) {
		return "", false
	}
	return strings.TrimSpace(q[i:]), true
}

// AddName extracts the proposed entry name from a "<name> <marker>" query.
// The name is empty when only the marker (or whitespace) remains.
func (r *Resolver) AddName(query string) (name string, ok bool) {
	if r.marker == nil {
		return "", false
	}

	loc := r.marker.FindStringIndex(query)
	if loc == nil {
		return "", false
	}
	return strings.TrimSpace(query[:loc[0]]), true
}

// Resolve returns search matches in store order followed by at most one
// add/edit helper match. The store must be available.
func (r *Resolver) Resolve(query string, store Store) []Match {
	var matches []Match

	if term, ok := r.SearchTerm(query); ok {
		matches = append(matches, r.search(term, store)...)
	}

	if name, ok := r.AddName(query); ok {
		matches = append(matches, r.helper(name, store))
	}

	return matches
}

func (r *Resolver) search(term string, store Store) []Match {
	folders, err := store.FolderList()
	if err != nil {
		r.logger.Warn("folder list unreadable", "error", err)
		return nil
	}

	needle := strings.ToLower(term)
	var matches []Match

	for _, folder := range folders {
		if err := store.SetFolder(folder); err != nil {
			r.logger.Warn("skipping folder", "folder", folder, "error", err)
			continue
		}

		entries, err := store.EntryList()
		if err != nil {
			r.logger.Warn("skipping folder", "folder", folder, "error", err)
			continue
		}

		for _, entry := range entries {
			if needle != "" && !strings.Contains(strings.ToLower(entry), needle) {
				continue
			}
			matches = append(matches, Match{
				Kind:      KindEntry,
				Relevance: RelevanceExact,
				Text:      entry,
				Subtext:   folder,
				Icon:      icon,
				Entry:     entry,
				Folder:    folder,
			})
		}
	}

	r.logger.Debug("search resolved", "term", term, "matches", len(matches))
	return matches
}

// helper builds the single add or edit match. Existence is checked in the
// default folder only.
func (r *Resolver) helper(name string, store Store) Match {
	exists := false
	if name != "" {
		if err := store.SetFolder(wallet.DefaultFolder); err != nil {
			r.logger.Warn("default folder unreadable", "error", err)
		} else {
			exists = store.HasEntry(name)
		}
	}

	m := Match{
		Kind:      KindAdd,
		Relevance: RelevanceHelper,
		Icon:      icon,
		Folder:    wallet.DefaultFolder,
		Seed:      name,
	}
	switch {
	case exists:
		m.Kind = KindEdit
		m.Text = fmt.Sprintf("Edit entry for %s", name)
	case name != "":
		m.Text = fmt.Sprintf("Add entry for %s", name)
	default:
		m.Text = "Add entry"
	}
	return m
}
