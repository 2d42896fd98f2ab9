package snippet

import (
	"sort"
	"strings"
)

// Store is an ordered, name-indexed set of snippets.
type Store struct {
	snippets []Snippet
	byName   map[string]int
}

// Load builds a store from entries in order, applying policy to repeated
// names. Every failure is returned as a *LoadError.
func Load(entries []Entry, policy DuplicatePolicy) (*Store, error) {
	s := &Store{
		snippets: make([]Snippet, 0, len(entries)),
		byName:   make(map[string]int, len(entries)),
	}

	// firstEntry remembers the entry index that claimed each name so
	// duplicate errors point at source positions, not store positions.
	firstEntry := make(map[string]int, len(entries))

	for i, e := range entries {
		if strings.TrimSpace(e.Name) == "" {
			return nil, &LoadError{Index: i, Err: ErrEmptyName}
		}

		sn := Snippet{
			Name:     e.Name,
			Body:     e.Body,
			Tags:     normalizeTags(e.Tags),
			Language: strings.TrimSpace(e.Language),
		}

		if pos, exists := s.byName[e.Name]; exists {
			if policy != Overwrite {
				return nil, &LoadError{
					Index: i,
					Name:  e.Name,
					Err: &DuplicateNameError{
						Name:   e.Name,
						First:  firstEntry[e.Name],
						Second: i,
					},
				}
			}
			s.snippets[pos] = sn
			continue
		}

		firstEntry[e.Name] = i
		s.byName[e.Name] = len(s.snippets)
		s.snippets = append(s.snippets, sn)
	}

	return s, nil
}

// All returns the snippets in load order. The returned slice is a copy;
// the snippets' Tags slices are shared and must not be modified.
func (s *Store) All() []Snippet {
	out := make([]Snippet, len(s.snippets))
	copy(out, s.snippets)
	return out
}

// At returns the snippet at load position i.
func (s *Store) At(i int) Snippet {
	return s.snippets[i]
}

// Get returns the snippet with the given name.
func (s *Store) Get(name string) (Snippet, error) {
	i, ok := s.byName[name]
	if !ok {
		return Snippet{}, ErrNotFound
	}
	return s.snippets[i], nil
}

// Has reports whether a snippet with the given name exists.
func (s *Store) Has(name string) bool {
	_, ok := s.byName[name]
	return ok
}

// Len returns the number of snippets.
func (s *Store) Len() int {
	return len(s.snippets)
}

// Languages returns the distinct non-empty languages, lower-cased and sorted.
func (s *Store) Languages() []string {
	seen := make(map[string]struct{})
	for _, sn := range s.snippets {
		if sn.Language == "" {
			continue
		}
		seen[strings.ToLower(sn.Language)] = struct{}{}
	}

	langs := make([]string, 0, len(seen))
	for l := range seen {
		langs = append(langs, l)
	}
	sort.Strings(langs)
	return langs
}

// CountByLanguage returns how many snippets carry each language.
// Snippets without a language are not counted.
func (s *Store) CountByLanguage() map[string]int {
	counts := make(map[string]int)
	for _, sn := range s.snippets {
		if sn.Language == "" {
			continue
		}
		counts[strings.ToLower(sn.Language)]++
	}
	return counts
}

// FilterLanguage returns a store holding only snippets of the given
// language, in their original order. An empty language or "all" returns
// the receiver itself.
func (s *Store) FilterLanguage(lang string) *Store {
	lang = strings.TrimSpace(lang)
	if lang == "" || strings.EqualFold(lang, "all") {
		return s
	}

	out := &Store{byName: make(map[string]int)}
	for _, sn := range s.snippets {
		if !strings.EqualFold(sn.Language, lang) {
			continue
		}
		out.byName[sn.Name] = len(out.snippets)
		out.snippets = append(out.snippets, sn)
	}
	return out
}
