package match

import (
	"sort"
	"strings"
	"unicode/utf8"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/text/cases"

	"github.com/dshills/snipvault/internal/snippet"
)

// Span is a half-open rune range [Start, End) within a snippet name.
type Span struct {
	Start int
	End   int
}

// Result is one ranked candidate.
type Result struct {
	// Snippet is the matched record.
	Snippet snippet.Snippet

	// Index is the snippet's load position in the store.
	Index int

	// Score is the weighted token score (higher is better).
	Score int

	// NameTokens counts query tokens found in the name.
	NameTokens int

	// Covered is the number of name runes covered by name-token matches.
	Covered int

	// NameLen is the rune length of the folded name.
	NameLen int

	// Spans are the merged name ranges to highlight. Nil when the name
	// could not be mapped back rune-for-rune after case folding.
	Spans []Span
}

// Weights sets how much a token is worth depending on where it was found.
type Weights struct {
	Name int
	Tag  int
	Body int
}

// DefaultWeights returns the default field weights.
func DefaultWeights() Weights {
	return Weights{Name: 100, Tag: 10, Body: 1}
}

// Options configures an Engine.
type Options struct {
	// SearchBody includes snippet bodies in the searchable surface.
	SearchBody bool

	// CacheSize is the number of ranked query results kept.
	// Set to 0 to disable caching.
	CacheSize int

	// Weights scores tokens by field.
	Weights Weights
}

// DefaultOptions returns sensible default options.
func DefaultOptions() Options {
	return Options{
		SearchBody: true,
		CacheSize:  256,
		Weights:    DefaultWeights(),
	}
}

// indexed is a snippet with its fields folded once.
type indexed struct {
	snippet  snippet.Snippet
	name     string
	nameLen  int
	spansOK  bool
	labels   []string
	body     string
	position int
}

// Engine matches queries against one store. Match is deterministic: the
// same query always yields the same ordered results.
type Engine struct {
	items []indexed
	opts  Options
	cache *lru.Cache[string, []Result]
}

// NewEngine indexes store for matching.
func NewEngine(store *snippet.Store, opts Options) *Engine {
	fold := cases.Fold()
	all := store.All()

	e := &Engine{
		items: make([]indexed, len(all)),
		opts:  opts,
	}

	for i, sn := range all {
		name := fold.String(sn.Name)
		it := indexed{
			snippet:  sn,
			name:     name,
			nameLen:  utf8.RuneCountInString(name),
			position: i,
		}
		it.spansOK = it.nameLen == utf8.RuneCountInString(sn.Name)

		for _, tag := range sn.Tags {
			it.labels = append(it.labels, fold.String(tag))
		}
		if sn.Language != "" {
			it.labels = append(it.labels, fold.String(sn.Language))
		}
		if opts.SearchBody {
			it.body = fold.String(sn.Body)
		}
		e.items[i] = it
	}

	if opts.CacheSize > 0 {
		// lru.New only fails for a non-positive size.
		e.cache, _ = lru.New[string, []Result](opts.CacheSize)
	}

	return e
}

// Len returns the number of indexed snippets.
func (e *Engine) Len() int {
	return len(e.items)
}

// Match returns the snippets matching query in rank order. The result is
// never nil; no match yields an empty slice.
func (e *Engine) Match(query string) []Result {
	tokens := Tokenize(query)
	if len(tokens) == 0 {
		return e.all()
	}

	key := strings.Join(tokens, " ")
	if e.cache != nil {
		if cached, ok := e.cache.Get(key); ok {
			return cloneResults(cached)
		}
	}

	results := make([]Result, 0)
	for i := range e.items {
		if r, ok := e.matchItem(&e.items[i], tokens); ok {
			results = append(results, r)
		}
	}

	sort.Slice(results, func(i, j int) bool {
		return Less(results[i], results[j])
	})

	if e.cache != nil {
		e.cache.Add(key, cloneResults(results))
	}

	return results
}

// ClearCache drops cached results.
func (e *Engine) ClearCache() {
	if e.cache != nil {
		e.cache.Purge()
	}
}

// Tokenize folds query and splits it on whitespace.
func Tokenize(query string) []string {
	return strings.Fields(cases.Fold().String(query))
}

// Less reports whether a ranks before b.
func Less(a, b Result) bool {
	if a.NameTokens != b.NameTokens {
		return a.NameTokens > b.NameTokens
	}

	// Compare Covered/NameLen without floating point.
	lhs := a.Covered * b.NameLen
	rhs := b.Covered * a.NameLen
	if lhs != rhs {
		return lhs > rhs
	}

	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.Index < b.Index
}

// all returns every snippet in load order with zero score.
func (e *Engine) all() []Result {
	results := make([]Result, len(e.items))
	for i, it := range e.items {
		results[i] = Result{
			Snippet: it.snippet,
			Index:   it.position,
			NameLen: it.nameLen,
		}
	}
	return results
}

// matchItem checks every token against the item's fields, rejecting as soon
// as one token is found nowhere.
func (e *Engine) matchItem(it *indexed, tokens []string) (Result, bool) {
	var (
		nameTokens, tagTokens, bodyTokens int
		hits                              []Span
	)

	for _, tok := range tokens {
		if idx := strings.Index(it.name, tok); idx >= 0 {
			nameTokens++
			hits = append(hits, Span{Start: idx, End: idx + len(tok)})
			continue
		}
		if containsAny(it.labels, tok) {
			tagTokens++
			continue
		}
		if e.opts.SearchBody && strings.Contains(it.body, tok) {
			bodyTokens++
			continue
		}
		return Result{}, false
	}

	w := e.opts.Weights
	r := Result{
		Snippet:    it.snippet,
		Index:      it.position,
		Score:      nameTokens*w.Name + tagTokens*w.Tag + bodyTokens*w.Body,
		NameTokens: nameTokens,
		NameLen:    it.nameLen,
	}

	if len(hits) > 0 {
		spans := runeSpans(it.name, mergeSpans(hits))
		for _, sp := range spans {
			r.Covered += sp.End - sp.Start
		}
		if it.spansOK {
			r.Spans = spans
		}
	}

	return r, true
}

func containsAny(fields []string, tok string) bool {
	for _, f := range fields {
		if strings.Contains(f, tok) {
			return true
		}
	}
	return false
}

// mergeSpans sorts byte spans and joins overlapping or touching ones.
func mergeSpans(spans []Span) []Span {
	sort.Slice(spans, func(i, j int) bool {
		if spans[i].Start != spans[j].Start {
			return spans[i].Start < spans[j].Start
		}
		return spans[i].End < spans[j].End
	})

	merged := make([]Span, 1, len(spans))
	merged[0] = spans[0]
	for _, sp := range spans[1:] {
		last := &merged[len(merged)-1]
		if sp.Start <= last.End {
			if sp.End > last.End {
				last.End = sp.End
			}
			continue
		}
		merged = append(merged, sp)
	}
	return merged
}

// runeSpans converts byte spans in s to rune spans.
func runeSpans(s string, spans []Span) []Span {
	out := make([]Span, len(spans))
	for i, sp := range spans {
		start := utf8.RuneCountInString(s[:sp.Start])
		out[i] = Span{
			Start: start,
			End:   start + utf8.RuneCountInString(s[sp.Start:sp.End]),
		}
	}
	return out
}

// cloneResults copies the result slice. Spans are never mutated after
// matching and are shared.
func cloneResults(results []Result) []Result {
	out := make([]Result, len(results))
	copy(out, results)
	return out
}
