// Package match ranks snippets against an incremental search query.
//
// # Matching
//
// The query is case-folded and split on whitespace into tokens. A snippet
// matches when every token is a substring of at least one of its fields:
// name, tags, language and (optionally) body. Tokens may be satisfied by
// different fields; the check runs over the union, not per field.
//
// # Ranking
//
// Results are totally ordered by, in turn:
//
//  1. the number of tokens found in the name, descending;
//  2. name coverage, the share of the name's runes covered by those
//     token occurrences, descending (for "gree", "greet" beats "greet2");
//  3. Score, descending, where each token adds the weight of the best
//     field it was found in (name 100, tag 10, body 1 by default);
//  4. load order, ascending.
//
// An empty query returns every snippet in load order with score 0.
//
// # Caching
//
// Fields are folded once when the Engine is built. Ranked lists are kept in
// an LRU keyed by the normalized query, which stays valid because the store
// never changes during a session.
package match
