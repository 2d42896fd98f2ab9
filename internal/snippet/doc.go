// Package snippet holds the snippet records loaded for one session.
//
// A Store is built once from loader entries and never mutated afterwards.
// It keeps snippets in load order, which the match engine relies on for
// stable tie-breaking, alongside a name index for direct lookup.
//
// # Duplicate names
//
// Names are unique within a store. What happens when a source repeats a
// name is decided by the DuplicatePolicy passed to Load:
//
//   - Reject: loading fails with a *LoadError wrapping *DuplicateNameError.
//   - Overwrite: the later entry replaces the earlier one, keeping the
//     earlier entry's position in the load order.
//
// There is no third behavior. A store built under Overwrite never reports
// duplicates; a store built under Reject never contains a replaced entry.
//
// # Thread Safety
//
// A Store is read-only after Load and may be shared between goroutines.
package snippet
