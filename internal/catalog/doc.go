// Package catalog coordinates the product list state: the current page,
// the active filters, and the fetch that serves them.
//
// # State and URL
//
// The controller hydrates page and filters from the address bar once, at
// construction, and from then on the synchronization is one-way: every
// state change rebuilds the query string from scratch (recognized keys
// only) and pushes it. Unrecognized parameters present at startup are
// dropped on the first push. This avoids the feedback loops of a
// bidirectional binding.
//
// # Fetching
//
// Each (page, pageSize, filters) tuple derives a stable query key that
// addresses the fetch cache. A fetch in flight for a key that is no
// longer current is discarded when it resolves: the controller compares
// a generation counter taken when the fetch started against the current
// one before applying the result. Last-requested-key wins, not
// last-to-resolve.
//
// # Errors
//
// Fetch failures surface as Status/Err on the snapshot; no stale product
// data is kept alongside an error. The fetch cache applies a single
// retry; the controller adds no policy of its own.
package catalog
