// Package loader implements incremental paginated collections: load the
// first page for a query, load further pages on demand, and start over
// whenever the active query changes.
//
// A Loader combines three parts:
//
//   - Store holds the items and page metadata and is the only thing that
//     mutates them.
//   - Controller tracks the active query and locale and decides when the
//     collection must be reset.
//   - Loader sequences first-page and next-page fetches through a Fetcher,
//     rejecting overlapping requests and discarding results that arrive
//     after their query was superseded.
package loader
