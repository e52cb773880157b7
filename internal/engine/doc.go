// Package engine turns stories into chronologically ordered event streams.
//
// Generation is eager and single-threaded: every flattened event spec is
// expanded into its occurrences, each occurrence has its data rules resolved
// and its payload validated, and the result is pushed onto a min-heap keyed by
// timestamp. Only when every event has been produced is a Stream returned, so
// a failure anywhere yields no events at all.
//
// Ordering:
//
// Events are ordered by timestamp instant. Events with equal timestamps keep
// generation order (flattened spec order, then repetition index), tracked by
// a push counter on the queue. Identical inputs and seeds produce identical streams.
//
// Errors:
//
// Generation failures are *GenerateError values wrapping the underlying
// typed error. Classify maps any error to an ErrorKind; the Is* helpers test
// a single kind through wrapping.
//
// An Engine owns its schema registry, rule interpreter and metrics and is not
// safe for concurrent use. Separate engines are independent.
package engine
