// Package sync fetches the media library and turns it into a publishable snapshot.
//
// The Manager performs one full fetch per call: it asks the configured
// sources.LibrarySource for the whole library, validates the result, and stamps
// it with a completion time and content hash. A sync either yields a complete
// snapshot or a structured *Error; there are no partial results.
//
// Scheduling, the single-flight gate and the rest of a cycle (publishing,
// evaluation, notifications) live in the coordinator subpackage.
package sync
