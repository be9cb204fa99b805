// Package library defines the in-memory picture of a media library and the store
// that publishes it.
//
// A Snapshot is built in full by a sync cycle and handed to Store.Publish. From that
// point it is shared by every reader and must not be modified. Readers obtain the
// current snapshot with Store.Current, which never blocks and never observes a
// partially built snapshot: publishing swaps a single pointer.
package library
