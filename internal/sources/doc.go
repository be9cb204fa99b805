// Package sources retrieves the media library from the configured media server.
//
// Every source returns a complete library.Snapshot or an error; a source never
// returns a partially parsed library.
//
// Current implementations:
//   - JellyfinSource: queries the Jellyfin (or Emby compatible) items API and
//     maps series, seasons, episodes and movies with their media streams.
//     Items Jellyfin reports as virtual (known but missing on disk) are
//     marked unavailable.
//   - FileSource: reads a JSON library export from the local filesystem and
//     validates it against an embedded JSON Schema before decoding.
package sources
