// Package integration provides integration tests for the media readiness server.
// These tests run the complete server against a file library export and a local
// webhook receiver, covering sync cycles, readiness evaluation and notifications.
package integration
