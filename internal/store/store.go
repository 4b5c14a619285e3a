package store

import "context"

// Collection is a named set of records persisted atomically as a unit.
// Records are keyed by id; Load returns the whole collection and
// Replace overwrites it. Callers own concurrency control: a
// read-modify-write sequence against the same collection must be
// serialized behind a single lock.
type Collection[T any] interface {
	// Load reads the entire collection. A collection that has never been
	// written loads as an empty map, not an error.
	Load(ctx context.Context) (map[string]T, error)

	// Replace atomically overwrites the entire collection.
	Replace(ctx context.Context, records map[string]T) error
}

// Collection names shared by the file and Postgres backends.
const (
	UsersCollection       = "users"
	SubmissionsCollection = "submissions"
	VideosCollection      = "approved_videos"
)
