package models

import (
	"encoding/hex"
	"time"

	"golang.org/x/crypto/blake2b"
)

const (
	// CommitMessageDeleted marks the commit written when a syllabus is removed.
	CommitMessageDeleted = "DELETED"
	// DeleteCommitIDPrefix prefixes the id of delete commits.
	DeleteCommitIDPrefix = "DEL_"
)

// Commit is an immutable snapshot of a syllabus taken before it was changed.
type Commit struct {
	CommitID   string    `db:"commit_id" json:"commit_id"`
	CourseCode string    `db:"course_code" json:"course_code"`
	Timestamp  time.Time `db:"created_at" json:"timestamp"`
	AuthorName string    `db:"author_name" json:"author_name"`
	Message    string    `db:"message" json:"message"`
	Snapshot   []byte    `db:"snapshot" json:"snapshot"`
	Checksum   string    `db:"checksum" json:"checksum,omitempty"`
}

// SnapshotChecksum is the hex BLAKE2b-256 digest of a snapshot.
func SnapshotChecksum(snapshot []byte) string {
	sum := blake2b.Sum256(snapshot)
	return hex.EncodeToString(sum[:])
}

// SnapshotIntact reports whether Snapshot still matches Checksum. Commits
// written without a checksum are accepted as is.
func (c *Commit) SnapshotIntact() bool {
	if c == nil || c.Checksum == "" {
		return true
	}
	return SnapshotChecksum(c.Snapshot) == c.Checksum
}

// IsDeletion reports whether the commit records a delete.
func (c *Commit) IsDeletion() bool {
	return c != nil && c.Message == CommitMessageDeleted
}
