package domain

import "time"

// ArtifactInfo describes one stored blob in the artifact cache index.
type ArtifactInfo struct {
	Key       string    `json:"key,omitzero"`
	Digest    string    `json:"digest,omitzero"`
	Size      int64     `json:"size,omitzero"`
	Timestamp time.Time `json:"timestamp,omitzero"`
}
