// Package models holds the typed records persisted by the repository layer.
package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ──────────────────── Enums ────────────────────

type IndexKind string

const (
	IndexKindVideos IndexKind = "videos"
	IndexKindPhotos IndexKind = "photos"
	IndexKindAudio  IndexKind = "audio"
)

type ScanStatus string

const (
	ScanStatusIdle     ScanStatus = "idle"
	ScanStatusQueued   ScanStatus = "queued"
	ScanStatusScanning ScanStatus = "scanning"
	ScanStatusDone     ScanStatus = "done"
	ScanStatusFailed   ScanStatus = "failed"
)

type ItemKind string

const (
	ItemKindMovie   ItemKind = "movie"
	ItemKindShow    ItemKind = "show"
	ItemKindSeason  ItemKind = "season"
	ItemKindEpisode ItemKind = "episode"
	ItemKindVideo   ItemKind = "video"
	ItemKindExtra   ItemKind = "extra"
)

// ──────────────────── Index ────────────────────

// Index is a catalog root: a named set of folders scanned into a hierarchy.
type Index struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	Name           string          `json:"name" db:"name"`
	Kind           IndexKind       `json:"kind" db:"kind"`
	Roots          []string        `json:"roots" db:"roots"`
	ScanStatus     ScanStatus      `json:"scan_status" db:"scan_status"`
	LastScannedAt  *time.Time      `json:"last_scanned_at,omitempty" db:"last_scanned_at"`
	// ScanIntervalSeconds, when set, is the period the scheduler re-enqueues
	// this index on; nil means no automatic rescan.
	ScanIntervalSeconds *int            `json:"scan_interval_seconds,omitempty" db:"scan_interval_seconds"`
	NextScanAt          *time.Time      `json:"next_scan_at,omitempty" db:"next_scan_at"`
	Metadata       json.RawMessage `json:"metadata,omitempty" db:"metadata"`
	IconExt        *string         `json:"icon_ext,omitempty" db:"icon_ext"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at" db:"updated_at"`
}

// ──────────────────── VideoItem ────────────────────

// VideoItem is one node of the show/season/episode or movie hierarchy.
type VideoItem struct {
	ID         uuid.UUID       `json:"id" db:"id"`
	IndexID    uuid.UUID       `json:"index_id" db:"index_id"`
	Kind       ItemKind        `json:"kind" db:"kind"`
	Title      string          `json:"title" db:"title"`
	SortTitle  *string         `json:"sort_title,omitempty" db:"sort_title"`
	Year       *int            `json:"year,omitempty" db:"year"`
	Number     *int            `json:"number,omitempty" db:"number"`
	ParentID   *uuid.UUID      `json:"parent_id,omitempty" db:"parent_id"`
	SourcePath *string         `json:"source_path,omitempty" db:"source_path"`
	Metadata   json.RawMessage `json:"metadata,omitempty" db:"metadata"`
	AddedAt    time.Time       `json:"added_at" db:"added_at"`
	// LatestAddedAt is set to the insertion time. Nothing raises it when
	// descendants are added later, so it does not track their added_at.
	LatestAddedAt time.Time `json:"latest_added_at" db:"latest_added_at"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// ──────────────────── VideoVersion ────────────────────

// VideoVersion is one physical rendition (edition/quality) of a VideoItem.
type VideoVersion struct {
	ID             uuid.UUID `json:"id" db:"id"`
	ItemID         uuid.UUID `json:"item_id" db:"item_id"`
	Edition        *string   `json:"edition,omitempty" db:"edition"`
	Source         *string   `json:"source,omitempty" db:"source"`
	Container      *string   `json:"container,omitempty" db:"container"`
	Resolution     *string   `json:"resolution,omitempty" db:"resolution"`
	HDR            *bool     `json:"hdr,omitempty" db:"hdr"`
	AudioChannels  *string   `json:"audio_channels,omitempty" db:"audio_channels"`
	Bitrate        *int64    `json:"bitrate,omitempty" db:"bitrate"`
	RuntimeMs      *int64    `json:"runtime_ms,omitempty" db:"runtime_ms"`
	ProbeVersion   *int      `json:"probe_version,omitempty" db:"probe_version"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// ──────────────────── VideoPart ────────────────────

// VideoPart is a single file on disk.
type VideoPart struct {
	ID         uuid.UUID `json:"id" db:"id"`
	VersionID  uuid.UUID `json:"version_id" db:"version_id"`
	Path       string    `json:"path" db:"path"`
	Size       int64     `json:"size" db:"size"`
	Mtime      time.Time `json:"mtime" db:"mtime"`
	PartIndex  int       `json:"part_index" db:"part_index"`
	DurationMs *int64    `json:"duration_ms,omitempty" db:"duration_ms"`
	// FastHash is the 32-hex-char xxh3-128 content identity (see internal/fingerprint).
	FastHash  string    `json:"fast_hash" db:"fast_hash"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ScanResult summarizes one completed (or failed) scan cycle for reporting.
type ScanResult struct {
	FilesFound   int      `json:"files_found"`
	FilesSkipped int      `json:"files_skipped"`
	FilesAdded   int      `json:"files_added"`
	ItemsReaped  int      `json:"items_reaped"`
	Errors       []string `json:"errors,omitempty"`
}
