package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// ElementKind tells files and directories apart
type ElementKind string

const (
	KindFile ElementKind = "FILE"
	KindDir  ElementKind = "DIR"
)

// ParseElementKind maps the displayed kind back to an ElementKind
func ParseElementKind(s string) (ElementKind, error) {
	switch ElementKind(s) {
	case KindFile, KindDir:
		return ElementKind(s), nil
	default:
		return "", fmt.Errorf("unknown element kind %q", s)
	}
}

// Size is a non-negative value expressed in a SizeUnit
type Size struct {
	Value float64  `json:"value"`
	Unit  SizeUnit `json:"unit"`
}

// Rounded returns the value rounded half-up to the nearest integer
func (s Size) Rounded() int64 {
	return int64(math.Floor(s.Value + 0.5))
}

func (s Size) String() string {
	return fmt.Sprintf("%d%s", s.Rounded(), s.Unit.Suffix())
}

// DirectoryElement represents one immediate child of a scanned directory
type DirectoryElement struct {
	Kind ElementKind `json:"kind"`
	Path string      `json:"path"` // Absolute path
	Size Size        `json:"size"`
}

// String renders the element as "<KIND> <PATH> <ROUNDED_SIZE><SUFFIX>"
func (e DirectoryElement) String() string {
	return fmt.Sprintf("%s %s %s", e.Kind, e.Path, e.Size)
}

// ParseDirectoryElement reads back a line produced by DirectoryElement.String.
// The size is recovered only as its rounded integer value.
func ParseDirectoryElement(line string) (DirectoryElement, error) {
	line = strings.TrimRight(line, "\r\n")

	first := strings.IndexByte(line, ' ')
	last := strings.LastIndexByte(line, ' ')
	if first < 0 || last <= first {
		return DirectoryElement{}, fmt.Errorf("malformed element line %q", line)
	}

	kind, err := ParseElementKind(line[:first])
	if err != nil {
		return DirectoryElement{}, err
	}

	path := line[first+1 : last]
	if path == "" {
		return DirectoryElement{}, fmt.Errorf("malformed element line %q: empty path", line)
	}

	sizeToken := line[last+1:]
	split := strings.IndexFunc(sizeToken, unicode.IsLetter)
	if split <= 0 {
		return DirectoryElement{}, fmt.Errorf("malformed size %q", sizeToken)
	}

	value, err := strconv.ParseInt(sizeToken[:split], 10, 64)
	if err != nil {
		return DirectoryElement{}, fmt.Errorf("malformed size %q: %w", sizeToken, err)
	}
	unit, err := ParseSizeUnit(sizeToken[split:])
	if err != nil {
		return DirectoryElement{}, err
	}

	return DirectoryElement{
		Kind: kind,
		Path: path,
		Size: Size{Value: float64(value), Unit: unit},
	}, nil
}

// ScanReport wraps the elements of one scan with totals for API consumers
type ScanReport struct {
	Path       string             `json:"path"`
	Elements   []DirectoryElement `json:"elements"`
	TotalBytes int64              `json:"total_bytes"`
	Total      string             `json:"total"` // Human-readable size like "12.5MiB"
	ScannedAt  time.Time          `json:"scanned_at"`
	DurationMS int64              `json:"duration_ms"`
	Volume     *VolumeInfo        `json:"volume,omitempty"`
}
