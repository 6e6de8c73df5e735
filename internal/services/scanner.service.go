package services

import (
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"

	"dirscan/internal/models"

	"github.com/docker/go-units"
)

// scanResult is what a single pass over a directory produces
type scanResult struct {
	path       string
	elements   []models.DirectoryElement
	totalBytes int64
}

// measuredEntry is an immediate child with its size still in bytes
type measuredEntry struct {
	kind  models.ElementKind
	path  string
	bytes int64
}

// Scan returns the immediate children of path sorted by descending size.
// Directories are reported with the sum of every file nested below them.
func Scan(path string) ([]models.DirectoryElement, error) {
	result, err := scan(path)
	if err != nil {
		return nil, err
	}
	return result.elements, nil
}

// GetScanReport scans path and wraps the elements with totals and timing
func GetScanReport(path string) (*models.ScanReport, error) {
	start := time.Now()

	result, err := scan(path)
	if err != nil {
		if !IsUserError(err) {
			log.Printf("[SCAN] Scan of %s failed: %v", path, err)
		}
		return nil, err
	}

	elapsed := time.Since(start)
	total := units.BytesSize(float64(result.totalBytes))
	log.Printf("[SCAN] %s: %d elements, %s in %v", result.path, len(result.elements), total, elapsed)

	return &models.ScanReport{
		Path:       result.path,
		Elements:   result.elements,
		TotalBytes: result.totalBytes,
		Total:      total,
		ScannedAt:  start,
		DurationMS: elapsed.Milliseconds(),
	}, nil
}

// scan runs the pipeline: Validate → Collect → Convert → Sort
func scan(path string) (*scanResult, error) {
	// VALIDATE
	if path == "" {
		return nil, fmt.Errorf("%w: %q", ErrPathNotFound, path)
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrPathNotFound, absPath)
		}
		return nil, fmt.Errorf("failed to stat %s: %w", absPath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotADirectory, absPath)
	}

	// COLLECT
	entries, err := collectChildren(absPath)
	if err != nil {
		return nil, err
	}

	// CONVERT
	elements := make([]models.DirectoryElement, 0, len(entries))
	var totalBytes int64
	for _, entry := range entries {
		value, err := ConvertSize(float64(entry.bytes), models.Bytes, DisplayUnit)
		if err != nil {
			return nil, err
		}
		elements = append(elements, models.DirectoryElement{
			Kind: entry.kind,
			Path: entry.path,
			Size: models.Size{Value: value, Unit: DisplayUnit},
		})
		totalBytes += entry.bytes
	}

	// SORT
	sorted, err := SortBySizeDesc(elements)
	if err != nil {
		return nil, err
	}

	return &scanResult{
		path:       absPath,
		elements:   sorted,
		totalBytes: totalBytes,
	}, nil
}

// collectChildren measures every immediate child of dir
func collectChildren(dir string) ([]measuredEntry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	measured := make([]measuredEntry, 0, len(entries))
	for _, entry := range entries {
		childPath := filepath.Join(dir, entry.Name())
		kind, size, err := measure(childPath)
		if err != nil {
			return nil, err
		}
		measured = append(measured, measuredEntry{kind: kind, path: childPath, bytes: size})
	}

	return measured, nil
}

// measure returns the kind of path and its size in bytes. Directories count
// only the files below them, never an entry size of their own.
func measure(path string) (models.ElementKind, int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", 0, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	if !info.IsDir() {
		return models.KindFile, info.Size(), nil
	}

	size, err := directorySize(path)
	if err != nil {
		return "", 0, err
	}
	return models.KindDir, size, nil
}

func directorySize(dir string) (int64, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	var total int64
	for _, entry := range entries {
		_, size, err := measure(filepath.Join(dir, entry.Name()))
		if err != nil {
			return 0, err
		}
		total += size
	}
	return total, nil
}

// CompareBySize orders two elements by size value. Elements carrying
// different units cannot be compared and yield ErrInconsistentUnits.
func CompareBySize(a, b models.DirectoryElement) (int, error) {
	if a.Size.Unit != b.Size.Unit {
		return 0, fmt.Errorf("%w: %s (%s) and %s (%s)", ErrInconsistentUnits, a.Path, a.Size.Unit, b.Path, b.Size.Unit)
	}
	return cmp.Compare(a.Size.Value, b.Size.Value), nil
}

// SortBySizeDesc returns a copy of elements sorted largest first.
// The input slice is left untouched.
func SortBySizeDesc(elements []models.DirectoryElement) ([]models.DirectoryElement, error) {
	sorted := make([]models.DirectoryElement, len(elements))
	copy(sorted, elements)

	var sortErr error
	sort.SliceStable(sorted, func(i, j int) bool {
		order, err := CompareBySize(sorted[i], sorted[j])
		if err != nil {
			if sortErr == nil {
				sortErr = err
			}
			return false
		}
		return order > 0
	})
	if sortErr != nil {
		return nil, sortErr
	}

	return sorted, nil
}
