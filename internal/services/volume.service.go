package services

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"dirscan/internal/models"

	"github.com/docker/go-units"
	"github.com/shirou/gopsutil/v3/disk"
)

// GetVolumeInfo returns usage of the filesystem that holds path
func GetVolumeInfo(path string) (*models.VolumeInfo, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: %q", ErrPathNotFound, path)
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	if _, err := os.Stat(absPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrPathNotFound, absPath)
		}
		return nil, fmt.Errorf("failed to stat %s: %w", absPath, err)
	}

	usage, err := disk.Usage(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get disk usage for %s: %w", absPath, err)
	}

	return &models.VolumeInfo{
		Path:         absPath,
		Mountpoint:   findMountpoint(absPath),
		Filesystem:   usage.Fstype,
		TotalBytes:   usage.Total,
		UsedBytes:    usage.Used,
		FreeBytes:    usage.Free,
		UsagePercent: usage.UsedPercent,
		Total:        units.BytesSize(float64(usage.Total)),
		Used:         units.BytesSize(float64(usage.Used)),
		Free:         units.BytesSize(float64(usage.Free)),
	}, nil
}

// findMountpoint returns the deepest mountpoint containing path, or "" if
// partitions cannot be listed
func findMountpoint(path string) string {
	partitions, err := disk.Partitions(true)
	if err != nil {
		log.Printf("[VOLUME] Could not list partitions: %v", err)
		return ""
	}

	best := ""
	for _, partition := range partitions {
		if isWithin(path, partition.Mountpoint) && len(partition.Mountpoint) > len(best) {
			best = partition.Mountpoint
		}
	}
	return best
}

func isWithin(path, root string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
