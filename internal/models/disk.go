package models

// VolumeInfo represents usage of the filesystem holding a scanned directory
type VolumeInfo struct {
	Path         string  `json:"path"`
	Mountpoint   string  `json:"mountpoint,omitempty"`
	Filesystem   string  `json:"filesystem"`
	TotalBytes   uint64  `json:"total_bytes"`
	UsedBytes    uint64  `json:"used_bytes"`
	FreeBytes    uint64  `json:"free_bytes"`
	UsagePercent float64 `json:"usage_percent"`
	Total        string  `json:"total"` // Human-readable, e.g. "465.6GiB"
	Used         string  `json:"used"`
	Free         string  `json:"free"`
}
