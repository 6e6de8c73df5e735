package services

import (
	"fmt"

	"dirscan/internal/models"
)

// DisplayUnit is the unit every scanned element is reported in
const DisplayUnit = models.Kilobytes

// ConvertSize converts value expressed in from into the larger unit to.
// Only conversions towards a larger unit (or the same unit) are supported.
func ConvertSize(value float64, from, to models.SizeUnit) (float64, error) {
	if !to.Valid() {
		return 0, fmt.Errorf("%w: target %q", ErrInvalidUnit, to)
	}

	if from == to {
		return value, nil
	}

	fromRank, toRank := from.Rank(), to.Rank()
	if fromRank < 0 || toRank < fromRank {
		return 0, fmt.Errorf("%w: from %s to %s", ErrUnsupportedConversion, from, to)
	}

	converted := value
	for step := fromRank; step < toRank; step++ {
		converted /= models.UnitFactor
	}

	return converted, nil
}
