package reconcile

import "github.com/vmunix/arrsync/internal/library"

// seasonStatus derives a season's status in one dimension from episode counts.
// current is the stored status, or UNKNOWN for a season seen for the first time.
func seasonStatus(current library.Status, total, episodes int, processing bool) library.Status {
	switch {
	case total > 0 && episodes == total:
		return library.StatusAvailable
	case current == library.StatusAvailable:
		return library.StatusAvailable
	case episodes > 0:
		return library.StatusPartiallyAvailable
	case processing && current != library.StatusDeleted:
		return library.StatusProcessing
	default:
		return current
	}
}

// aggregate rolls season statuses up to the series in one dimension.
//
// stayAvailable keeps an AVAILABLE series AVAILABLE when the only seasons
// that failed to be complete are ones nobody has evidence for yet.
func aggregate(current library.Status, seasons []library.Status, hasEvidence, stayAvailable bool) library.Status {
	all := len(seasons) > 0
	partial, processing := false, false
	for _, s := range seasons {
		if s != library.StatusAvailable {
			all = false
		}
		switch s {
		case library.StatusAvailable, library.StatusPartiallyAvailable:
			partial = true
		case library.StatusProcessing:
			processing = true
		}
	}

	switch {
	case all || stayAvailable:
		return library.StatusAvailable
	case partial:
		return library.StatusPartiallyAvailable
	case (!hasEvidence && current != library.StatusDeleted) || processing:
		return library.StatusProcessing
	case current == library.StatusDeleted:
		return library.StatusDeleted
	default:
		return library.StatusUnknown
	}
}

// countAvailable counts AVAILABLE regular seasons. Specials never count.
func countAvailable(seasons []*library.Season, dim library.Dimension) int {
	n := 0
	for _, s := range seasons {
		if s.Number > 0 && s.Availability.Status(dim) == library.StatusAvailable {
			n++
		}
	}
	return n
}
