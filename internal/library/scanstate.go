package library

import "fmt"

// GetScanState returns when a library was last scanned.
// Returns ErrNotFound if it never was.
func (s *Store) GetScanState(source, libraryID string) (*ScanState, error) {
	st := &ScanState{}
	err := s.db.QueryRow(`
		SELECT source, library_id, last_scan FROM scan_state
		WHERE source = ? AND library_id = ?`, source, libraryID,
	).Scan(&st.Source, &st.LibraryID, &st.LastScan)
	if err != nil {
		return nil, fmt.Errorf("get scan state %s/%s: %w", source, libraryID, mapSQLiteError(err))
	}
	return st, nil
}

// SetScanState records the last scan time of a library, replacing any previous value.
func (s *Store) SetScanState(st ScanState) error {
	_, err := s.db.Exec(`
		INSERT INTO scan_state (source, library_id, last_scan) VALUES (?, ?, ?)
		ON CONFLICT(source, library_id) DO UPDATE SET last_scan = excluded.last_scan`,
		st.Source, st.LibraryID, st.LastScan,
	)
	if err != nil {
		return fmt.Errorf("set scan state %s/%s: %w", st.Source, st.LibraryID, mapSQLiteError(err))
	}
	return nil
}
