package library

import (
	"fmt"
	"time"
)

func addSeason(q querier, s *Season) error {
	if s.Availability.Standard.Status == "" {
		s.Availability.Standard.Status = StatusUnknown
	}
	if s.Availability.UHD.Status == "" {
		s.Availability.UHD.Status = StatusUnknown
	}
	now := time.Now()
	result, err := q.Exec(`
		INSERT INTO seasons (title_id, season_number, status, status_4k, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		s.TitleID, s.Number, s.Availability.Standard.Status, s.Availability.UHD.Status, now, now,
	)
	if err != nil {
		return fmt.Errorf("insert season %d: %w", s.Number, mapSQLiteError(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	s.ID = id
	s.CreatedAt = now
	s.UpdatedAt = now
	return nil
}

func updateSeason(q querier, s *Season) error {
	now := time.Now()
	result, err := q.Exec(`
		UPDATE seasons SET status = ?, status_4k = ?, updated_at = ?
		WHERE id = ?`,
		s.Availability.Standard.Status, s.Availability.UHD.Status, now, s.ID,
	)
	if err != nil {
		return fmt.Errorf("update season %d: %w", s.ID, mapSQLiteError(err))
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	s.UpdatedAt = now
	return nil
}

func listSeasons(q querier, titleID int64) ([]*Season, error) {
	rows, err := q.Query(`
		SELECT id, title_id, season_number, status, status_4k, created_at, updated_at
		FROM seasons WHERE title_id = ? ORDER BY season_number`, titleID)
	if err != nil {
		return nil, fmt.Errorf("list seasons: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var seasons []*Season
	for rows.Next() {
		s := &Season{}
		if err := rows.Scan(&s.ID, &s.TitleID, &s.Number,
			&s.Availability.Standard.Status, &s.Availability.UHD.Status, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan season: %w", err)
		}
		seasons = append(seasons, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate seasons: %w", err)
	}
	return seasons, nil
}

// ListSeasons returns a series' seasons ordered by number.
func (s *Store) ListSeasons(titleID int64) ([]*Season, error) { return listSeasons(s.db, titleID) }
