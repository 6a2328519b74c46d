package library

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const titleColumns = `id, tmdb_id, kind, tvdb_id, imdb_id, name, status, status_4k,
	service_id, service_id_4k, external_service_id, external_service_id_4k,
	external_service_slug, external_service_slug_4k, rating_key, rating_key_4k,
	jellyfin_id, jellyfin_id_4k, media_added_at, last_season_change, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTitle(r rowScanner) (*Title, error) {
	t := &Title{}
	std, uhd := &t.Availability.Standard, &t.Availability.UHD
	err := r.Scan(&t.ID, &t.TMDBID, &t.Kind, &t.TVDBID, &t.IMDBID, &t.Name, &std.Status, &uhd.Status,
		&std.ServiceID, &uhd.ServiceID, &std.ExternalServiceID, &uhd.ExternalServiceID,
		&std.ExternalServiceSlug, &uhd.ExternalServiceSlug, &std.RatingKey, &uhd.RatingKey,
		&std.JellyfinID, &uhd.JellyfinID, &t.MediaAddedAt, &t.LastSeasonChange, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func addTitle(q querier, t *Title) error {
	if t.Availability.Standard.Status == "" {
		t.Availability.Standard.Status = StatusUnknown
	}
	if t.Availability.UHD.Status == "" {
		t.Availability.UHD.Status = StatusUnknown
	}
	now := time.Now()
	if t.LastSeasonChange.IsZero() {
		t.LastSeasonChange = now
	}
	std, uhd := t.Availability.Standard, t.Availability.UHD
	result, err := q.Exec(`
		INSERT INTO titles (tmdb_id, kind, tvdb_id, imdb_id, name, status, status_4k,
			service_id, service_id_4k, external_service_id, external_service_id_4k,
			external_service_slug, external_service_slug_4k, rating_key, rating_key_4k,
			jellyfin_id, jellyfin_id_4k, media_added_at, last_season_change, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.TMDBID, t.Kind, t.TVDBID, t.IMDBID, t.Name, std.Status, uhd.Status,
		std.ServiceID, uhd.ServiceID, std.ExternalServiceID, uhd.ExternalServiceID,
		std.ExternalServiceSlug, uhd.ExternalServiceSlug, std.RatingKey, uhd.RatingKey,
		std.JellyfinID, uhd.JellyfinID, t.MediaAddedAt, t.LastSeasonChange, now, now,
	)
	if err != nil {
		return fmt.Errorf("insert title: %w", mapSQLiteError(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	t.ID = id
	t.CreatedAt = now
	t.UpdatedAt = now
	return nil
}

// AddTitle inserts a new title. Seasons are not written; use SaveTitle for that.
func (s *Store) AddTitle(t *Title) error { return addTitle(s.db, t) }

// AddTitle inserts a new title within a transaction.
func (t *Tx) AddTitle(title *Title) error { return addTitle(t.tx, title) }

func getTitle(q querier, id int64) (*Title, error) {
	t, err := scanTitle(q.QueryRow("SELECT "+titleColumns+" FROM titles WHERE id = ?", id))
	if err != nil {
		return nil, fmt.Errorf("get title %d: %w", id, mapSQLiteError(err))
	}
	if t.Seasons, err = listSeasons(q, t.ID); err != nil {
		return nil, err
	}
	return t, nil
}

// GetTitle retrieves a title and its seasons by row id.
// Returns ErrNotFound if the title does not exist.
func (s *Store) GetTitle(id int64) (*Title, error) { return getTitle(s.db, id) }

// GetTitle retrieves a title within a transaction.
func (t *Tx) GetTitle(id int64) (*Title, error) { return getTitle(t.tx, id) }

func findTitle(q querier, tmdbID int64, kind Kind) (*Title, error) {
	t, err := scanTitle(q.QueryRow("SELECT "+titleColumns+" FROM titles WHERE tmdb_id = ? AND kind = ?", tmdbID, kind))
	if err != nil {
		return nil, fmt.Errorf("find %s %d: %w", kind, tmdbID, mapSQLiteError(err))
	}
	if t.Seasons, err = listSeasons(q, t.ID); err != nil {
		return nil, err
	}
	return t, nil
}

// FindTitle looks a title up by its canonical catalog id and kind, seasons included.
// Returns ErrNotFound if no record exists yet.
func (s *Store) FindTitle(tmdbID int64, kind Kind) (*Title, error) {
	return findTitle(s.db, tmdbID, kind)
}

// FindTitle looks a title up within a transaction.
func (t *Tx) FindTitle(tmdbID int64, kind Kind) (*Title, error) {
	return findTitle(t.tx, tmdbID, kind)
}

// FindByTVDB returns the series carrying tvdbID, or ErrNotFound.
func (s *Store) FindByTVDB(tvdbID int64) (*Title, error) {
	kind := KindSeries
	titles, _, err := s.ListTitles(TitleFilter{Kind: &kind, TVDBID: &tvdbID, Limit: 1, WithSeasons: true})
	if err != nil {
		return nil, err
	}
	if len(titles) == 0 {
		return nil, fmt.Errorf("find series by tvdb %d: %w", tvdbID, ErrNotFound)
	}
	return titles[0], nil
}

func listTitles(q querier, f TitleFilter) ([]*Title, int, error) {
	var conditions []string
	var args []any

	if f.Kind != nil {
		conditions = append(conditions, "kind = ?")
		args = append(args, *f.Kind)
	}
	if f.Status != nil {
		conditions = append(conditions, "(status = ? OR status_4k = ?)")
		args = append(args, *f.Status, *f.Status)
	}
	if f.TMDBID != nil {
		conditions = append(conditions, "tmdb_id = ?")
		args = append(args, *f.TMDBID)
	}
	if f.TVDBID != nil {
		conditions = append(conditions, "tvdb_id = ?")
		args = append(args, *f.TVDBID)
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := q.QueryRow("SELECT COUNT(*) FROM titles "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count titles: %w", err)
	}

	query := "SELECT " + titleColumns + " FROM titles " + whereClause + " ORDER BY id"
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.Limit, f.Offset)
	}

	rows, err := q.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list titles: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*Title
	for rows.Next() {
		t, err := scanTitle(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan title: %w", err)
		}
		results = append(results, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate titles: %w", err)
	}

	// Seasons are loaded after the cursor is closed; SQLite connections don't
	// allow a second query while rows are open inside a transaction.
	if f.WithSeasons {
		for _, t := range results {
			if t.Seasons, err = listSeasons(q, t.ID); err != nil {
				return nil, 0, err
			}
		}
	}
	return results, total, nil
}

// ListTitles returns titles matching the filter and the total count before pagination.
func (s *Store) ListTitles(f TitleFilter) ([]*Title, int, error) { return listTitles(s.db, f) }

// ListTitles returns titles within a transaction.
func (t *Tx) ListTitles(f TitleFilter) ([]*Title, int, error) { return listTitles(t.tx, f) }

func updateTitle(q querier, t *Title) error {
	now := time.Now()
	std, uhd := t.Availability.Standard, t.Availability.UHD
	result, err := q.Exec(`
		UPDATE titles SET tvdb_id = ?, imdb_id = ?, name = ?, status = ?, status_4k = ?,
			service_id = ?, service_id_4k = ?, external_service_id = ?, external_service_id_4k = ?,
			external_service_slug = ?, external_service_slug_4k = ?, rating_key = ?, rating_key_4k = ?,
			jellyfin_id = ?, jellyfin_id_4k = ?, media_added_at = ?, last_season_change = ?, updated_at = ?
		WHERE id = ?`,
		t.TVDBID, t.IMDBID, t.Name, std.Status, uhd.Status,
		std.ServiceID, uhd.ServiceID, std.ExternalServiceID, uhd.ExternalServiceID,
		std.ExternalServiceSlug, uhd.ExternalServiceSlug, std.RatingKey, uhd.RatingKey,
		std.JellyfinID, uhd.JellyfinID, t.MediaAddedAt, t.LastSeasonChange, now, t.ID,
	)
	if err != nil {
		return fmt.Errorf("update title %d: %w", t.ID, mapSQLiteError(err))
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	t.UpdatedAt = now
	return nil
}

// UpdateTitle writes every column of an existing title. Seasons are untouched.
func (s *Store) UpdateTitle(t *Title) error { return updateTitle(s.db, t) }

// UpdateTitle writes a title within a transaction.
func (t *Tx) UpdateTitle(title *Title) error { return updateTitle(t.tx, title) }

// SaveTitle inserts or updates a title together with its full season set in
// one transaction. Seasons missing from t.Seasons are left as they are.
func (s *Store) SaveTitle(t *Title) (err error) {
	tx, err := s.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = tx.SaveTitle(t); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit title %d: %w", t.TMDBID, err)
	}
	return nil
}

// SaveTitle upserts a title and its seasons within an existing transaction.
func (t *Tx) SaveTitle(title *Title) error {
	if title.ID == 0 {
		if err := addTitle(t.tx, title); err != nil {
			return err
		}
	} else if err := updateTitle(t.tx, title); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("save title %d: %w", title.ID, err)
		}
		return err
	}

	for _, season := range title.Seasons {
		season.TitleID = title.ID
		if season.ID == 0 {
			if err := addSeason(t.tx, season); err != nil {
				return err
			}
			continue
		}
		if err := updateSeason(t.tx, season); err != nil {
			return err
		}
	}
	return nil
}
