package repository

import (
	"database/sql"
	"fmt"

	"mpfm/db"
	"mpfm/model"
)

// mysqlSidecarStore persists sidecar records in the sidecars table.
type mysqlSidecarStore struct {
	DB *sql.DB
}

// NewMySQLSidecarStore creates a store backed by the global database
// connection. db.ConnectDB and db.InitDB must have run first.
func NewMySQLSidecarStore() SidecarStore {
	return &mysqlSidecarStore{DB: db.DB}
}

func (s *mysqlSidecarStore) Load(title string) (*model.TrackRecord, error) {
	query := `SELECT title, date, time, length, bpm, user_bpm, location, stars, playing, disk
	           FROM sidecars WHERE title = ?`
	row := s.DB.QueryRow(query, title)

	rec := &model.TrackRecord{}
	err := row.Scan(&rec.Title, &rec.Date, &rec.Time, &rec.Length, &rec.BPM,
		&rec.UserBPM, &rec.Location, &rec.Stars, &rec.Playing, &rec.Disk)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, title)
		}
		return nil, fmt.Errorf("failed to scan sidecar for %s: %w", title, err)
	}
	return rec, nil
}

func (s *mysqlSidecarStore) Save(rec *model.TrackRecord) error {
	query := `INSERT INTO sidecars (title, date, time, length, bpm, user_bpm, location, stars, playing, disk)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	           ON DUPLICATE KEY UPDATE
	             date = VALUES(date), time = VALUES(time), length = VALUES(length),
	             bpm = VALUES(bpm), user_bpm = VALUES(user_bpm), location = VALUES(location),
	             stars = VALUES(stars), playing = VALUES(playing), disk = VALUES(disk)`
	stmt, err := s.DB.Prepare(query)
	if err != nil {
		return fmt.Errorf("failed to prepare statement for sidecar save: %w", err)
	}
	defer stmt.Close()

	_, err = stmt.Exec(rec.Title, rec.Date, rec.Time, rec.Length, rec.BPM,
		rec.UserBPM, rec.Location, rec.Stars, rec.Playing, rec.Disk)
	if err != nil {
		return fmt.Errorf("failed to save sidecar for %s: %w", rec.Title, err)
	}
	return nil
}
