// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists farmer profiles, the crop catalog and
// recommendation batches in a local SQLite database. Batches are
// append-only; reads return the newest batch per farmer.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/crop-engine/pkg/types"
)

const (
	dbFile              = "crop-engine.db"
	defaultHistoryLimit = 20
)

// Store manages the crop-engine SQLite database.
type Store struct {
	db           *sql.DB
	dir          string
	historyLimit int
}

// NewStore opens or creates the database at cfg.Dir/crop-engine.db and
// creates the schema if it does not exist.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	historyLimit := cfg.HistoryLimit
	if historyLimit <= 0 {
		historyLimit = defaultHistoryLimit
	}

	s := &Store{
		db:           db,
		dir:          cfg.Dir,
		historyLimit: historyLimit,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping reports whether the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS farmers (
			id TEXT PRIMARY KEY,
			profile TEXT NOT NULL,
			updated_at INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS crops (
			id TEXT PRIMARY KEY,
			position INTEGER NOT NULL,
			name TEXT NOT NULL,
			profile TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_crops_position ON crops(position)`,
		`CREATE TABLE IF NOT EXISTS recommendations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			farmer_id TEXT NOT NULL,
			crops TEXT NOT NULL,
			created_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_recommendations_farmer ON recommendations(farmer_id, created_at)`,
		`CREATE TABLE IF NOT EXISTS past_crops (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			farmer_id TEXT NOT NULL REFERENCES farmers(id),
			crop_name TEXT NOT NULL,
			planted_at INTEGER NOT NULL,
			harvested_at INTEGER NOT NULL,
			quantity_kg REAL NOT NULL,
			price_per_kg REAL NOT NULL,
			total_revenue REAL NOT NULL,
			buyer TEXT NOT NULL DEFAULT '',
			notes TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_past_crops_farmer ON past_crops(farmer_id, harvested_at)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// --- recommendations ---

// Save appends batch to the farmer's history.
func (s *Store) Save(ctx context.Context, batch types.RecommendationBatch) error {
	cropsJSON, err := json.Marshal(batch.Crops)
	if err != nil {
		return fmt.Errorf("encoding crops: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO recommendations (farmer_id, crops, created_at) VALUES (?, ?, ?)`,
		batch.FarmerID, string(cropsJSON), batch.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("inserting recommendations: %w", err)
	}
	return nil
}

// Latest returns the farmer's newest batch. Among equal timestamps the
// last inserted wins. An empty farmerID is never found.
func (s *Store) Latest(ctx context.Context, farmerID string) (types.RecommendationBatch, bool, error) {
	batches, err := s.History(ctx, farmerID, 1)
	if err != nil {
		return types.RecommendationBatch{}, false, err
	}
	if len(batches) == 0 {
		return types.RecommendationBatch{}, false, nil
	}
	return batches[0], true, nil
}

// History returns up to limit batches for farmerID, newest first. A zero
// limit uses the configured history limit. An empty farmerID matches
// nothing.
func (s *Store) History(ctx context.Context, farmerID string, limit int) ([]types.RecommendationBatch, error) {
	if farmerID == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = s.historyLimit
	}
	return s.queryBatches(ctx, farmerID, limit)
}

// queryBatches lists batches newest first. An empty farmerID lists every
// farmer; only exports use that.
func (s *Store) queryBatches(ctx context.Context, farmerID string, limit int) ([]types.RecommendationBatch, error) {
	query := `SELECT farmer_id, crops, created_at FROM recommendations`
	var args []any
	if farmerID != "" {
		query += ` WHERE farmer_id = ?`
		args = append(args, farmerID)
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying recommendations: %w", err)
	}
	defer rows.Close()

	var batches []types.RecommendationBatch
	for rows.Next() {
		var (
			b         types.RecommendationBatch
			cropsJSON string
			createdAt int64
		)
		if err := rows.Scan(&b.FarmerID, &cropsJSON, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		if err := json.Unmarshal([]byte(cropsJSON), &b.Crops); err != nil {
			return nil, fmt.Errorf("decoding crops for farmer %s: %w", b.FarmerID, err)
		}
		b.CreatedAt = time.Unix(0, createdAt).UTC()
		batches = append(batches, b)
	}
	return batches, rows.Err()
}

// --- farmers ---

// UpsertFarmer validates and stores a farmer profile, replacing any
// previous profile with the same ID.
func (s *Store) UpsertFarmer(ctx context.Context, f types.FarmerProfile) error {
	if err := f.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("encoding farmer: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO farmers (id, profile, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET profile=excluded.profile, updated_at=excluded.updated_at`,
		f.ID, string(data), time.Now().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("upserting farmer %s: %w", f.ID, err)
	}
	return nil
}

// Farmer returns the stored profile for id.
func (s *Store) Farmer(ctx context.Context, id string) (types.FarmerProfile, bool, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT profile FROM farmers WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return types.FarmerProfile{}, false, nil
	}
	if err != nil {
		return types.FarmerProfile{}, false, fmt.Errorf("looking up farmer %s: %w", id, err)
	}
	var f types.FarmerProfile
	if err := json.Unmarshal([]byte(data), &f); err != nil {
		return types.FarmerProfile{}, false, fmt.Errorf("decoding farmer %s: %w", id, err)
	}
	return f, true, nil
}

// --- catalog ---

// ImportCatalog replaces the stored catalog with crops, preserving their
// order. Every crop is validated before anything is written.
func (s *Store) ImportCatalog(ctx context.Context, crops []types.CropProfile) error {
	for _, c := range crops {
		if err := c.Validate(); err != nil {
			return err
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM crops`); err != nil {
		return fmt.Errorf("clearing catalog: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO crops (id, position, name, profile) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, c := range crops {
		data, err := json.Marshal(c)
		if err != nil {
			return fmt.Errorf("encoding crop %s: %w", c.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, c.ID, i, c.Name, string(data)); err != nil {
			return fmt.Errorf("inserting crop %s: %w", c.ID, err)
		}
	}

	return tx.Commit()
}

// SeedCatalog imports crops only when the stored catalog is empty. It
// reports whether anything was written.
func (s *Store) SeedCatalog(ctx context.Context, crops []types.CropProfile) (bool, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM crops`).Scan(&count); err != nil {
		return false, fmt.Errorf("counting crops: %w", err)
	}
	if count > 0 {
		return false, nil
	}
	if err := s.ImportCatalog(ctx, crops); err != nil {
		return false, err
	}
	return true, nil
}

// Catalog returns the stored crops in catalog order.
func (s *Store) Catalog(ctx context.Context) ([]types.CropProfile, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT profile FROM crops ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("querying catalog: %w", err)
	}
	defer rows.Close()

	var crops []types.CropProfile
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		var c types.CropProfile
		if err := json.Unmarshal([]byte(data), &c); err != nil {
			return nil, fmt.Errorf("decoding crop: %w", err)
		}
		crops = append(crops, c)
	}
	return crops, rows.Err()
}
