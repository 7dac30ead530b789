package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/asterhomes/preference-matching/internal/domain"
	"github.com/asterhomes/preference-matching/internal/matching"
)

// SQLiteStore persists listings and preferences. It implements the engine's
// PreferenceSource and ListingSource boundaries.
type SQLiteStore struct {
	db *sql.DB
}

func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`PRAGMA journal_mode=WAL;`); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.Exec(`PRAGMA foreign_keys=ON;`); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

// Ping verifies the database file is reachable, for health checks.
func (s *SQLiteStore) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *SQLiteStore) EnsureSchema() error {
	const createListings = `
CREATE TABLE IF NOT EXISTS listings (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  brief_type TEXT NOT NULL,
  property_type TEXT NOT NULL DEFAULT '',
  building_type TEXT NOT NULL DEFAULT '',
  condition TEXT NOT NULL DEFAULT '',
  state TEXT NOT NULL DEFAULT '',
  lga TEXT NOT NULL DEFAULT '',
  area TEXT NOT NULL DEFAULT '',
  price REAL NOT NULL,
  bedrooms INTEGER NOT NULL DEFAULT 0,
  bathrooms INTEGER NOT NULL DEFAULT 0,
  land_size REAL NOT NULL DEFAULT 0,
  max_guests INTEGER NOT NULL DEFAULT 0,
  features_json TEXT NOT NULL DEFAULT '[]',
  documents_json TEXT NOT NULL DEFAULT '[]',
  pictures_json TEXT NOT NULL DEFAULT '[]',
  house_rules_json TEXT NOT NULL DEFAULT '{}',
  bookings_json TEXT NOT NULL DEFAULT '[]',
  is_approved INTEGER NOT NULL DEFAULT 0,
  is_rejected INTEGER NOT NULL DEFAULT 0,
  is_deleted INTEGER NOT NULL DEFAULT 0,
  created_at TEXT NOT NULL
);
`
	const createPreferences = `
CREATE TABLE IF NOT EXISTS preferences (
  id TEXT PRIMARY KEY,
  mode TEXT NOT NULL,
  payload_json TEXT NOT NULL,
  created_at TEXT NOT NULL
);
`
	if _, err := s.db.Exec(createListings); err != nil {
		return err
	}
	if _, err := s.db.Exec(createPreferences); err != nil {
		return err
	}

	for _, idx := range []string{
		`CREATE INDEX IF NOT EXISTS idx_listings_brief_type ON listings(brief_type);`,
		`CREATE INDEX IF NOT EXISTS idx_listings_state ON listings(state);`,
		`CREATE INDEX IF NOT EXISTS idx_listings_price ON listings(price);`,
	} {
		if _, err := s.db.Exec(idx); err != nil {
			return err
		}
	}
	return nil
}

const listingColumns = `id, title, brief_type, property_type, building_type, condition,
state, lga, area, price, bedrooms, bathrooms, land_size, max_guests,
features_json, documents_json, pictures_json, house_rules_json, bookings_json,
is_approved, is_rejected, is_deleted, created_at`

func (s *SQLiteStore) CountListings() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM listings`).Scan(&n)
	return n, err
}

// UpsertListings inserts a seed dataset without duplicating by id.
func (s *SQLiteStore) UpsertListings(items []domain.Listing) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
INSERT OR IGNORE INTO listings (` + listingColumns + `)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, l := range items {
		args, err := listingArgs(l)
		if err != nil {
			return err
		}
		if _, err := stmt.Exec(args...); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) CreateListing(l domain.Listing) error {
	args, err := listingArgs(l)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`
INSERT INTO listings (`+listingColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, args...)
	return err
}

func listingArgs(l domain.Listing) ([]any, error) {
	features, err := json.Marshal(emptyIfNil(l.Features))
	if err != nil {
		return nil, err
	}
	documents, err := json.Marshal(emptyIfNil(l.Documents))
	if err != nil {
		return nil, err
	}
	pictures, err := json.Marshal(emptyIfNil(l.Pictures))
	if err != nil {
		return nil, err
	}
	rules, err := json.Marshal(l.HouseRules)
	if err != nil {
		return nil, err
	}
	bookings, err := json.Marshal(l.Bookings)
	if err != nil {
		return nil, err
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().UTC()
	}
	return []any{
		l.ID, l.Title, l.BriefType, l.PropertyType, l.BuildingType, l.Condition,
		l.Location.State, l.Location.LGA, l.Location.Area,
		l.Price, l.Bedrooms, l.Bathrooms, l.LandSize, l.MaxGuests,
		string(features), string(documents), string(pictures), string(rules), string(bookings),
		boolToInt(l.IsApproved), boolToInt(l.IsRejected), boolToInt(l.IsDeleted),
		l.CreatedAt.Format(time.RFC3339),
	}, nil
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (s *SQLiteStore) GetListing(id string) (domain.Listing, bool, error) {
	row := s.db.QueryRow(`SELECT `+listingColumns+` FROM listings WHERE id = ?`, id)
	l, err := scanListing(row)
	if err == sql.ErrNoRows {
		return domain.Listing{}, false, nil
	}
	if err != nil {
		return domain.Listing{}, false, err
	}
	return l, true, nil
}

// SoftDeleteListing marks a listing deleted; it stays in the table but drops
// out of matching and catalog responses.
func (s *SQLiteStore) SoftDeleteListing(id string) (bool, error) {
	res, err := s.db.Exec(`UPDATE listings SET is_deleted = 1 WHERE id = ? AND is_deleted = 0`, id)
	if err != nil {
		return false, err
	}
	aff, _ := res.RowsAffected()
	return aff > 0, nil
}

// ListFilter narrows the catalog listing endpoint.
type ListFilter struct {
	State       string
	BriefType   string
	MinPrice    float64
	MaxPrice    float64
	MinBedrooms int
	Sort        string
}

// ListListings returns active listings for the catalog API, with optional
// filters, a deterministic order, and the total matching count.
func (s *SQLiteStore) ListListings(limit, offset int, f ListFilter) ([]domain.Listing, int, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	where := []string{"is_deleted = 0", "is_rejected = 0"}
	args := make([]any, 0, 8)

	if strings.TrimSpace(f.State) != "" {
		where = append(where, "LOWER(state) = LOWER(?)")
		args = append(args, strings.TrimSpace(f.State))
	}
	if f.BriefType != "" {
		where = append(where, "brief_type = ?")
		args = append(args, f.BriefType)
	}
	if f.MinPrice > 0 {
		where = append(where, "price >= ?")
		args = append(args, f.MinPrice)
	}
	if f.MaxPrice > 0 {
		where = append(where, "price <= ?")
		args = append(args, f.MaxPrice)
	}
	if f.MinBedrooms > 0 {
		where = append(where, "bedrooms >= ?")
		args = append(args, f.MinBedrooms)
	}

	whereSQL := "WHERE " + strings.Join(where, " AND ")

	orderSQL := "ORDER BY created_at, id"
	switch f.Sort {
	case "price_asc":
		orderSQL = "ORDER BY price ASC, id"
	case "price_desc":
		orderSQL = "ORDER BY price DESC, id"
	}

	var total int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM listings "+whereSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rowsArgs := append(append([]any{}, args...), limit, offset)
	rows, err := s.db.Query(
		"SELECT "+listingColumns+" FROM listings "+whereSQL+"\n"+orderSQL+"\nLIMIT ? OFFSET ?",
		rowsArgs...,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []domain.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, l)
	}
	return out, total, rows.Err()
}

// FetchListings executes a hard-filter predicate. Scalar clauses are pushed
// into the WHERE; list-membership, document, and booking-window clauses are
// evaluated through Predicate.Matches before a row is returned, so the output
// always satisfies the full conjunction. Fetch order is creation order, which
// fixes tie order downstream.
func (s *SQLiteStore) FetchListings(ctx context.Context, p matching.Predicate) ([]domain.Listing, error) {
	where := []string{"is_deleted = 0", "is_rejected = 0", "is_approved = 1"}
	args := make([]any, 0, 12)

	if p.BriefType != "" {
		where = append(where, "brief_type = ?")
		args = append(args, p.BriefType)
	}
	if p.State != "" {
		where = append(where, "LOWER(state) = LOWER(?)")
		args = append(args, p.State)
	}
	if p.MinPrice > 0 {
		where = append(where, "price >= ?")
		args = append(args, p.MinPrice)
	}
	if p.MaxPrice > 0 {
		where = append(where, "price <= ?")
		args = append(args, p.MaxPrice)
	}
	if p.MinBedrooms > 0 {
		where = append(where, "bedrooms >= ?")
		args = append(args, p.MinBedrooms)
	}
	if p.MinBathrooms > 0 {
		where = append(where, "bathrooms >= ?")
		args = append(args, p.MinBathrooms)
	}
	if p.PropertyType != "" {
		where = append(where, "LOWER(property_type) = LOWER(?)")
		args = append(args, p.PropertyType)
	}
	if p.BuildingType != "" {
		where = append(where, "LOWER(building_type) = LOWER(?)")
		args = append(args, p.BuildingType)
	}
	if p.Condition != "" {
		where = append(where, "LOWER(condition) = LOWER(?)")
		args = append(args, p.Condition)
	}
	if p.MinLandSize > 0 {
		where = append(where, "land_size >= ?")
		args = append(args, p.MinLandSize)
	}
	if p.MaxLandSize > 0 {
		where = append(where, "land_size <= ?")
		args = append(args, p.MaxLandSize)
	}
	if p.Shortlet != nil && p.Shortlet.Guests > 0 {
		where = append(where, "max_guests >= ?")
		args = append(args, p.Shortlet.Guests)
	}

	query := "SELECT " + listingColumns + " FROM listings WHERE " +
		strings.Join(where, " AND ") + " ORDER BY created_at, id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query listings: %w", err)
	}
	defer rows.Close()

	var out []domain.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("scan listing: %w", err)
		}
		if p.Matches(l) {
			out = append(out, l)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate listings: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanListing(row rowScanner) (domain.Listing, error) {
	var l domain.Listing
	var features, documents, pictures, rules, bookings, createdAt string
	var approved, rejected, deleted int

	err := row.Scan(
		&l.ID, &l.Title, &l.BriefType, &l.PropertyType, &l.BuildingType, &l.Condition,
		&l.Location.State, &l.Location.LGA, &l.Location.Area,
		&l.Price, &l.Bedrooms, &l.Bathrooms, &l.LandSize, &l.MaxGuests,
		&features, &documents, &pictures, &rules, &bookings,
		&approved, &rejected, &deleted, &createdAt,
	)
	if err != nil {
		return domain.Listing{}, err
	}

	_ = json.Unmarshal([]byte(features), &l.Features)
	_ = json.Unmarshal([]byte(documents), &l.Documents)
	_ = json.Unmarshal([]byte(pictures), &l.Pictures)
	_ = json.Unmarshal([]byte(rules), &l.HouseRules)
	_ = json.Unmarshal([]byte(bookings), &l.Bookings)
	l.IsApproved = approved == 1
	l.IsRejected = rejected == 1
	l.IsDeleted = deleted == 1
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		l.CreatedAt = t
	}
	return l, nil
}

// CreatePreference stores a validated preference document.
func (s *SQLiteStore) CreatePreference(p domain.Preference) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	payload, err := json.Marshal(p)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`
INSERT INTO preferences (id, mode, payload_json, created_at) VALUES (?, ?, ?, ?)
`, p.ID, string(p.Mode), string(payload), p.CreatedAt.Format(time.RFC3339))
	return err
}

// GetPreference implements matching.PreferenceSource.
func (s *SQLiteStore) GetPreference(ctx context.Context, id string) (domain.Preference, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload_json FROM preferences WHERE id = ?`, id).Scan(&payload)
	if err == sql.ErrNoRows {
		return domain.Preference{}, &domain.NotFoundError{Resource: "preference", ID: id}
	}
	if err != nil {
		return domain.Preference{}, fmt.Errorf("query preference: %w", err)
	}

	var p domain.Preference
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return domain.Preference{}, fmt.Errorf("decode preference %s: %w", id, err)
	}
	return p, nil
}
