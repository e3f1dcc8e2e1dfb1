package cities

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/tealives/tealives-client/internal/client/repositories/metadata"
	"github.com/tealives/tealives-client/internal/common"
	"github.com/tealives/tealives-client/internal/dbx"
)

// Store persists the cache record: the city list and its absolute expiry.
type Store interface {
	// Load returns the cached list if a valid, unexpired record exists at
	// now. Expired or malformed records are deleted and reported as a miss.
	Load(ctx context.Context, now time.Time) (cities []string, ok bool, err error)
	Save(ctx context.Context, cities []string, expiresAt time.Time) error
	Clear(ctx context.Context) error
}

// SQLiteStore keeps the record in the metadata table: the JSON list under
// common.CitiesKey and the expiry, in milliseconds since the epoch, under
// common.CitiesExpiryKey.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Load(ctx context.Context, now time.Time) ([]string, bool, error) {
	repo := metadata.NewSQLiteRepository(s.db)

	rawList, err := repo.Get(ctx, common.CitiesKey)
	if err != nil {
		return nil, false, err
	}
	rawExpiry, err := repo.Get(ctx, common.CitiesExpiryKey)
	if err != nil {
		return nil, false, err
	}
	if rawList == nil && rawExpiry == nil {
		return nil, false, nil
	}

	cities, ok := decodeRecord(rawList, rawExpiry, now)
	if !ok {
		if err := s.Clear(ctx); err != nil {
			return nil, false, err
		}
		return nil, false, nil
	}
	return cities, true, nil
}

func decodeRecord(rawList, rawExpiry []byte, now time.Time) ([]string, bool) {
	if rawList == nil || rawExpiry == nil {
		return nil, false
	}

	expiry, err := strconv.ParseInt(string(rawExpiry), 10, 64)
	if err != nil {
		return nil, false
	}
	if now.UnixMilli() >= expiry {
		return nil, false
	}

	var cities []string
	if err := json.Unmarshal(rawList, &cities); err != nil {
		return nil, false
	}
	return cities, true
}

// Save writes list and expiry in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, cities []string, expiresAt time.Time) error {
	list, err := json.Marshal(cities)
	if err != nil {
		return fmt.Errorf("encode cities: %w", err)
	}
	expiry := strconv.FormatInt(expiresAt.UnixMilli(), 10)

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, common.CitiesKey, list); err != nil {
			return err
		}
		return repo.Set(ctx, common.CitiesExpiryKey, []byte(expiry))
	})
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	return metadata.NewSQLiteRepository(s.db).Delete(ctx, common.CitiesKey, common.CitiesExpiryKey)
}
