package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/lostfound/internal/client/models"
	"github.com/dmitrijs2005/lostfound/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/lostfound/internal/common"
	"github.com/dmitrijs2005/lostfound/internal/dbx"
)

// Store persists the cached session under the "user" and "token" keys.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) repo(tx dbx.DBTX) metadata.Repository {
	return metadata.NewSQLiteRepository(tx)
}

// Load returns the cached user and token. Either may be absent (nil, "").
// An undecodable user blob is reported as an error.
func (s *Store) Load(ctx context.Context) (*models.User, string, error) {
	r := s.repo(s.db)

	token, err := r.Get(ctx, common.CacheKeyToken)
	if err != nil {
		return nil, "", err
	}

	raw, err := r.Get(ctx, common.CacheKeyUser)
	if err != nil {
		return nil, "", err
	}
	if len(raw) == 0 {
		return nil, string(token), nil
	}

	var u models.User
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, string(token), fmt.Errorf("decode cached user: %w", err)
	}
	return &u, string(token), nil
}

// Save replaces the cached user and token in one transaction. An empty token
// removes any previously stored one (cookie-only sessions).
func (s *Store) Save(ctx context.Context, u *models.User, token string) error {
	blob, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		r := s.repo(tx)
		if err := r.Set(ctx, common.CacheKeyUser, blob); err != nil {
			return err
		}
		if token == "" {
			return r.Delete(ctx, common.CacheKeyToken)
		}
		return r.Set(ctx, common.CacheKeyToken, []byte(token))
	})
}

// SaveUser overwrites only the cached user, keeping the token.
func (s *Store) SaveUser(ctx context.Context, u *models.User) error {
	blob, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	return s.repo(s.db).Set(ctx, common.CacheKeyUser, blob)
}

// Clear removes both keys.
func (s *Store) Clear(ctx context.Context) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		r := s.repo(tx)
		if err := r.Delete(ctx, common.CacheKeyUser); err != nil {
			return err
		}
		return r.Delete(ctx, common.CacheKeyToken)
	})
}
