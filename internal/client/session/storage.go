package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/petadopt/internal/client/models"
	"github.com/dmitrijs2005/petadopt/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/petadopt/internal/common"
	"github.com/dmitrijs2005/petadopt/internal/dbx"
)

// Storage persists the session across runs.
type Storage interface {
	// Load returns an empty token and nil user when nothing is stored.
	Load(ctx context.Context) (string, *models.User, error)
	Save(ctx context.Context, token string, user models.User) error
	SaveUser(ctx context.Context, user models.User) error
	Clear(ctx context.Context) error
}

// SQLiteStorage keeps the session in the metadata table.
type SQLiteStorage struct {
	db *sql.DB
}

func NewSQLiteStorage(db *sql.DB) *SQLiteStorage {
	return &SQLiteStorage{db: db}
}

func (s *SQLiteStorage) Load(ctx context.Context) (string, *models.User, error) {
	repo := metadata.NewSQLiteRepository(s.db)

	token, err := repo.Get(ctx, common.StorageKeyToken)
	if errors.Is(err, common.ErrNotFound) {
		return "", nil, nil
	}
	if err != nil {
		return "", nil, err
	}

	raw, err := repo.Get(ctx, common.StorageKeyUser)
	if errors.Is(err, common.ErrNotFound) {
		return string(token), nil, nil
	}
	if err != nil {
		return "", nil, err
	}

	var u models.User
	if err := json.Unmarshal(raw, &u); err != nil {
		return "", nil, fmt.Errorf("decode stored user: %w", err)
	}
	return string(token), &u, nil
}

func (s *SQLiteStorage) Save(ctx context.Context, token string, user models.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, common.StorageKeyToken, []byte(token)); err != nil {
			return err
		}
		return repo.Set(ctx, common.StorageKeyUser, raw)
	})
}

func (s *SQLiteStorage) SaveUser(ctx context.Context, user models.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	return metadata.NewSQLiteRepository(s.db).Set(ctx, common.StorageKeyUser, raw)
}

func (s *SQLiteStorage) Clear(ctx context.Context) error {
	return metadata.NewSQLiteRepository(s.db).Delete(ctx, common.StorageKeyToken, common.StorageKeyUser)
}
