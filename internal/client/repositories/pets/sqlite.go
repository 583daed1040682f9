package pets

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/petadopt/internal/client/models"
	"github.com/dmitrijs2005/petadopt/internal/common"
	"github.com/dmitrijs2005/petadopt/internal/dbx"
)

// SQLiteRepository implements Repository over a *sql.DB. ReplaceAll runs in
// its own transaction.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) ReplaceAll(ctx context.Context, list []models.Pet) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM pets_cache`); err != nil {
			return fmt.Errorf("failed to clear pets cache: %w", err)
		}

		for i, p := range list {
			payload, err := json.Marshal(p)
			if err != nil {
				return fmt.Errorf("failed to encode pet %s: %w", p.ID, err)
			}
			_, err = tx.ExecContext(ctx, `
				INSERT INTO pets_cache (id, position, name, species, adopted, payload)
				VALUES (?, ?, ?, ?, ?, ?)
				ON CONFLICT(id) DO UPDATE SET position = excluded.position,
					name = excluded.name,
					species = excluded.species,
					adopted = excluded.adopted,
					payload = excluded.payload
			`, p.ID, i, p.Name, p.Species, p.Adopted, payload)
			if err != nil {
				return fmt.Errorf("failed to cache pet %s: %w", p.ID, err)
			}
		}
		return nil
	})
}

func (r *SQLiteRepository) List(ctx context.Context) ([]models.Pet, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT payload FROM pets_cache ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to select cached pets: %w", err)
	}
	defer rows.Close()

	result := []models.Pet{}
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan cached pet: %w", err)
		}
		var p models.Pet
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, fmt.Errorf("failed to decode cached pet: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Pet, error) {
	var payload []byte
	err := r.db.QueryRowContext(ctx, `SELECT payload FROM pets_cache WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cached pet %s: %w", id, err)
	}

	p := &models.Pet{}
	if err := json.Unmarshal(payload, p); err != nil {
		return nil, fmt.Errorf("failed to decode cached pet: %w", err)
	}
	return p, nil
}
