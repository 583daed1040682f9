// Package pets keeps an offline copy of the most recently fetched catalogue
// page in the local sqlite database.
//
// The cache is a snapshot, not a replica: ReplaceAll swaps its whole content
// and List returns pets in the order they were stored. Each row keeps the
// pet as JSON plus a few columns used for filtering.
//
//	repo := pets.NewSQLiteRepository(db)
//	_ = repo.ReplaceAll(ctx, page.Pets)
//	cached, _ := repo.List(ctx)
package pets
