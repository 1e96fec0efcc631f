package pgsql

import (
	portsrepo "github.com/hotwellkz/app66/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	categoryRepo := newPgxCategoryRepository(dbPool)
	ledgerRepo := newPgxLedgerRepository(dbPool, categoryRepo)

	return portsrepo.RepositoryProvider{
		CategoryRepo: categoryRepo,
		LedgerRepo:   ledgerRepo,
	}
}
