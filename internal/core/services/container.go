package services

import (
	portsrepo "github.com/hotwellkz/app66/internal/core/ports/repositories"
	portssvc "github.com/hotwellkz/app66/internal/core/ports/services"
)

// NewContainer creates a service container with properly initialized dependencies.
func NewContainer(repos *portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		Category: NewCategoryService(repos.CategoryRepo),
		Ledger:   NewLedgerService(repos.LedgerRepo, repos.CategoryRepo),
	}
}
