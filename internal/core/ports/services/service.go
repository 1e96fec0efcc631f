package services

// ServiceContainer holds all service facades needed by the HTTP layer.
type ServiceContainer struct {
	Category CategorySvcFacade
	Ledger   LedgerSvcFacade
}
