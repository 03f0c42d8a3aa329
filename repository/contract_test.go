package repository

import (
	"github.com/tnqbao/gau-document-service/ingestion"
)

// The production repositories must keep satisfying the store contracts the
// ingestion service is wired with.
var (
	_ ingestion.JobStore      = (*IngestionJobRepository)(nil)
	_ ingestion.DocumentStore = (*DocumentRepository)(nil)
	_ ingestion.IdentityStore = (*UserRepository)(nil)
)
