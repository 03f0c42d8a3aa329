package repository

import (
	"github.com/tnqbao/gau-document-service/infra"
)

type Repository struct {
	UserRepo         *UserRepository
	DocumentRepo     *DocumentRepository
	IngestionJobRepo *IngestionJobRepository
}

var repository *Repository

func InitRepository(infra *infra.Infra) *Repository {
	repository = &Repository{
		UserRepo:         NewUserRepository(infra.Postgres.DB, infra.Redis),
		DocumentRepo:     NewDocumentRepository(infra.Postgres.DB),
		IngestionJobRepo: NewIngestionJobRepository(infra.Postgres.DB),
	}
	return repository
}

func GetRepository() *Repository {
	if repository == nil {
		panic("repository not initialized")
	}
	return repository
}
