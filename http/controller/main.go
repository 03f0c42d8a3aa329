package controller

import (
	"github.com/tnqbao/gau-document-service/config"
	"github.com/tnqbao/gau-document-service/infra"
	"github.com/tnqbao/gau-document-service/ingestion"
	"github.com/tnqbao/gau-document-service/repository"
)

type Controller struct {
	Config     *config.Config
	Infra      *infra.Infra
	Repository *repository.Repository
	Ingestion  *ingestion.Service
}

func NewController(cfg *config.Config, infra *infra.Infra, repo *repository.Repository) *Controller {
	ingestionService := ingestion.NewService(
		ingestion.Config{},
		repo.IngestionJobRepo,
		repo.DocumentRepo,
		repo.UserRepo,
		infra.Logger,
		infra.Produce.IngestionService,
	)

	return &Controller{
		Config:     cfg,
		Infra:      infra,
		Repository: repo,
		Ingestion:  ingestionService,
	}
}
