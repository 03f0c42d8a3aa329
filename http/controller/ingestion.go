package controller

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tnqbao/gau-document-service/entity"
	"github.com/tnqbao/gau-document-service/http/controller/dto"
	"github.com/tnqbao/gau-document-service/ingestion"
	"github.com/tnqbao/gau-document-service/utils"
)

func (ctrl *Controller) CreateIngestionJob(c *gin.Context) {
	ctx := c.Request.Context()

	actor, err := utils.GetActorFromContext(c)
	if err != nil {
		utils.JSON401(c, "Unauthorized: "+err.Error())
		return
	}

	var req dto.CreateIngestionJobRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Ingestion] Failed to bind JSON: %v", err)
		utils.JSON400(c, "Invalid request payload")
		return
	}

	documentID, err := uuid.Parse(req.DocumentID)
	if err != nil {
		utils.JSON400(c, "Invalid document_id format")
		return
	}

	job, err := ctrl.Ingestion.Create(ctx, documentID, actor.ID)
	if err != nil {
		ctrl.respondIngestionError(c, err)
		return
	}

	ctrl.Infra.Logger.InfoWithContextf(ctx, "[Ingestion] Created job %s for document %s", job.ID, documentID)
	utils.JSON201(c, gin.H{"job": job})
}

func (ctrl *Controller) ListIngestionJobs(c *gin.Context) {
	ctx := c.Request.Context()

	actor, err := utils.GetActorFromContext(c)
	if err != nil {
		utils.JSON401(c, "Unauthorized: "+err.Error())
		return
	}

	jobs, err := ctrl.Ingestion.List(ctx, actor)
	if err != nil {
		ctrl.respondIngestionError(c, err)
		return
	}

	utils.JSON200(c, gin.H{"jobs": jobs})
}

func (ctrl *Controller) GetIngestionJobByID(c *gin.Context) {
	ctx := c.Request.Context()

	actor, err := utils.GetActorFromContext(c)
	if err != nil {
		utils.JSON401(c, "Unauthorized: "+err.Error())
		return
	}

	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.JSON400(c, "Invalid job id format")
		return
	}

	job, err := ctrl.Ingestion.Get(ctx, jobID, actor)
	if err != nil {
		ctrl.respondIngestionError(c, err)
		return
	}

	utils.JSON200(c, gin.H{"job": job})
}

func (ctrl *Controller) UpdateIngestionJob(c *gin.Context) {
	ctx := c.Request.Context()

	actor, err := utils.GetActorFromContext(c)
	if err != nil {
		utils.JSON401(c, "Unauthorized: "+err.Error())
		return
	}

	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.JSON400(c, "Invalid job id format")
		return
	}

	var req dto.UpdateIngestionJobRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSON400(c, "Invalid request payload")
		return
	}

	patch := ingestion.JobPatch{Output: req.Output}
	if req.Status != nil {
		status := entity.JobStatus(*req.Status)
		patch.Status = &status
	}

	job, err := ctrl.Ingestion.Update(ctx, jobID, patch, actor)
	if err != nil {
		ctrl.respondIngestionError(c, err)
		return
	}

	ctrl.Infra.Logger.InfoWithContextf(ctx, "[Ingestion] Admin %s updated job %s", actor.ID, jobID)
	utils.JSON200(c, gin.H{"job": job})
}

func (ctrl *Controller) CancelIngestionJob(c *gin.Context) {
	ctx := c.Request.Context()

	actor, err := utils.GetActorFromContext(c)
	if err != nil {
		utils.JSON401(c, "Unauthorized: "+err.Error())
		return
	}

	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.JSON400(c, "Invalid job id format")
		return
	}

	job, err := ctrl.Ingestion.Cancel(ctx, jobID, actor)
	if err != nil {
		ctrl.respondIngestionError(c, err)
		return
	}

	ctrl.Infra.Logger.InfoWithContextf(ctx, "[Ingestion] Job %s cancelled by %s", jobID, actor.ID)
	utils.JSON200(c, gin.H{"job": job})
}

func (ctrl *Controller) ListIngestionJobsByDocument(c *gin.Context) {
	ctx := c.Request.Context()

	actor, err := utils.GetActorFromContext(c)
	if err != nil {
		utils.JSON401(c, "Unauthorized: "+err.Error())
		return
	}

	documentID, err := uuid.Parse(c.Param("document_id"))
	if err != nil {
		utils.JSON400(c, "Invalid document id format")
		return
	}

	jobs, err := ctrl.Ingestion.ListByDocument(ctx, documentID, actor)
	if err != nil {
		ctrl.respondIngestionError(c, err)
		return
	}

	utils.JSON200(c, gin.H{"jobs": jobs})
}

// respondIngestionError maps the service's error kinds onto HTTP responses.
func (ctrl *Controller) respondIngestionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ingestion.ErrNotFound):
		utils.JSON404(c, err.Error())
	case errors.Is(err, ingestion.ErrUnauthorized):
		utils.JSON401(c, err.Error())
	case errors.Is(err, ingestion.ErrInvalidState):
		utils.JSON400(c, err.Error())
	case errors.Is(err, ingestion.ErrConflict):
		utils.JSON409(c, err.Error())
	default:
		ctrl.Infra.Logger.ErrorWithContextf(c.Request.Context(), err, "[Ingestion] Unexpected error: %v", err)
		utils.JSON500(c, "Internal server error")
	}
}
