package controller

import (
	"encoding/json"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tnqbao/gau-document-service/authz"
	"github.com/tnqbao/gau-document-service/entity"
	"github.com/tnqbao/gau-document-service/http/controller/dto"
	"github.com/tnqbao/gau-document-service/utils"
	"gorm.io/datatypes"
)

func (ctrl *Controller) UploadDocument(c *gin.Context) {
	ctx := c.Request.Context()

	actor, err := utils.GetActorFromContext(c)
	if err != nil {
		utils.JSON401(c, "Unauthorized: "+err.Error())
		return
	}

	title := c.PostForm("title")
	if title == "" {
		utils.JSON400(c, "title is required")
		return
	}
	description := c.PostForm("description")

	var metadata datatypes.JSON
	if raw := c.PostForm("metadata"); raw != "" {
		if !json.Valid([]byte(raw)) {
			utils.JSON400(c, "metadata must be valid JSON")
			return
		}
		metadata = datatypes.JSON(raw)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Document] Failed to get file from form data")
		utils.JSON400(c, "Failed to get file: "+err.Error())
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	file, err := fileHeader.Open()
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Document] Failed to open uploaded file")
		utils.JSON500(c, "Failed to read uploaded file")
		return
	}
	defer file.Close()

	documentID := uuid.New()
	storageKey := documentID.String() + filepath.Ext(fileHeader.Filename)

	ctrl.Infra.Logger.InfoWithContextf(ctx, "[Document] Uploading '%s' (size: %d bytes) for user %s",
		fileHeader.Filename, fileHeader.Size, actor.ID)

	if err := ctrl.Infra.Minio.PutObject(ctx, storageKey, file, fileHeader.Size, contentType); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Document] Failed to store file in MinIO: %v", err)
		utils.JSON500(c, "Failed to store file")
		return
	}

	document := &entity.Document{
		ID:          documentID,
		Title:       title,
		Description: description,
		ContentType: contentType,
		Size:        fileHeader.Size,
		StorageKey:  storageKey,
		Metadata:    metadata,
		CreatedByID: actor.ID,
	}

	if err := ctrl.Repository.DocumentRepo.Create(document); err != nil {
		// Rollback the stored object so MinIO and Postgres stay consistent.
		if rollbackErr := ctrl.Infra.Minio.DeleteObject(ctx, storageKey); rollbackErr != nil {
			ctrl.Infra.Logger.ErrorWithContextf(ctx, rollbackErr, "[Document] Failed to rollback MinIO object after database error: %v", rollbackErr)
		}
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Document] Failed to create document in database: %v", err)
		utils.JSON500(c, "Failed to create document in database")
		return
	}

	ctrl.Infra.Logger.InfoWithContextf(ctx, "[Document] Successfully created document: %s", document.ID)
	utils.JSON201(c, gin.H{
		"message":  "Document uploaded successfully",
		"document": document,
	})
}

func (ctrl *Controller) ListDocuments(c *gin.Context) {
	ctx := c.Request.Context()

	actor, err := utils.GetActorFromContext(c)
	if err != nil {
		utils.JSON401(c, "Unauthorized: "+err.Error())
		return
	}

	var documents []entity.Document
	if actor.Role == entity.RoleAdmin {
		documents, err = ctrl.Repository.DocumentRepo.FindAll()
	} else {
		documents, err = ctrl.Repository.DocumentRepo.FindByOwner(actor.ID)
	}
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Document] Failed to list documents: %v", err)
		utils.JSON500(c, "Failed to list documents")
		return
	}

	utils.JSON200(c, gin.H{"documents": documents})
}

func (ctrl *Controller) GetDocumentByID(c *gin.Context) {
	document, ok := ctrl.loadDocumentForActor(c)
	if !ok {
		return
	}
	utils.JSON200(c, gin.H{"document": document})
}

func (ctrl *Controller) UpdateDocument(c *gin.Context) {
	ctx := c.Request.Context()

	document, ok := ctrl.loadDocumentForActor(c)
	if !ok {
		return
	}

	var req dto.UpdateDocumentRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSON400(c, "Invalid request payload")
		return
	}

	if req.Title != nil {
		document.Title = *req.Title
	}
	if req.Description != nil {
		document.Description = *req.Description
	}

	if err := ctrl.Repository.DocumentRepo.Update(document); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Document] Failed to update document %s: %v", document.ID, err)
		utils.JSON500(c, "Failed to update document")
		return
	}

	ctrl.Infra.Logger.InfoWithContextf(ctx, "[Document] Updated document: %s", document.ID)
	utils.JSON200(c, gin.H{"document": document})
}

func (ctrl *Controller) DeleteDocument(c *gin.Context) {
	ctx := c.Request.Context()

	document, ok := ctrl.loadDocumentForActor(c)
	if !ok {
		return
	}

	if err := ctrl.Infra.Minio.DeleteObject(ctx, document.StorageKey); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Document] Failed to delete file for document %s: %v", document.ID, err)
		utils.JSON500(c, "Failed to delete document file")
		return
	}

	if err := ctrl.Repository.DocumentRepo.Delete(document.ID); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Document] Failed to delete document %s: %v", document.ID, err)
		utils.JSON500(c, "Failed to delete document")
		return
	}

	ctrl.Infra.Logger.InfoWithContextf(ctx, "[Document] Deleted document: %s", document.ID)
	utils.JSON200(c, gin.H{"message": "Document deleted successfully"})
}

func (ctrl *Controller) DownloadDocument(c *gin.Context) {
	ctx := c.Request.Context()

	document, ok := ctrl.loadDocumentForActor(c)
	if !ok {
		return
	}

	// GetObject defers errors to the first read, so stat first to give a
	// clean 404 when the object is gone and to serve live object info.
	info, err := ctrl.Infra.Minio.StatObject(ctx, document.StorageKey)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Document] Failed to stat file for document %s: %v", document.ID, err)
		utils.JSON404(c, "Document file not found")
		return
	}

	reader, err := ctrl.Infra.Minio.GetObject(ctx, document.StorageKey)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Document] Failed to fetch file for document %s: %v", document.ID, err)
		utils.JSON404(c, "Document file not found")
		return
	}
	defer reader.Close()

	contentType := info.ContentType
	if contentType == "" {
		contentType = document.ContentType
	}

	c.Header("Content-Disposition", "attachment; filename="+document.StorageKey)
	c.DataFromReader(200, info.Size, contentType, reader, nil)
}

// loadDocumentForActor resolves the :id document and enforces the
// owner-or-admin rule. On failure it writes the response and returns false.
func (ctrl *Controller) loadDocumentForActor(c *gin.Context) (*entity.Document, bool) {
	ctx := c.Request.Context()

	actor, err := utils.GetActorFromContext(c)
	if err != nil {
		utils.JSON401(c, "Unauthorized: "+err.Error())
		return nil, false
	}

	documentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.JSON400(c, "Invalid document id format")
		return nil, false
	}

	document, found, err := ctrl.Repository.DocumentRepo.GetByID(ctx, documentID)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Document] Failed to load document %s: %v", documentID, err)
		utils.JSON500(c, "Failed to load document")
		return nil, false
	}
	if !found {
		utils.JSON404(c, "Document not found")
		return nil, false
	}

	if !authz.CanAccessDocument(actor, document) {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[Document] User %s attempted to access document %s owned by %s",
			actor.ID, document.ID, document.CreatedByID)
		utils.JSON403(c, "Forbidden: you don't have permission to access this document")
		return nil, false
	}

	return document, true
}
