// Package authz centralizes the ownership/role checks that gate every
// document and ingestion job operation.
package authz

import (
	"github.com/google/uuid"
	"github.com/tnqbao/gau-document-service/entity"
)

// Actor is the authenticated caller performing an operation.
type Actor struct {
	ID   uuid.UUID
	Role entity.Role
}

// CanAccessJob reports whether the actor may view or mutate the job:
// admins always, otherwise only the user who started it.
func CanAccessJob(actor Actor, job *entity.IngestionJob) bool {
	return actor.Role == entity.RoleAdmin || actor.ID == job.StartedByID
}

// CanAccessDocument reports whether the actor may act on the document:
// admins always, otherwise only its creator.
func CanAccessDocument(actor Actor, document *entity.Document) bool {
	return actor.Role == entity.RoleAdmin || actor.ID == document.CreatedByID
}
