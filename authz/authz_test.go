package authz

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/tnqbao/gau-document-service/entity"
)

func TestCanAccessJob(t *testing.T) {
	starter := uuid.New()
	job := &entity.IngestionJob{ID: uuid.New(), StartedByID: starter}

	tests := []struct {
		name  string
		actor Actor
		want  bool
	}{
		{"starter", Actor{ID: starter, Role: entity.RoleViewer}, true},
		{"admin", Actor{ID: uuid.New(), Role: entity.RoleAdmin}, true},
		{"other viewer", Actor{ID: uuid.New(), Role: entity.RoleViewer}, false},
		{"other editor", Actor{ID: uuid.New(), Role: entity.RoleEditor}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanAccessJob(tt.actor, job))
		})
	}
}

func TestCanAccessDocument(t *testing.T) {
	owner := uuid.New()
	document := &entity.Document{ID: uuid.New(), CreatedByID: owner}

	tests := []struct {
		name  string
		actor Actor
		want  bool
	}{
		{"owner", Actor{ID: owner, Role: entity.RoleEditor}, true},
		{"admin", Actor{ID: uuid.New(), Role: entity.RoleAdmin}, true},
		{"stranger", Actor{ID: uuid.New(), Role: entity.RoleEditor}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanAccessDocument(tt.actor, document))
		})
	}
}
