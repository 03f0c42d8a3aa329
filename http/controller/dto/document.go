package dto

type UpdateDocumentRequestDTO struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}
