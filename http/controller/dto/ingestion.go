package dto

type CreateIngestionJobRequestDTO struct {
	DocumentID string `json:"document_id" binding:"required,uuid"`
}

type UpdateIngestionJobRequestDTO struct {
	Status *string `json:"status" binding:"omitempty,oneof=PENDING PROCESSING COMPLETED FAILED"`
	Output *string `json:"output"`
}
