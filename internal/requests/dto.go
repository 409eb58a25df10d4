package requests

import (
	"time"

	"github.com/vkarpenko/shareit-go/pkg/db/models"
)

// RequestDTO is the public view of an item request.
type RequestDTO struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	Created     time.Time `json:"created"`
}

// CreateRequestInput carries the fields required to file a request.
type CreateRequestInput struct {
	Description string
}

func toDTO(request *models.ItemRequest) RequestDTO {
	return RequestDTO{
		ID:          request.ID,
		Description: request.Description,
		Created:     request.CreatedAt,
	}
}

func toDTOs(requestList []models.ItemRequest) []RequestDTO {
	dtos := make([]RequestDTO, 0, len(requestList))
	for i := range requestList {
		dtos = append(dtos, toDTO(&requestList[i]))
	}
	return dtos
}
