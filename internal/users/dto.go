package users

import "github.com/vkarpenko/shareit-go/pkg/db/models"

// UserDTO is the public view of a user.
type UserDTO struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CreateUserInput carries the fields required to register a user.
type CreateUserInput struct {
	Name  string
	Email string
}

// UpdateUserInput is a patch: nil fields leave the current value unchanged.
type UpdateUserInput struct {
	Name  *string
	Email *string
}

func toDTO(user *models.User) UserDTO {
	return UserDTO{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
	}
}

func toDTOs(users []models.User) []UserDTO {
	dtos := make([]UserDTO, 0, len(users))
	for i := range users {
		dtos = append(dtos, toDTO(&users[i]))
	}
	return dtos
}
