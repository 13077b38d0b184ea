package dto

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CategoryDTO struct {
	ID   primitive.ObjectID `json:"_id"`
	Name string             `json:"name"`
}

type CategoryRequest struct {
	Name string `json:"name" validate:"required,max=64"`
}
