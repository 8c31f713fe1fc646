package types

import (
	"github.com/pageza/recipe-api/backend/internal/models"
)

// CreateUserRequest represents the request body for signing up
type CreateUserRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email,max=255"`
	Password string `json:"password" form:"password" binding:"required,min=8,max=128"`
	Name     string `json:"name" form:"name" binding:"max=255"`
}

// TokenRequest represents the request body for obtaining a token
type TokenRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// UpdateUserRequest represents the request body for PATCH on the current user.
// Nil fields are left unchanged.
type UpdateUserRequest struct {
	Email    *string `json:"email" form:"email" binding:"omitempty,email,max=255"`
	Password *string `json:"password" form:"password" binding:"omitempty,min=8,max=128"`
	Name     *string `json:"name" form:"name" binding:"omitempty,max=255"`
}

// ReplaceUserRequest is the PUT body for the current user; every field must be sent.
// It converts directly to UpdateUserRequest.
type ReplaceUserRequest struct {
	Email    *string `json:"email" form:"email" binding:"required,email,max=255"`
	Password *string `json:"password" form:"password" binding:"required,min=8,max=128"`
	Name     *string `json:"name" form:"name" binding:"required,max=255"`
}

// AttributeRequest is the body for creating a tag or an ingredient
type AttributeRequest struct {
	Name string `json:"name" form:"name" binding:"required,max=255"`
}

// RecipeRequest represents the request body for creating or updating a recipe.
// Pointer fields distinguish omitted values from zero values.
type RecipeRequest struct {
	Title       *string       `json:"title" binding:"omitempty,max=255"`
	TimeMinutes *int          `json:"time_minutes"`
	Price       *models.Price `json:"price"`
	Link        *string       `json:"link" binding:"omitempty,max=255"`
	Tags        *[]uint       `json:"tags"`
	Ingredients *[]uint       `json:"ingredients"`
}

// RecipeFilter narrows a recipe listing. Each list matches any of its ids,
// and both lists must match when given.
type RecipeFilter struct {
	TagIDs        []uint
	IngredientIDs []uint
}
