package api

import (
	"time"

	"github.com/pageza/recipe-api/backend/internal/models"
)

// UserResponse is the public view of the current user
type UserResponse struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// TokenResponse carries a newly issued token
type TokenResponse struct {
	Token string `json:"token"`
}

// AdminUserResponse is a row of the staff user listing
type AdminUserResponse struct {
	ID          uint      `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	IsActive    bool      `json:"is_active"`
	IsStaff     bool      `json:"is_staff"`
	IsSuperuser bool      `json:"is_superuser"`
	DateJoined  time.Time `json:"date_joined"`
}

// AttributeResponse represents a tag or an ingredient
type AttributeResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// RecipeResponse is used for recipe listings and writes
type RecipeResponse struct {
	ID          uint         `json:"id"`
	Title       string       `json:"title"`
	TimeMinutes int          `json:"time_minutes"`
	Price       models.Price `json:"price"`
	Link        string       `json:"link"`
	Image       *string      `json:"image"`
	Tags        []uint       `json:"tags"`
	Ingredients []uint       `json:"ingredients"`
}

// RecipeDetailResponse nests the tags and ingredients of a recipe
type RecipeDetailResponse struct {
	ID          uint                `json:"id"`
	Title       string              `json:"title"`
	TimeMinutes int                 `json:"time_minutes"`
	Price       models.Price        `json:"price"`
	Link        string              `json:"link"`
	Image       *string             `json:"image"`
	Tags        []AttributeResponse `json:"tags"`
	Ingredients []AttributeResponse `json:"ingredients"`
}

// RecipeImageResponse is returned after an image upload
type RecipeImageResponse struct {
	ID    uint    `json:"id"`
	Image *string `json:"image"`
}

func newUserResponse(u *models.User) UserResponse {
	return UserResponse{Email: u.Email, Name: u.Name}
}

func newAdminUserResponse(u models.User) AdminUserResponse {
	return AdminUserResponse{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		IsActive:    u.IsActive,
		IsStaff:     u.IsStaff,
		IsSuperuser: u.IsSuperuser,
		DateJoined:  u.DateJoined,
	}
}

func tagResponse(t models.Tag) AttributeResponse {
	return AttributeResponse{ID: t.ID, Name: t.Name}
}

func ingredientResponse(i models.Ingredient) AttributeResponse {
	return AttributeResponse{ID: i.ID, Name: i.Name}
}

func newRecipeResponse(r *models.Recipe, image *string) RecipeResponse {
	return RecipeResponse{
		ID:          r.ID,
		Title:       r.Title,
		TimeMinutes: r.TimeMinutes,
		Price:       r.Price,
		Link:        r.Link,
		Image:       image,
		Tags:        r.TagIDs(),
		Ingredients: r.IngredientIDs(),
	}
}

func newRecipeDetailResponse(r *models.Recipe, image *string) RecipeDetailResponse {
	resp := RecipeDetailResponse{
		ID:          r.ID,
		Title:       r.Title,
		TimeMinutes: r.TimeMinutes,
		Price:       r.Price,
		Link:        r.Link,
		Image:       image,
		Tags:        make([]AttributeResponse, 0, len(r.Tags)),
		Ingredients: make([]AttributeResponse, 0, len(r.Ingredients)),
	}
	for _, t := range r.Tags {
		resp.Tags = append(resp.Tags, tagResponse(t))
	}
	for _, i := range r.Ingredients {
		resp.Ingredients = append(resp.Ingredients, ingredientResponse(i))
	}
	return resp
}
