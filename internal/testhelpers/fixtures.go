package testhelpers

import (
	"testing"
	"time"

	"github.com/pageza/recipe-api/backend/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CreateUser inserts an active user with a bcrypt-hashed password
func CreateUser(t *testing.T, db *gorm.DB, email, password string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := &models.User{
		Email:        email,
		Name:         "Test User",
		PasswordHash: string(hash),
		IsActive:     true,
		DateJoined:   time.Now().UTC(),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

// CreateTag inserts a tag owned by owner
func CreateTag(t *testing.T, db *gorm.DB, owner uint, name string) *models.Tag {
	t.Helper()
	tag := &models.Tag{Name: name, UserID: owner}
	if err := db.Create(tag).Error; err != nil {
		t.Fatalf("failed to create tag: %v", err)
	}
	return tag
}

// CreateIngredient inserts an ingredient owned by owner
func CreateIngredient(t *testing.T, db *gorm.DB, owner uint, name string) *models.Ingredient {
	t.Helper()
	ingredient := &models.Ingredient{Name: name, UserID: owner}
	if err := db.Create(ingredient).Error; err != nil {
		t.Fatalf("failed to create ingredient: %v", err)
	}
	return ingredient
}

// CreateRecipe inserts a recipe owned by owner with the given tags and ingredients attached
func CreateRecipe(t *testing.T, db *gorm.DB, owner uint, title string, tags []models.Tag, ingredients []models.Ingredient) *models.Recipe {
	t.Helper()
	recipe := &models.Recipe{
		UserID:      owner,
		Title:       title,
		TimeMinutes: 10,
		Price:       500,
	}
	if err := db.Omit(clause.Associations).Create(recipe).Error; err != nil {
		t.Fatalf("failed to create recipe: %v", err)
	}
	if len(tags) > 0 {
		if err := db.Model(recipe).Association("Tags").Append(tags); err != nil {
			t.Fatalf("failed to attach tags: %v", err)
		}
	}
	if len(ingredients) > 0 {
		if err := db.Model(recipe).Association("Ingredients").Append(ingredients); err != nil {
			t.Fatalf("failed to attach ingredients: %v", err)
		}
	}
	return recipe
}
