package service

import (
	"context"

	"github.com/pageza/recipe-api/backend/internal/models"
	"github.com/pageza/recipe-api/backend/internal/types"
)

// IUserService defines the interface for account operations
type IUserService interface {
	CreateAccount(ctx context.Context, email, password, name string) (*models.User, error)
	CreatePrivilegedAccount(ctx context.Context, email, password string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uint) (*models.User, error)
	UpdateProfile(ctx context.Context, user *models.User, req *types.UpdateUserRequest) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
}

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	IssueToken(ctx context.Context, email, password string) (string, error)
	GenerateToken(ctx context.Context, userID uint) (string, error)
	ValidateToken(token string) (*types.TokenClaims, error)
	Resolve(ctx context.Context, token string) (*models.User, error)
	Revoke(ctx context.Context, token string) error
}

// IAttributeService defines the operations shared by tags and ingredients
type IAttributeService[T any] interface {
	List(ctx context.Context, owner uint, assignedOnly bool) ([]T, error)
	Create(ctx context.Context, owner uint, name string) (*T, error)
}

var (
	_ IAttributeService[models.Tag]        = (*TagService)(nil)
	_ IAttributeService[models.Ingredient] = (*IngredientService)(nil)
)

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	List(ctx context.Context, owner uint, filter types.RecipeFilter) ([]models.Recipe, error)
	Get(ctx context.Context, owner, id uint) (*models.Recipe, error)
	Create(ctx context.Context, owner uint, req *types.RecipeRequest) (*models.Recipe, error)
	Update(ctx context.Context, owner, id uint, req *types.RecipeRequest, partial bool) (*models.Recipe, error)
	UploadImage(ctx context.Context, owner, id uint, filename string, data []byte) (*models.Recipe, error)
	ImageURL(key *string) *string
}
