package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/pageza/recipe-api/backend/internal/models"
	"github.com/pageza/recipe-api/backend/internal/types"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const msgRequired = "This field is required."

// RecipeService handles recipe operations
type RecipeService struct {
	db     *gorm.DB
	images ImageStore
	newID  func() string
}

// Ensure RecipeService implements IRecipeService
var _ IRecipeService = (*RecipeService)(nil)

// RecipeOption customises a RecipeService
type RecipeOption func(*RecipeService)

// WithImageKeyGenerator replaces the generator for the unique part of image keys
func WithImageKeyGenerator(fn func() string) RecipeOption {
	return func(s *RecipeService) {
		s.newID = fn
	}
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB, images ImageStore, opts ...RecipeOption) *RecipeService {
	s := &RecipeService{
		db:     db,
		images: images,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func preloadAttributes(db *gorm.DB) *gorm.DB {
	byID := func(db *gorm.DB) *gorm.DB { return db.Order("id") }
	return db.Preload("Tags", byID).Preload("Ingredients", byID)
}

// List returns the owner's recipes, newest first, narrowed by filter
func (s *RecipeService) List(ctx context.Context, owner uint, filter types.RecipeFilter) ([]models.Recipe, error) {
	q := s.db.WithContext(ctx).Scopes(ownedBy(owner), preloadAttributes)
	if len(filter.TagIDs) > 0 {
		q = q.Where("id IN (?)", s.db.Table(models.RecipeTagsTable).
			Select("recipe_id").Where("tag_id IN ?", filter.TagIDs))
	}
	if len(filter.IngredientIDs) > 0 {
		q = q.Where("id IN (?)", s.db.Table(models.RecipeIngredientsTable).
			Select("recipe_id").Where("ingredient_id IN ?", filter.IngredientIDs))
	}

	recipes := make([]models.Recipe, 0)
	if err := q.Order("id DESC").Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	return recipes, nil
}

// Get returns one of the owner's recipes with its tags and ingredients
func (s *RecipeService) Get(ctx context.Context, owner, id uint) (*models.Recipe, error) {
	return s.get(s.db.WithContext(ctx), owner, id)
}

func (s *RecipeService) get(db *gorm.DB, owner, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := db.Scopes(ownedBy(owner), preloadAttributes).First(&recipe, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &recipe, nil
}

// Create stores a new recipe for owner
func (s *RecipeService) Create(ctx context.Context, owner uint, req *types.RecipeRequest) (*models.Recipe, error) {
	recipe := &models.Recipe{UserID: owner}
	if err := applyRecipe(recipe, req, false); err != nil {
		return nil, err
	}

	var created *models.Recipe
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags, ingredients, err := loadAttributes(tx, owner, req)
		if err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Create(recipe).Error; err != nil {
			return fmt.Errorf("create recipe: %w", err)
		}
		if err := replaceAttributes(tx, recipe, tags, ingredients, false); err != nil {
			return err
		}
		created, err = s.get(tx, owner, recipe.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{"recipe_id": created.ID, "user_id": owner}).Info("Recipe created")
	return created, nil
}

// Update changes one of the owner's recipes. A partial update keeps every field
// missing from req. A full update resets link and clears tags and ingredients
// that req omits.
func (s *RecipeService) Update(ctx context.Context, owner, id uint, req *types.RecipeRequest, partial bool) (*models.Recipe, error) {
	var updated *models.Recipe
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		recipe, err := s.get(tx, owner, id)
		if err != nil {
			return err
		}
		if err := applyRecipe(recipe, req, partial); err != nil {
			return err
		}
		tags, ingredients, err := loadAttributes(tx, owner, req)
		if err != nil {
			return err
		}

		err = tx.Model(&models.Recipe{ID: recipe.ID}).Updates(map[string]interface{}{
			"title":        recipe.Title,
			"time_minutes": recipe.TimeMinutes,
			"price":        recipe.Price,
			"link":         recipe.Link,
		}).Error
		if err != nil {
			return fmt.Errorf("update recipe: %w", err)
		}
		if err := replaceAttributes(tx, recipe, tags, ingredients, !partial); err != nil {
			return err
		}
		updated, err = s.get(tx, owner, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// UploadImage validates data as an image, stores it and points the recipe at it.
// The recipe keeps its previous image when any step fails.
func (s *RecipeService) UploadImage(ctx context.Context, owner, id uint, filename string, data []byte) (*models.Recipe, error) {
	recipe, err := s.Get(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	format, err := detectImage(data)
	if err != nil {
		return nil, err
	}
	if s.images == nil {
		return nil, fmt.Errorf("no image store configured")
	}

	key, err := imageKey(s.newID(), filename, format)
	if err != nil {
		return nil, err
	}
	if err := s.images.Save(ctx, key, "image/"+format, data); err != nil {
		return nil, fmt.Errorf("store image: %w", err)
	}

	err = s.db.WithContext(ctx).Model(&models.Recipe{}).
		Scopes(ownedBy(owner)).
		Where("id = ?", id).
		Update("image", key).Error
	if err != nil {
		return nil, fmt.Errorf("save image key: %w", err)
	}
	recipe.Image = &key

	log.WithFields(log.Fields{"recipe_id": id, "key": key, "bytes": len(data)}).Info("Recipe image uploaded")
	return recipe, nil
}

// ImageURL returns the public URL of a stored image key, or nil
func (s *RecipeService) ImageURL(key *string) *string {
	if key == nil || *key == "" || s.images == nil {
		return nil
	}
	url := s.images.URL(*key)
	return &url
}

// applyRecipe copies the fields of req onto recipe and validates the result
func applyRecipe(recipe *models.Recipe, req *types.RecipeRequest, partial bool) error {
	verr := &ValidationError{}

	if req.Title != nil {
		recipe.Title = strings.TrimSpace(*req.Title)
		if recipe.Title == "" {
			verr.Add("title", msgBlank)
		}
	} else if !partial {
		verr.Add("title", msgRequired)
	}

	if req.TimeMinutes != nil {
		recipe.TimeMinutes = *req.TimeMinutes
	} else if !partial {
		verr.Add("time_minutes", msgRequired)
	}

	if req.Price != nil {
		if *req.Price < 0 || *req.Price > models.MaxPrice {
			verr.Add("price", models.ErrPriceRange.Error())
		}
		recipe.Price = *req.Price
	} else if !partial {
		verr.Add("price", msgRequired)
	}

	if req.Link != nil {
		recipe.Link = strings.TrimSpace(*req.Link)
	} else if !partial {
		recipe.Link = ""
	}

	return verr.OrNil()
}

// loadAttributes resolves the tag and ingredient ids of req. A nil slice means
// the field was not sent.
func loadAttributes(tx *gorm.DB, owner uint, req *types.RecipeRequest) ([]models.Tag, []models.Ingredient, error) {
	verr := &ValidationError{}
	var tags []models.Tag
	var ingredients []models.Ingredient
	var err error

	if req.Tags != nil {
		tags, err = loadOwned[models.Tag](tx, owner, "tags", *req.Tags)
		if err := collect(verr, err); err != nil {
			return nil, nil, err
		}
	}
	if req.Ingredients != nil {
		ingredients, err = loadOwned[models.Ingredient](tx, owner, "ingredients", *req.Ingredients)
		if err := collect(verr, err); err != nil {
			return nil, nil, err
		}
	}
	if err := verr.OrNil(); err != nil {
		return nil, nil, err
	}
	return tags, ingredients, nil
}

// collect merges a validation error into verr and returns any other error
func collect(verr *ValidationError, err error) error {
	if err == nil {
		return nil
	}
	if v, ok := IsValidation(err); ok {
		for field, msgs := range v.Fields {
			for _, msg := range msgs {
				verr.Add(field, msg)
			}
		}
		return nil
	}
	return err
}

// replaceAttributes sets the recipe's associations. Nil slices are left alone
// unless clearMissing is set, in which case they are emptied.
func replaceAttributes(tx *gorm.DB, recipe *models.Recipe, tags []models.Tag, ingredients []models.Ingredient, clearMissing bool) error {
	if tags != nil || clearMissing {
		if err := replaceAssociation(tx, recipe, "Tags", tags); err != nil {
			return err
		}
	}
	if ingredients != nil || clearMissing {
		if err := replaceAssociation(tx, recipe, "Ingredients", ingredients); err != nil {
			return err
		}
	}
	return nil
}

func replaceAssociation[T any](tx *gorm.DB, recipe *models.Recipe, name string, items []T) error {
	assoc := tx.Model(&models.Recipe{ID: recipe.ID}).Association(name)
	var err error
	if len(items) == 0 {
		err = assoc.Clear()
	} else {
		err = assoc.Replace(items)
	}
	if err != nil {
		return fmt.Errorf("replace %s: %w", strings.ToLower(name), err)
	}
	return nil
}
