package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/pageza/recipe-api/backend/internal/models"
	"gorm.io/gorm"
)

const msgBlank = "This field may not be blank."

// ownedRecord is satisfied by pointers to models that belong to a single user
type ownedRecord[T any] interface {
	*T
	GetID() uint
	SetOwner(userID uint)
	SetName(name string)
}

// ownedBy restricts a query to rows owned by userID
func ownedBy(userID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userID)
	}
}

// OwnedService lists and creates named records that belong to a user and
// can be attached to recipes through joinTable.
type OwnedService[T any, PT ownedRecord[T]] struct {
	db         *gorm.DB
	joinTable  string
	joinColumn string
}

// NewOwnedService creates an OwnedService. joinColumn is the column of joinTable
// that references T.
func NewOwnedService[T any, PT ownedRecord[T]](db *gorm.DB, joinTable, joinColumn string) *OwnedService[T, PT] {
	return &OwnedService[T, PT]{db: db, joinTable: joinTable, joinColumn: joinColumn}
}

// TagService manages tags
type TagService = OwnedService[models.Tag, *models.Tag]

// IngredientService manages ingredients
type IngredientService = OwnedService[models.Ingredient, *models.Ingredient]

// NewTagService creates the tag service
func NewTagService(db *gorm.DB) *TagService {
	return NewOwnedService[models.Tag](db, models.RecipeTagsTable, "tag_id")
}

// NewIngredientService creates the ingredient service
func NewIngredientService(db *gorm.DB) *IngredientService {
	return NewOwnedService[models.Ingredient](db, models.RecipeIngredientsTable, "ingredient_id")
}

// List returns the owner's records ordered by name descending. With assignedOnly
// set, only records attached to at least one of the owner's recipes are returned.
func (s *OwnedService[T, PT]) List(ctx context.Context, owner uint, assignedOnly bool) ([]T, error) {
	q := s.db.WithContext(ctx).Scopes(ownedBy(owner))
	if assignedOnly {
		assigned := s.db.Table(s.joinTable).
			Select(s.joinTable+"."+s.joinColumn).
			Joins("JOIN recipes ON recipes.id = "+s.joinTable+".recipe_id").
			Where("recipes.user_id = ?", owner)
		q = q.Where("id IN (?)", assigned)
	}

	items := make([]T, 0)
	if err := q.Order("name DESC").Order("id DESC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list %s: %w", s.joinColumn, err)
	}
	return items, nil
}

// Create stores a new record named name for owner
func (s *OwnedService[T, PT]) Create(ctx context.Context, owner uint, name string) (*T, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, NewValidationError("name", msgBlank)
	}

	item := new(T)
	PT(item).SetOwner(owner)
	PT(item).SetName(name)
	if err := s.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, fmt.Errorf("create %s: %w", s.joinColumn, err)
	}
	return item, nil
}

// loadOwned fetches the records with the given ids owned by owner. Any id that
// does not resolve is reported as a validation error on field.
func loadOwned[T any, PT ownedRecord[T]](tx *gorm.DB, owner uint, field string, ids []uint) ([]T, error) {
	ids = uniqueIDs(ids)
	items := make([]T, 0, len(ids))
	if len(ids) == 0 {
		return items, nil
	}
	if err := tx.Scopes(ownedBy(owner)).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("load %s: %w", field, err)
	}
	if len(items) == len(ids) {
		return items, nil
	}

	found := make(map[uint]struct{}, len(items))
	for i := range items {
		found[PT(&items[i]).GetID()] = struct{}{}
	}
	verr := &ValidationError{}
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			verr.Add(field, fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", id))
		}
	}
	return nil, verr
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
