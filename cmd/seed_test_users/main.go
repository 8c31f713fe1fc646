package main

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/pageza/recipe-api/backend/config"
	"github.com/pageza/recipe-api/backend/internal/database"
	"github.com/pageza/recipe-api/backend/internal/models"
	"github.com/pageza/recipe-api/backend/internal/service"
	"github.com/pageza/recipe-api/backend/internal/types"
)

const testPassword = "testpassword123"

type seedUser struct {
	name        string
	email       string
	tags        []string
	ingredients []string
	recipes     []seedRecipe
}

type seedRecipe struct {
	title   string
	minutes int
	price   string
}

var testUsers = []seedUser{
	{
		name:        "John Doe",
		email:       "john.doe@example.com",
		tags:        []string{"Vegan", "Dessert"},
		ingredients: []string{"Salt", "Flour", "Sugar"},
		recipes: []seedRecipe{
			{title: "Lemon drizzle cake", minutes: 50, price: "4.50"},
			{title: "Chickpea curry", minutes: 25, price: "6.20"},
		},
	},
	{
		name:        "Jane Smith",
		email:       "jane.smith@example.com",
		tags:        []string{"Breakfast"},
		ingredients: []string{"Eggs", "Butter"},
		recipes: []seedRecipe{
			{title: "Scrambled eggs", minutes: 5, price: "1.25"},
		},
	},
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.RunMigrations(db, cfg); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	ctx := context.Background()
	users := service.NewUserService(db)
	tags := service.NewTagService(db)
	ingredients := service.NewIngredientService(db)
	recipes := service.NewRecipeService(db, nil)

	log.Info("Creating test users...")
	for _, data := range testUsers {
		user, err := users.CreateAccount(ctx, data.email, testPassword, data.name)
		if _, ok := service.IsValidation(err); ok {
			log.WithField("email", data.email).Info("User already exists, skipping")
			continue
		}
		if err != nil {
			log.WithError(err).WithField("email", data.email).Error("Failed to create user")
			continue
		}

		if err := seedRecipes(ctx, user, data, tags, ingredients, recipes); err != nil {
			log.WithError(err).WithField("email", data.email).Error("Failed to seed recipes")
			continue
		}
		log.WithFields(log.Fields{"email": user.Email, "recipes": len(data.recipes)}).Info("Created test user")
	}

	log.WithField("password", testPassword).Info("Test users created")
}

func seedRecipes(ctx context.Context, user *models.User, data seedUser, tags *service.TagService, ingredients *service.IngredientService, recipes *service.RecipeService) error {
	tagIDs := make([]uint, 0, len(data.tags))
	for _, name := range data.tags {
		tag, err := tags.Create(ctx, user.ID, name)
		if err != nil {
			return err
		}
		tagIDs = append(tagIDs, tag.ID)
	}

	ingredientIDs := make([]uint, 0, len(data.ingredients))
	for _, name := range data.ingredients {
		ingredient, err := ingredients.Create(ctx, user.ID, name)
		if err != nil {
			return err
		}
		ingredientIDs = append(ingredientIDs, ingredient.ID)
	}

	for _, r := range data.recipes {
		price, err := models.ParsePrice(r.price)
		if err != nil {
			return err
		}
		minutes := r.minutes
		if _, err := recipes.Create(ctx, user.ID, &types.RecipeRequest{
			Title:       &r.title,
			TimeMinutes: &minutes,
			Price:       &price,
			Tags:        &tagIDs,
			Ingredients: &ingredientIDs,
		}); err != nil {
			return err
		}
	}
	return nil
}
