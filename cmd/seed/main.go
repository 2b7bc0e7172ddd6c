package main

import (
	"context"
	"flag"
	"os"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/markhallen/storefront/internal/catalog"
	"github.com/markhallen/storefront/pkg/config"
	"github.com/markhallen/storefront/pkg/db"
	"github.com/markhallen/storefront/pkg/db/models"
	"github.com/markhallen/storefront/pkg/enums"
	"github.com/markhallen/storefront/pkg/logger"
)

var sampleItems = []catalog.CreateItemInput{
	{
		Name:        "iPhone 15 Pro",
		Description: "Latest iPhone with A17 Pro chip and titanium design",
		Price:       decimal.NewFromInt(999),
		Category:    enums.ItemCategoryElectronics,
		ImageURL:    "https://images.unsplash.com/photo-1592750475338-74b7b21085ab?w=300&h=300&fit=crop",
		Stock:       50,
	},
	{
		Name:        "Samsung Galaxy S24",
		Description: "Premium Android smartphone with AI features",
		Price:       decimal.NewFromInt(799),
		Category:    enums.ItemCategoryElectronics,
		ImageURL:    "https://images.unsplash.com/photo-1511707171634-5f897ff02aa9?w=300&h=300&fit=crop",
		Stock:       30,
	},
	{
		Name:        "MacBook Pro M3",
		Description: "Powerful laptop for professionals and creators",
		Price:       decimal.NewFromInt(1999),
		Category:    enums.ItemCategoryElectronics,
		ImageURL:    "https://images.unsplash.com/photo-1517336714731-489689fd1ca8?w=300&h=300&fit=crop",
		Stock:       25,
	},
	{
		Name:        "Nike Air Max 270",
		Description: "Comfortable running shoes with modern design",
		Price:       decimal.NewFromInt(150),
		Category:    enums.ItemCategoryClothing,
		ImageURL:    "https://images.unsplash.com/photo-1542291026-7eec264c27ff?w=300&h=300&fit=crop",
		Stock:       100,
	},
	{
		Name:        "Levi's 501 Jeans",
		Description: "Classic straight-fit jeans in blue denim",
		Price:       decimal.NewFromInt(89),
		Category:    enums.ItemCategoryClothing,
		ImageURL:    "https://images.unsplash.com/photo-1542272604-787c3835535d?w=300&h=300&fit=crop",
		Stock:       75,
	},
	{
		Name:        "The Great Gatsby",
		Description: "Classic American novel by F. Scott Fitzgerald",
		Price:       decimal.NewFromInt(12),
		Category:    enums.ItemCategoryBooks,
		ImageURL:    "https://images.unsplash.com/photo-1544947950-fa07a98d237f?w=300&h=300&fit=crop",
		Stock:       200,
	},
	{
		Name:        "Harry Potter Complete Set",
		Description: "All 7 books in the Harry Potter series",
		Price:       decimal.NewFromInt(89),
		Category:    enums.ItemCategoryBooks,
		ImageURL:    "https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?w=300&h=300&fit=crop",
		Stock:       50,
	},
	{
		Name:        "IKEA Desk Lamp",
		Description: "Modern LED desk lamp with adjustable brightness",
		Price:       decimal.NewFromInt(45),
		Category:    enums.ItemCategoryHome,
		ImageURL:    "https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?w=300&h=300&fit=crop",
		Stock:       80,
	},
	{
		Name:        "Coffee Maker",
		Description: "Programmable drip coffee maker for home use",
		Price:       decimal.NewFromInt(79),
		Category:    enums.ItemCategoryHome,
		ImageURL:    "https://images.unsplash.com/photo-1495474472287-4d71bcdd2085?w=300&h=300&fit=crop",
		Stock:       40,
	},
	{
		Name:        "Yoga Mat",
		Description: "Non-slip yoga mat for exercise and meditation",
		Price:       decimal.NewFromInt(35),
		Category:    enums.ItemCategorySports,
		ImageURL:    "https://images.unsplash.com/photo-1544367567-0f2fcb009e0b?w=300&h=300&fit=crop",
		Stock:       60,
	},
	{
		Name:        "Dumbbell Set",
		Description: "Adjustable dumbbell set for home workouts",
		Price:       decimal.NewFromInt(199),
		Category:    enums.ItemCategorySports,
		ImageURL:    "https://images.unsplash.com/photo-1571019613454-1cb2f99b2d8b?w=300&h=300&fit=crop",
		Stock:       25,
	},
	{
		Name:        "Skincare Set",
		Description: "Complete skincare routine with cleanser and moisturizer",
		Price:       decimal.NewFromInt(65),
		Category:    enums.ItemCategoryBeauty,
		ImageURL:    "https://images.unsplash.com/photo-1556228578-8c89e6adf883?w=300&h=300&fit=crop",
		Stock:       90,
	},
}

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "seed"})

	_ = godotenv.Load()

	truncate := flag.Bool("truncate", false, "delete all existing items before seeding")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	if *truncate {
		if err := dbClient.DB().WithContext(ctx).Where("1 = 1").Delete(&models.Item{}).Error; err != nil {
			logg.Error(ctx, "failed to clear items", err)
			os.Exit(1)
		}
		logg.Info(ctx, "cleared existing items")
	}

	svc, err := catalog.NewService(catalog.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(ctx, "failed to create catalog service", err)
		os.Exit(1)
	}

	seeded := 0
	for _, input := range sampleItems {
		if _, err := svc.Create(ctx, input); err != nil {
			logg.Error(logg.WithField(ctx, "item", input.Name), "failed to seed item", err)
			os.Exit(1)
		}
		seeded++
	}

	logg.Info(logg.WithField(ctx, "count", seeded), "seeded sample catalog")
}
