package main

import (
	"fmt"

	"github.com/craftmart-shop/internal/config"
	"github.com/craftmart-shop/internal/logger"
	"github.com/craftmart-shop/internal/models"

	"github.com/shopspring/decimal"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 添加分类
	categories := []models.Category{
		{
			Slug:        "ceramics",
			Name:        "Ceramics & Pottery",
			Description: "Hand-thrown mugs, bowls and vases from independent studios.",
			Icon:        "/icons/categories/ceramics.svg",
			SortOrder:   300,
		},
		{
			Slug:        "textiles",
			Name:        "Textiles & Weaving",
			Description: "Hand-woven throws, macrame and naturally dyed fabrics.",
			Icon:        "/icons/categories/textiles.svg",
			SortOrder:   200,
		},
		{
			Slug:        "woodwork",
			Name:        "Woodwork",
			Description: "Carved boards, utensils and small furniture in local hardwoods.",
			Icon:        "/icons/categories/woodwork.svg",
			SortOrder:   100,
		},
	}

	for _, cat := range categories {
		var existing models.Category
		if err := models.DB.Where("slug = ?", cat.Slug).First(&existing).Error; err != nil {
			// 不存在则创建
			if err := models.DB.Create(&cat).Error; err != nil {
				stdLog.Printf("Failed to create category %s: %v", cat.Slug, err)
			} else {
				stdLog.Printf("Created category: %s", cat.Slug)
			}
		} else {
			stdLog.Printf("Category already exists: %s", cat.Slug)
		}
	}

	// 获取分类ID
	categoryIDs := map[string]uint{}
	var categoryList []models.Category
	if err := models.DB.Where("slug IN ?", []string{"ceramics", "textiles", "woodwork"}).Find(&categoryList).Error; err != nil {
		stdLog.Printf("Failed to load categories: %v", err)
	}
	for _, cat := range categoryList {
		categoryIDs[cat.Slug] = cat.ID
	}
	ceramicsID := categoryIDs["ceramics"]
	textilesID := categoryIDs["textiles"]
	woodworkID := categoryIDs["woodwork"]

	// 添加商品
	products := []models.Product{
		{
			CategoryID:  ceramicsID,
			Slug:        "speckled-stoneware-mug",
			SKU:         "CER-MUG-001",
			Name:        "Speckled Stoneware Mug",
			Description: "Wheel-thrown 350ml mug with a speckled oatmeal glaze. Each piece varies slightly.",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(24.00)),
			Images: models.StringArray([]string{
				"https://images.unsplash.com/photo-1514228742587-6b1558fcca3d?w=800",
			}),
			Tags:          models.StringArray([]string{"mug", "stoneware", "kitchen"}),
			StockQuantity: 40,
			WeightGrams:   380,
			IsActive:      true,
			SortOrder:     300,
		},
		{
			CategoryID:  ceramicsID,
			Slug:        "indigo-serving-bowl",
			SKU:         "CER-BWL-002",
			Name:        "Indigo Serving Bowl",
			Description: "Large hand-glazed serving bowl in deep indigo, food safe and dishwasher friendly.",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(58.00)),
			Images: models.StringArray([]string{
				"https://images.unsplash.com/photo-1578749556568-bc2c40e68b61?w=800",
			}),
			Tags:          models.StringArray([]string{"bowl", "tableware"}),
			StockQuantity: 12,
			WeightGrams:   1100,
			IsActive:      true,
			SortOrder:     280,
		},
		{
			CategoryID:  ceramicsID,
			Slug:        "bud-vase-trio",
			SKU:         "CER-VAS-003",
			Name:        "Bud Vase Trio",
			Description: "Set of three miniature bud vases in matte white, sand and terracotta.",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(42.00)),
			Images: models.StringArray([]string{
				"https://images.unsplash.com/photo-1581783342308-f792dbdd27c5?w=800",
			}),
			Tags:          models.StringArray([]string{"vase", "decor", "set"}),
			StockQuantity: 0,
			WeightGrams:   750,
			IsActive:      true,
			SortOrder:     260,
		},
		{
			CategoryID:  textilesID,
			Slug:        "handwoven-wool-throw",
			SKU:         "TEX-THR-001",
			Name:        "Handwoven Wool Throw",
			Description: "130x180cm merino throw woven on a traditional loom, undyed natural tones.",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(120.00)),
			Images: models.StringArray([]string{
				"https://images.unsplash.com/photo-1600369671236-e74521d4b6ad?w=800",
			}),
			Tags:          models.StringArray([]string{"throw", "wool", "home"}),
			StockQuantity: 8,
			WeightGrams:   1400,
			IsActive:      true,
			SortOrder:     240,
		},
		{
			CategoryID:  textilesID,
			Slug:        "macrame-wall-hanging",
			SKU:         "TEX-MAC-002",
			Name:        "Macrame Wall Hanging",
			Description: "Knotted cotton wall hanging on driftwood, about 60cm wide.",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(45.00)),
			Images: models.StringArray([]string{
				"https://images.unsplash.com/photo-1622163642998-1ea32b0bbc67?w=800",
			}),
			Tags:          models.StringArray([]string{"macrame", "decor"}),
			StockQuantity: 15,
			WeightGrams:   520,
			IsActive:      true,
			SortOrder:     220,
		},
		{
			CategoryID:  textilesID,
			Slug:        "plant-dyed-scarf",
			SKU:         "TEX-SCF-003",
			Name:        "Plant-Dyed Silk Scarf",
			Description: "Silk scarf dyed with madder root and onion skin. Retired colourway.",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(36.00)),
			Images: models.StringArray([]string{
				"https://images.unsplash.com/photo-1601924994987-69e26d50dc26?w=800",
			}),
			Tags:          models.StringArray([]string{"scarf", "silk"}),
			StockQuantity: 5,
			WeightGrams:   90,
			IsActive:      false,
			SortOrder:     200,
		},
		{
			CategoryID:  woodworkID,
			Slug:        "walnut-serving-board",
			SKU:         "WOD-BRD-001",
			Name:        "Walnut Serving Board",
			Description: "End-grain walnut board finished with food-safe oil and beeswax.",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(65.00)),
			Images: models.StringArray([]string{
				"https://images.unsplash.com/photo-1605433297866-57a6ae8f8b78?w=800",
			}),
			Tags:          models.StringArray([]string{"board", "walnut", "kitchen"}),
			StockQuantity: 20,
			WeightGrams:   1600,
			IsActive:      true,
			SortOrder:     180,
		},
		{
			CategoryID:  woodworkID,
			Slug:        "carved-spoon-set",
			SKU:         "WOD-SPN-002",
			Name:        "Hand-Carved Spoon Set",
			Description: "Pair of cherry wood cooking spoons, carved and burnished by hand.",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(28.00)),
			Images: models.StringArray([]string{
				"https://images.unsplash.com/photo-1584568694244-14fbdf83bd30?w=800",
			}),
			Tags:          models.StringArray([]string{"spoon", "utensils", "set"}),
			StockQuantity: 30,
			WeightGrams:   240,
			IsActive:      true,
			SortOrder:     160,
		},
		{
			CategoryID:  woodworkID,
			Slug:        "oak-bookends",
			SKU:         "WOD-BKD-003",
			Name:        "Oak Wave Bookends",
			Description: "Sculpted oak bookends with a weighted steel base, sold as a pair.",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(54.00)),
			Images: models.StringArray([]string{
				"https://images.unsplash.com/photo-1544816155-12df9643f363?w=800",
			}),
			Tags:          models.StringArray([]string{"bookends", "oak", "desk"}),
			StockQuantity: 3,
			WeightGrams:   2100,
			IsActive:      true,
			SortOrder:     140,
		},
	}

	for _, prod := range products {
		if prod.CategoryID == 0 {
			stdLog.Printf("Skip product %s: category_id missing", prod.Slug)
			continue
		}
		var existing models.Product
		if err := models.DB.Where("slug = ?", prod.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&prod).Error; err != nil {
				stdLog.Printf("Failed to create product %s: %v", prod.Slug, err)
			} else {
				stdLog.Printf("Created product: %s", prod.Slug)
			}
		} else {
			existing.CategoryID = prod.CategoryID
			existing.SKU = prod.SKU
			existing.Name = prod.Name
			existing.Description = prod.Description
			existing.Price = prod.Price
			existing.Images = prod.Images
			existing.Tags = prod.Tags
			existing.StockQuantity = prod.StockQuantity
			existing.WeightGrams = prod.WeightGrams
			existing.IsActive = prod.IsActive
			existing.SortOrder = prod.SortOrder
			if err := models.DB.Save(&existing).Error; err != nil {
				stdLog.Printf("Failed to update product %s: %v", prod.Slug, err)
			} else {
				stdLog.Printf("Updated product: %s", prod.Slug)
			}
		}
	}

	fmt.Println("\nSeed data ready.")
	fmt.Println("Summary:")
	fmt.Println("- 3 Categories")
	fmt.Println("- 9 Products (含售罄与下架示例)")
}
