// Command seed-menu wipes and reseeds the food catalog. Run it after editing
// DefaultMenu, or against a fresh database when skipping the web server's
// automatic seeding.
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/Omeche/Food-Ordering-Chatbot/internal/config"
	"github.com/Omeche/Food-Ordering-Chatbot/internal/datamodels/catalog"
	"github.com/Omeche/Food-Ordering-Chatbot/internal/repository/mysql"
)

func main() {
	cfg, err := config.Load("./config")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db := mysql.Init(&cfg.MySQL)

	// Reseeding changes item ids, so existing order lines must not be left
	// pointing at reshuffled rows.
	var orphaned int64
	if err := db.Table("order_items").Count(&orphaned).Error; err != nil {
		log.Fatalf("failed to inspect order_items: %v", err)
	}
	if orphaned > 0 {
		log.Fatalf("refusing to reseed: %d order lines reference the current catalog", orphaned)
	}

	if err := db.Where("1 = 1").Delete(&catalog.Item{}).Error; err != nil {
		log.Fatalf("failed to clear catalog: %v", err)
	}
	if err := mysql.SeedMenu(db); err != nil {
		log.Fatalf("failed to seed menu: %v", err)
	}

	items, err := mysql.NewCatalogRepository(db).List(context.Background())
	if err != nil {
		log.Fatalf("failed to list menu: %v", err)
	}
	for _, it := range items {
		fmt.Printf("%3d  %-20s ₦%s\n", it.ItemID, it.Name, it.Price.StringFixed(2))
	}
	fmt.Printf("seeded %d menu items\n", len(items))
}
