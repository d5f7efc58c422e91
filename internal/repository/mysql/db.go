package mysql

import (
	"log"
	"sync"

	"github.com/shopspring/decimal"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/Omeche/Food-Ordering-Chatbot/internal/config"
	"github.com/Omeche/Food-Ordering-Chatbot/internal/datamodels/catalog"
	"github.com/Omeche/Food-Ordering-Chatbot/internal/datamodels/order"
)

var (
	db   *gorm.DB
	once sync.Once
)

// Init opens the global GORM handle, migrates the schema and seeds the food
// catalog on first use.
func Init(cfg *config.MySQLConfig) *gorm.DB {
	once.Do(func() {
		var err error
		db, err = gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to connect mysql: %v", err)
		}
		if err = Migrate(db); err != nil {
			log.Fatalf("auto migrate failed: %v", err)
		}
		if err = SeedMenu(db); err != nil {
			log.Fatalf("seed menu failed: %v", err)
		}
	})
	return db
}

// DB returns the global handle.
func DB() *gorm.DB {
	return db
}

// Migrate creates or updates all tables. Exported so tests can run the same
// schema against an in-memory database.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&catalog.Item{},
		&order.Order{},
		&order.Tracking{},
		&order.Item{},
	)
}

// DefaultMenu is the seed catalog. Insertion order defines the documented
// first-match tie-break for fuzzy lookups, so keep new entries at the end.
func DefaultMenu() []catalog.Item {
	price := func(n int64) decimal.Decimal { return decimal.NewFromInt(n) }
	return []catalog.Item{
		{Name: "Jollof Rice", Price: price(1500)},
		{Name: "White Rice", Price: price(1200)},
		{Name: "Porridge Beans", Price: price(1000)},
		{Name: "Fried Egg", Price: price(500)},
		{Name: "Grilled Fish", Price: price(2000)},
		{Name: "Peppered Beef", Price: price(1800)},
		{Name: "Fried Plantain", Price: price(800)},
		{Name: "Moi Moi", Price: price(700)},
		{Name: "Chicken Suya", Price: price(2500)},
		{Name: "Egusi Soup", Price: price(1700)},
	}
}

// SeedMenu inserts the default catalog when the table is empty.
func SeedMenu(db *gorm.DB) error {
	var count int64
	if err := db.Model(&catalog.Item{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	menu := DefaultMenu()
	return db.Create(&menu).Error
}
