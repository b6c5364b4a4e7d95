package db

import (
	"Gin_postgres_redis_media_stock/models"
	"fmt"
	"log"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDB() *gorm.DB {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}

	err = Migrate(DB)
	if err != nil {
		log.Fatal("Failed to migrate models: ", err)
	}
	log.Println("Database connected")
	return DB
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{}, &models.Invite{},
		&models.Category{}, &models.Item{},
		&models.CartEntry{}, &models.RequisitionLog{},
		&models.StockLedger{}, &models.Evaluation{},
	); err != nil {
		return err
	}

	// 库存不允许为负，数据库层再兜一道
	if err := db.Exec(fmt.Sprintf(`
	  ALTER TABLE %s DROP CONSTRAINT IF EXISTS %s_quantity_nonneg;
	`, models.ItemTable, models.ItemTable)).Error; err != nil {
		return err
	}
	if err := db.Exec(fmt.Sprintf(`
	  ALTER TABLE %s ADD CONSTRAINT %s_quantity_nonneg CHECK (quantity >= 0);
	`, models.ItemTable, models.ItemTable)).Error; err != nil {
		return err
	}

	// 按组翻历史更快
	if err := db.Exec(fmt.Sprintf(`
	  CREATE INDEX IF NOT EXISTS %s_group_created
	  ON %s (group_id, created_at);
	`, models.LogTable, models.LogTable)).Error; err != nil {
		return err
	}

	return nil
}
