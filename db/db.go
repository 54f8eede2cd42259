package db

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/StellaShiina/ginadmin/config"
)

var DB *gorm.DB

// Article and Category are the example server's resources.
type Article struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Title      string    `gorm:"not null" json:"title"`
	Content    string    `gorm:"type:text" json:"content"`
	Published  bool      `gorm:"not null;default:false" json:"published"`
	CategoryID *uint     `json:"categoryId"`
	CreatedAt  time.Time `json:"createdAt"`
}

type Category struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"not null;unique" json:"name"`
}

func (Article) TableName() string  { return "article" }
func (Category) TableName() string { return "category" }

// Init opens the postgres database and migrates the example models.
func Init(cfg *config.Config) error {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	if err := db.AutoMigrate(&Category{}, &Article{}); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	DB = db
	return nil
}
