package infrastructures

import (
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func NewDatabase(cfg *AppConfig) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DATABASE_URL), &gorm.Config{})
	if err != nil {
		logrus.Fatalf("failed to connect registry database: %v", err)
	}
	return db
}
