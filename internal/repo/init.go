package repo

import (
	"github.com/impovo/monitor/internal/entity"
	"gorm.io/gorm"
)

func InitTables(db *gorm.DB) error {
	return db.AutoMigrate(&entity.Alert{})
}
