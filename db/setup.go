package db

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/quizdeck-dev/quizdeck/internal/models"
)

// Connect opens the backing store. Foreign key constraints are left out of
// the migration on purpose: collection membership keeps referencing deleted
// questions, matching the historical behavior of the API.
func Connect(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
}

func Migrate(conn *gorm.DB) error {
	tables := []interface{}{
		&models.User{},
		&models.Question{},
		&models.CollectionQuestion{},
		&models.Collection{},
	}

	for _, table := range tables {
		if err := conn.AutoMigrate(table); err != nil {
			return err
		}
	}

	return nil
}

func Close(conn *gorm.DB) error {
	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
