package database

import "planit/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models,
// ordered leaves-first so AutoMigrate creates referenced tables before their
// dependents.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.City{},
		&models.Trip{},
		&models.TripCity{},
		&models.TripDay{},
		&models.Schedule{},
		&models.ChecklistItem{},
		&models.Review{},
		&models.Comment{},
		&models.Photo{},
		&models.Like{},
	}
}
