// Package seeds loads reference data for local development.
package seeds

import (
	"gorm.io/gorm"

	"campusdesk/internal/infrastructure/persistence/models"
)

func strPtr(s string) *string { return &s }

// SeedReferenceData creates the default categories and a few locations.
// Rows are matched by name, so running it twice is harmless.
func SeedReferenceData(db *gorm.DB) error {
	categories := []models.CategoryModel{
		{Name: "Electrical", Description: "Lights, sockets, power outages", IsActive: true},
		{Name: "Plumbing", Description: "Leaks, blocked drains, water supply", IsActive: true},
		{Name: "Furniture", Description: "Broken desks, chairs, boards", IsActive: true},
		{Name: "IT & Network", Description: "Wi-Fi, projectors, lab machines", IsActive: true},
		{Name: "Cleanliness", Description: "Waste, washrooms, pest control", IsActive: true},
		{Name: "Safety", Description: "Hazards, fire equipment, lighting at night", IsActive: true},
		{Name: "Others", Description: "Anything else", IsActive: true},
	}

	for _, category := range categories {
		if err := db.FirstOrCreate(&category, models.CategoryModel{Name: category.Name}).Error; err != nil {
			return err
		}
	}

	locations := []models.LocationModel{
		{Name: "Main Library", LocationType: "library", Building: strPtr("Library Block"), IsActive: true},
		{Name: "Physics Lab 2", LocationType: "lab", Building: strPtr("Science Block"), Floor: strPtr("1"), RoomNo: strPtr("S-104"), IsActive: true},
		{Name: "Lecture Hall A", LocationType: "classroom", Building: strPtr("Academic Block"), Floor: strPtr("G"), RoomNo: strPtr("A-001"), IsActive: true},
		{Name: "Central Canteen", LocationType: "canteen", IsActive: true},
		{Name: "Boys Hostel 1", LocationType: "hostel", Building: strPtr("Hostel 1"), IsActive: true},
		{Name: "Football Ground", LocationType: "sports", IsActive: true},
	}

	for _, location := range locations {
		if err := db.FirstOrCreate(&location, models.LocationModel{Name: location.Name}).Error; err != nil {
			return err
		}
	}

	return nil
}
