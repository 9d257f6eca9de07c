package models

// CategoryModel and LocationModel are reference data managed outside this service.
// Issues only check that an active row exists.
type CategoryModel struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"size:25;not null;uniqueIndex"`
	Description string `gorm:"type:text"`
	IsActive    bool   `gorm:"not null;default:true"`
	CreatedAt   int64  `gorm:"autoCreateTime:milli;not null"`
}

func (CategoryModel) TableName() string {
	return "categories"
}

type LocationModel struct {
	ID           uint    `gorm:"primaryKey"`
	Name         string  `gorm:"size:100;not null"`
	LocationType string  `gorm:"size:20;not null"`
	Building     *string `gorm:"size:100"`
	Floor        *string `gorm:"size:20"`
	RoomNo       *string `gorm:"size:20"`
	IsActive     bool    `gorm:"not null;default:true"`
}

func (LocationModel) TableName() string {
	return "locations"
}
