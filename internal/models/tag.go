package models

// Tag is reference data attached to recipes, e.g. "breakfast".
type Tag struct {
	ID    uint   `gorm:"primaryKey"`
	Name  string `gorm:"uniqueIndex;size:200;not null"`
	Color string `gorm:"uniqueIndex;size:7;not null"`
	Slug  string `gorm:"uniqueIndex;size:200;not null"`
}
