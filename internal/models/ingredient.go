package models

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"
)

// Ingredient is reference data. A (name, measurement unit) pair is unique.
type Ingredient struct {
	ID              uint   `gorm:"primaryKey"`
	Name            string `gorm:"size:200;not null;uniqueIndex:idx_ingredient_name_unit"`
	MeasurementUnit string `gorm:"size:200;not null;uniqueIndex:idx_ingredient_name_unit"`
	// SearchName is Name case-folded for LIKE lookups; SQL LOWER() does not fold non-ASCII in SQLite.
	SearchName string `gorm:"size:200;not null;index"`
}

// BeforeSave keeps SearchName in sync with Name.
func (i *Ingredient) BeforeSave(tx *gorm.DB) error {
	i.SearchName = SearchKey(i.Name)
	return nil
}

// SearchKey normalizes s for case-insensitive matching.
func SearchKey(s string) string {
	// Casers are stateful and cannot be shared between goroutines.
	return cases.Fold().String(norm.NFC.String(strings.TrimSpace(s)))
}
