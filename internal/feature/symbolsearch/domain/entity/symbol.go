// Package entity defines the domain models for the symbolsearch feature.
package entity

import "time"

// Symbol represents an NSE-listed equity in the search index.
// Code is the bare exchange symbol (e.g. "RELIANCE"); the ".NS" suffix is
// added when the chart is requested.
type Symbol struct {
	ID        uint      `gorm:"primaryKey"`
	Code      string    `gorm:"size:32;not null;uniqueIndex"`
	Name      string    `gorm:"size:255;not null"`
	Series    string    `gorm:"size:8;not null;default:'EQ'"`
	ISIN      string    `gorm:"column:isin;size:12"`
	IsActive  bool      `gorm:"not null;default:true"`
	SortKey   int       `gorm:"not null;default:0"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}
