package model

import (
	"gorm.io/datatypes"
)

type ConservationStatus string

const (
	StatusCritical ConservationStatus = "critical"
	StatusWatch    ConservationStatus = "watch"
	StatusGood     ConservationStatus = "good"
)

// Site 文化遗产地点，GeoJSON feature 原样存储
// swagger:model Site
type Site struct {
	BaseModel
	SiteID             string             `gorm:"size:100;unique;not null" json:"site_id"`
	Name               string             `gorm:"size:255;not null" json:"name"`
	GeoJSON            datatypes.JSON     `gorm:"not null" json:"geojson"`
	ImageURLs          datatypes.JSON     `json:"image_urls"`
	ConservationStatus ConservationStatus `gorm:"size:20;default:'good'" json:"conservation_status"`
	StatusDescription  string             `gorm:"type:text" json:"status_description"`
	// Conduct 行为准则 {dos: [], donts: [], lawExcerpt: '', lawLink: ''}
	Conduct datatypes.JSON `json:"conduct"`
}

func (Site) TableName() string {
	return "sites"
}
