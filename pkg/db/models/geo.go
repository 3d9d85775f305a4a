package models

import (
	"time"

	"github.com/google/uuid"
)

// City is the delivery region price and stock records are scoped to.
type City struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"column:name;not null;uniqueIndex:cities_name_key" json:"name"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// Warehouse is a stocking location inside a city.
type Warehouse struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"column:name;not null;uniqueIndex:warehouses_name_key" json:"name"`
	CityID    uuid.UUID `gorm:"column:city_id;type:uuid;not null" json:"city_id"`
	City      City      `gorm:"foreignKey:CityID" json:"city,omitempty"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
