package models

import (
	"time"
)

type Patient struct {
	ID            uint         `gorm:"primaryKey" json:"id"`
	FirstName     string       `gorm:"size:100;not null" json:"first_name"`
	LastName      string       `gorm:"size:100;not null" json:"last_name"`
	Mobile        string       `gorm:"size:15;index" json:"mobile"`
	Address       string       `gorm:"type:text" json:"address"`
	BirthDate     *time.Time   `gorm:"type:date" json:"birth_date"`
	SeniorCitizen bool         `gorm:"default:false" json:"senior_citizen"`
	HMOProviderID *uint        `json:"hmo_provider_id"`
	HMOProvider   *HMOProvider `gorm:"foreignKey:HMOProviderID" json:"hmo_provider,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
}

// FullName is used on synthesized billing line descriptions.
func (p *Patient) FullName() string {
	return p.FirstName + " " + p.LastName
}

type Doctor struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:150;not null" json:"name"`
	Specialty string    `gorm:"size:100" json:"specialty"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}
