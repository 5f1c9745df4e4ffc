package models

import (
	"strings"
	"time"
)

// Appointment type codes. MANUAL_TRANSACTION marks walk-in charges recorded
// at the cashier without a scheduled visit behind them.
const (
	ApptTypeConsultation      = "CONSULTATION"
	ApptTypeFollowUp          = "FOLLOW_UP"
	ApptTypeCheckup           = "CHECKUP"
	ApptTypeManualTransaction = "MANUAL_TRANSACTION"
)

const (
	BillingStatusUnbilled      = "UNBILLED"
	BillingStatusInTransaction = "IN_TRANSACTION"
	BillingStatusBilled        = "BILLED"
)

type Appointment struct {
	ID              uint                 `gorm:"primaryKey" json:"id"`
	PatientID       uint                 `gorm:"index;not null" json:"patient_id"`
	Patient         Patient              `gorm:"foreignKey:PatientID" json:"patient"`
	DoctorID        *uint                `json:"doctor_id"`
	Doctor          *Doctor              `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
	TypeCode        string               `gorm:"size:50;not null" json:"type_code"`
	AppointmentDate time.Time            `gorm:"not null;index" json:"appointment_date"`
	Price           float64              `gorm:"type:decimal(10,2);not null" json:"price"`
	LabAmount       float64              `gorm:"type:decimal(10,2);default:0.00" json:"lab_amount"`
	BillingStatus   string               `gorm:"type:enum('UNBILLED','IN_TRANSACTION','BILLED');default:'UNBILLED'" json:"billing_status"`
	LabTests        []AppointmentLabTest `gorm:"foreignKey:AppointmentID" json:"lab_tests"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

// TypeLabel renders the type code as a display name, e.g. FOLLOW_UP
// becomes "Follow Up".
func (a *Appointment) TypeLabel() string {
	words := strings.Split(strings.ToLower(a.TypeCode), "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// AppointmentLabTest is a lab test ordered for an appointment. UnitPrice may
// override the catalog price; zero means the catalog default applies.
type AppointmentLabTest struct {
	ID            uint    `gorm:"primaryKey" json:"id"`
	AppointmentID uint    `gorm:"index;not null" json:"appointment_id"`
	LabTestID     uint    `gorm:"not null" json:"lab_test_id"`
	LabTest       LabTest `gorm:"foreignKey:LabTestID" json:"lab_test"`
	UnitPrice     float64 `gorm:"type:decimal(10,2);default:0.00" json:"unit_price"`
}

// LabTest is a catalog entry. Inferable rows form the priority-ordered table
// the reconciler uses to back-fill lab charges from an unexplained remainder.
type LabTest struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	Code              string    `gorm:"size:20;unique;not null" json:"code"`
	Name              string    `gorm:"size:100;not null" json:"name"`
	DefaultPrice      float64   `gorm:"type:decimal(10,2);not null" json:"default_price"`
	Inferable         bool      `gorm:"default:false" json:"inferable"`
	InferencePriority int       `gorm:"default:0" json:"inference_priority"`
	IsActive          bool      `gorm:"default:true" json:"is_active"`
	CreatedAt         time.Time `json:"created_at"`
}
