package models

import (
	"time"
)

// Payment methods accepted at the cashier window.
const (
	PaymentCash   = "CASH"
	PaymentHMO    = "HMO"
	PaymentCard   = "CARD"
	PaymentOnline = "ONLINE"
)

const (
	TxnStatusPending   = "PENDING"
	TxnStatusPaid      = "PAID"
	TxnStatusCancelled = "CANCELLED"
	TxnStatusRefunded  = "REFUNDED"
)

const (
	ItemTypeConsultation = "CONSULTATION"
	ItemTypeLaboratory   = "LABORATORY"
	ItemTypeMedicine     = "MEDICINE"
	ItemTypeProcedure    = "PROCEDURE"
	ItemTypeOther        = "OTHER"
)

// BillingTransaction is a single payment record. Amount is the final,
// post-discount figure and is the only monetary column persisted on the
// transaction itself; it should equal the sum of the item totals minus the
// senior discount, but upstream data entry frequently breaks that, which is
// what the reconciler repairs.
type BillingTransaction struct {
	ID                    uint                     `gorm:"primaryKey" json:"id"`
	TransactionNo         string                   `gorm:"size:50;unique;not null" json:"transaction_no"`
	TransactionDate       time.Time                `gorm:"type:date;not null" json:"transaction_date"`
	PatientID             uint                     `json:"patient_id"`
	Patient               Patient                  `gorm:"foreignKey:PatientID" json:"patient"`
	DoctorID              *uint                    `json:"doctor_id"`
	Doctor                *Doctor                  `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
	AppointmentID         *uint                    `json:"appointment_id"`
	UserID                uint                     `json:"user_id"`
	User                  User                     `gorm:"foreignKey:UserID" json:"user"`
	Amount                float64                  `gorm:"type:decimal(10,2);not null" json:"amount"`
	PaymentMethod         string                   `gorm:"type:enum('CASH','HMO','CARD','ONLINE');default:'CASH'" json:"payment_method"`
	Status                string                   `gorm:"type:enum('PENDING','PAID','CANCELLED','REFUNDED');default:'PENDING'" json:"status"`
	SeniorCitizen         bool                     `gorm:"default:false" json:"senior_citizen"`
	SeniorDiscountAmount  float64                  `gorm:"type:decimal(10,2);default:0.00" json:"senior_discount_amount"`
	SeniorDiscountPercent float64                  `gorm:"type:decimal(5,2);default:0.00" json:"senior_discount_percent"`
	Itemized              bool                     `gorm:"default:false" json:"itemized"`
	Items                 []BillingTransactionItem `gorm:"foreignKey:TransactionID" json:"items"`
	Links                 []AppointmentBillingLink `gorm:"foreignKey:TransactionID" json:"links"`
	CreatedAt             time.Time                `json:"created_at"`
	UpdatedAt             time.Time                `json:"updated_at"`
}

// BillingTransactionItem is one priced line within a transaction. Items are
// owned by their transaction and are deleted and recreated wholesale whenever
// the reconciler decides the itemization must be rebuilt.
type BillingTransactionItem struct {
	ID            uint     `gorm:"primaryKey" json:"id"`
	TransactionID uint     `gorm:"index;not null" json:"transaction_id"`
	ItemType      string   `gorm:"type:enum('CONSULTATION','LABORATORY','MEDICINE','PROCEDURE','OTHER');not null" json:"item_type"`
	Name          string   `gorm:"size:150;not null" json:"name"`
	Description   string   `gorm:"type:text" json:"description"`
	Quantity      int      `gorm:"default:1" json:"quantity"`
	UnitPrice     float64  `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	TotalPrice    float64  `gorm:"type:decimal(10,2);not null" json:"total_price"`
	LabTestID     *uint    `json:"lab_test_id"`
	LabTest       *LabTest `gorm:"foreignKey:LabTestID" json:"lab_test,omitempty"`
}

const (
	LinkStatusPending = "PENDING"
	LinkStatusBilled  = "BILLED"
)

// AppointmentBillingLink ties one appointment to one billing transaction,
// carrying a snapshot of the appointment type and price at link time. At most
// one link exists per (appointment, transaction) pair.
type AppointmentBillingLink struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	AppointmentID uint      `gorm:"uniqueIndex:idx_appt_txn;not null" json:"appointment_id"`
	TransactionID uint      `gorm:"uniqueIndex:idx_appt_txn;not null" json:"transaction_id"`
	TypeCode      string    `gorm:"size:50" json:"type_code"`
	Price         float64   `gorm:"type:decimal(10,2)" json:"price"`
	Status        string    `gorm:"type:enum('PENDING','BILLED');default:'PENDING'" json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

const (
	DoctorPaymentPending  = "PENDING"
	DoctorPaymentReleased = "RELEASED"
)

// DoctorPayment accrues the doctor's share when a transaction carrying a
// doctor reference is marked paid. One row per transaction.
type DoctorPayment struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	DoctorID      uint      `gorm:"index;not null" json:"doctor_id"`
	Doctor        Doctor    `gorm:"foreignKey:DoctorID" json:"doctor"`
	TransactionID uint      `gorm:"uniqueIndex;not null" json:"transaction_id"`
	Amount        float64   `gorm:"type:decimal(10,2);not null" json:"amount"`
	Status        string    `gorm:"type:enum('PENDING','RELEASED');default:'PENDING'" json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
