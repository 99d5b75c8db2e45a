package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/receivable360/backend/internal/domain/receivable"
	"github.com/shopspring/decimal"
)

// RegionModel is the persistence model for the Region domain entity.
type RegionModel struct {
	ID   int64  `gorm:"primaryKey;autoIncrement"`
	Name string `gorm:"type:varchar(255);not null;uniqueIndex"`
}

// TableName returns the table name for GORM
func (RegionModel) TableName() string {
	return "regions"
}

// ToDomain converts the persistence model to a domain Region entity.
func (m *RegionModel) ToDomain() *receivable.Region {
	return &receivable.Region{
		ID:   m.ID,
		Name: m.Name,
	}
}

// RegionModelFromDomain creates a persistence model from a domain Region.
func RegionModelFromDomain(r *receivable.Region) *RegionModel {
	return &RegionModel{
		ID:   r.ID,
		Name: r.Name,
	}
}

// CustomerModel is the persistence model for the Customer domain entity.
type CustomerModel struct {
	ID         int64   `gorm:"primaryKey;autoIncrement"`
	CustomerNo *string `gorm:"type:varchar(64);uniqueIndex"`
	Name       string  `gorm:"type:varchar(255);not null;index"`
	RegionID   *int64  `gorm:"index"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer entity.
func (m *CustomerModel) ToDomain() *receivable.Customer {
	return &receivable.Customer{
		ID:         m.ID,
		CustomerNo: m.CustomerNo,
		Name:       m.Name,
		RegionID:   m.RegionID,
	}
}

// FromDomain populates the persistence model from a domain Customer.
func (m *CustomerModel) FromDomain(c *receivable.Customer) {
	m.ID = c.ID
	m.CustomerNo = c.CustomerNo
	m.Name = c.Name
	m.RegionID = c.RegionID
}

// CustomerModelFromDomain creates a persistence model from a domain Customer.
func CustomerModelFromDomain(c *receivable.Customer) *CustomerModel {
	m := &CustomerModel{}
	m.FromDomain(c)
	return m
}

// InvoiceModel is the persistence model for the Invoice domain entity.
type InvoiceModel struct {
	ID           int64           `gorm:"primaryKey;autoIncrement"`
	InvoiceNo    string          `gorm:"type:varchar(64);not null;uniqueIndex"`
	CustomerID   *int64          `gorm:"index"`
	CustomerNo   *string         `gorm:"type:varchar(64);index"`
	CustomerName string          `gorm:"type:varchar(255);not null;index"`
	InvoiceDate  *time.Time      `gorm:"type:date"`
	DueDate      *time.Time      `gorm:"type:date;index"`
	Currency     string          `gorm:"type:varchar(8)"`
	TotalAmount  decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	OpenBalance  decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	DelayDays    *int
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice entity.
func (m *InvoiceModel) ToDomain() *receivable.Invoice {
	return &receivable.Invoice{
		ID:           m.ID,
		InvoiceNo:    m.InvoiceNo,
		CustomerID:   m.CustomerID,
		CustomerNo:   m.CustomerNo,
		CustomerName: m.CustomerName,
		InvoiceDate:  m.InvoiceDate,
		DueDate:      m.DueDate,
		Currency:     m.Currency,
		TotalAmount:  m.TotalAmount,
		OpenBalance:  m.OpenBalance,
		DelayDays:    m.DelayDays,
	}
}

// FromDomain populates the persistence model from a domain Invoice.
func (m *InvoiceModel) FromDomain(inv *receivable.Invoice) {
	m.ID = inv.ID
	m.InvoiceNo = inv.InvoiceNo
	m.CustomerID = inv.CustomerID
	m.CustomerNo = inv.CustomerNo
	m.CustomerName = inv.CustomerName
	m.InvoiceDate = inv.InvoiceDate
	m.DueDate = inv.DueDate
	m.Currency = inv.Currency
	m.TotalAmount = inv.TotalAmount
	m.OpenBalance = inv.OpenBalance
	m.DelayDays = inv.DelayDays
}

// InvoiceModelFromDomain creates a persistence model from a domain Invoice.
func InvoiceModelFromDomain(inv *receivable.Invoice) *InvoiceModel {
	m := &InvoiceModel{}
	m.FromDomain(inv)
	return m
}

// PaymentModel is the persistence model for the Payment domain entity.
type PaymentModel struct {
	ID               int64           `gorm:"primaryKey;autoIncrement"`
	CustomerNo       *string         `gorm:"type:varchar(64);index"`
	CustomerName     string          `gorm:"type:varchar(255);not null;index"`
	InvoiceNo        *string         `gorm:"type:varchar(64);index"`
	ValueDate        *time.Time      `gorm:"type:date"`
	PaymentDate      *time.Time      `gorm:"type:date"`
	InvoiceDate      *time.Time      `gorm:"type:date"`
	TermDays         *int
	DelayDays        int             `gorm:"not null;default:0"`
	AppliedAmount    decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	PaymentAmountTRY decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts the persistence model to a domain Payment entity.
func (m *PaymentModel) ToDomain() *receivable.Payment {
	return &receivable.Payment{
		ID:               m.ID,
		CustomerNo:       m.CustomerNo,
		CustomerName:     m.CustomerName,
		InvoiceNo:        m.InvoiceNo,
		ValueDate:        m.ValueDate,
		PaymentDate:      m.PaymentDate,
		InvoiceDate:      m.InvoiceDate,
		TermDays:         m.TermDays,
		DelayDays:        m.DelayDays,
		AppliedAmount:    m.AppliedAmount,
		PaymentAmountTRY: m.PaymentAmountTRY,
	}
}

// PaymentModelFromDomain creates a persistence model from a domain Payment.
func PaymentModelFromDomain(p *receivable.Payment) *PaymentModel {
	return &PaymentModel{
		ID:               p.ID,
		CustomerNo:       p.CustomerNo,
		CustomerName:     p.CustomerName,
		InvoiceNo:        p.InvoiceNo,
		ValueDate:        p.ValueDate,
		PaymentDate:      p.PaymentDate,
		InvoiceDate:      p.InvoiceDate,
		TermDays:         p.TermDays,
		DelayDays:        p.DelayDays,
		AppliedAmount:    p.AppliedAmount,
		PaymentAmountTRY: p.PaymentAmountTRY,
	}
}

// SettingModel is the persistence model for a numeric Setting.
type SettingModel struct {
	Key   string  `gorm:"type:varchar(64);primaryKey"`
	Value float64 `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SettingModel) TableName() string {
	return "settings"
}

// ToDomain converts the persistence model to a domain Setting.
func (m *SettingModel) ToDomain() *receivable.Setting {
	return &receivable.Setting{Key: m.Key, Value: m.Value}
}

// SettingModelFromDomain creates a persistence model from a domain Setting.
func SettingModelFromDomain(s *receivable.Setting) *SettingModel {
	return &SettingModel{Key: s.Key, Value: s.Value}
}

// ActionModel is the persistence model for the Action domain entity.
type ActionModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	CustomerNo   *string   `gorm:"type:varchar(64);index"`
	CustomerName string    `gorm:"type:varchar(255)"`
	ActionType   string    `gorm:"type:varchar(64);not null"`
	Note         string    `gorm:"type:text"`
	Status       string    `gorm:"type:varchar(16);not null;default:'open'"`
	CreatedAt    time.Time `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (ActionModel) TableName() string {
	return "actions"
}

// ToDomain converts the persistence model to a domain Action entity.
func (m *ActionModel) ToDomain() *receivable.Action {
	return &receivable.Action{
		ID:           m.ID,
		CustomerNo:   m.CustomerNo,
		CustomerName: m.CustomerName,
		ActionType:   m.ActionType,
		Note:         m.Note,
		Status:       receivable.ActionStatus(m.Status),
		CreatedAt:    m.CreatedAt,
	}
}

// ActionModelFromDomain creates a persistence model from a domain Action.
func ActionModelFromDomain(a *receivable.Action) *ActionModel {
	return &ActionModel{
		ID:           a.ID,
		CustomerNo:   a.CustomerNo,
		CustomerName: a.CustomerName,
		ActionType:   a.ActionType,
		Note:         a.Note,
		Status:       string(a.Status),
		CreatedAt:    a.CreatedAt,
	}
}
