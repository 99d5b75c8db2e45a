package receivable

import (
	"context"

	"github.com/google/uuid"
)

// CustomerRepository persists customers and their region assignment.
type CustomerRepository interface {
	Save(ctx context.Context, customer *Customer) error
	FindByCustomerNo(ctx context.Context, customerNo string) (*Customer, error)
	FindByName(ctx context.Context, name string) (*Customer, error)
	FindByRegion(ctx context.Context, regionID *int64) ([]*Customer, error)
	FindAll(ctx context.Context) ([]*Customer, error)
}

// RegionRepository persists reporting regions.
type RegionRepository interface {
	Save(ctx context.Context, region *Region) error
	FindByName(ctx context.Context, name string) (*Region, error)
	FindByID(ctx context.Context, id int64) (*Region, error)
	FindAll(ctx context.Context) ([]*Region, error)
}

// InvoiceRepository persists invoices keyed by invoice number.
type InvoiceRepository interface {
	Save(ctx context.Context, invoice *Invoice) error
	FindByInvoiceNo(ctx context.Context, invoiceNo string) (*Invoice, error)
	FindByCustomerNo(ctx context.Context, customerNo string) ([]*Invoice, error)
	FindByCustomerName(ctx context.Context, name string) ([]*Invoice, error)
	// LatestByCustomerName returns the customer's most recent invoice by
	// invoice date, nil when the customer has none.
	LatestByCustomerName(ctx context.Context, name string) (*Invoice, error)
	FindAll(ctx context.Context) ([]*Invoice, error)
}

// PaymentRepository persists the payment batch. Imports replace the whole
// table, so the interface has no per-row update.
type PaymentRepository interface {
	DeleteAll(ctx context.Context) error
	SaveBatch(ctx context.Context, payments []*Payment) error
	FindByCustomerNo(ctx context.Context, customerNo string) ([]*Payment, error)
	FindByCustomerName(ctx context.Context, name string) ([]*Payment, error)
	FindAll(ctx context.Context) ([]*Payment, error)
}

// SettingRepository persists tunable numeric settings.
type SettingRepository interface {
	Get(ctx context.Context, key string) (*Setting, error)
	Upsert(ctx context.Context, setting *Setting) error
}

// ActionRepository persists the collection action log.
type ActionRepository interface {
	Save(ctx context.Context, action *Action) error
	FindByID(ctx context.Context, id uuid.UUID) (*Action, error)
	// List returns actions newest first, optionally filtered by customer
	// number.
	List(ctx context.Context, customerNo *string, limit int) ([]*Action, error)
}
