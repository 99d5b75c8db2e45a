package importing

import "github.com/receivable360/backend/internal/infrastructure/spreadsheet"

// Field identifies a logical column of an import kind independent of the
// header spelling used by the source export.
type Field string

// Invoice export fields
const (
	FieldInvoiceNo    Field = "invoice_no"
	FieldCustomerNo   Field = "customer_no"
	FieldCustomerName Field = "customer_name"
	FieldInvoiceDate  Field = "invoice_date"
	FieldDueDate      Field = "due_date"
	FieldCurrency     Field = "currency"
	FieldTotalAmount  Field = "total_amount"
	FieldOpenBalance  Field = "open_balance"
)

// Payment export fields
const (
	FieldValueDate        Field = "value_date"
	FieldPaymentDate      Field = "payment_date"
	FieldAppliedAmount    Field = "applied_amount"
	FieldPaymentAmountTRY Field = "payment_amount_try"
)

// Region export fields
const (
	FieldRegionName Field = "region_name"
)

// ColumnSpec binds a logical field to the expected header name plus the
// synonyms seen in the wild. The first listed name present in the file wins.
type ColumnSpec struct {
	Field Field
	Names []string
}

// invoiceColumns describes the AR invoice export layout.
var invoiceColumns = []ColumnSpec{
	{Field: FieldInvoiceNo, Names: []string{"Transaction Number"}},
	{Field: FieldCustomerNo, Names: []string{"Customer Number"}},
	{Field: FieldCustomerName, Names: []string{"Customer Name"}},
	{Field: FieldInvoiceDate, Names: []string{"Date"}},
	{Field: FieldDueDate, Names: []string{"Due Date"}},
	{Field: FieldCurrency, Names: []string{"Invoice Currency Code"}},
	{Field: FieldTotalAmount, Names: []string{"Total Amount"}},
	{Field: FieldOpenBalance, Names: []string{"Open Balance"}},
}

// paymentColumns describes the payment export layout. The export is
// produced with Turkish headers; the applied-amount column in particular
// shows up under several spellings.
var paymentColumns = []ColumnSpec{
	{Field: FieldCustomerNo, Names: []string{"Müşteri No"}},
	{Field: FieldCustomerName, Names: []string{"Müşteri Adı"}},
	{Field: FieldInvoiceNo, Names: []string{"AR Fatura No"}},
	{Field: FieldValueDate, Names: []string{"Ödeme Valör Tarihi"}},
	{Field: FieldPaymentDate, Names: []string{"Ödeme Tarihi"}},
	{Field: FieldInvoiceDate, Names: []string{"Fatura Tarihi"}},
	{Field: FieldAppliedAmount, Names: []string{
		"Uygulanan Tutar", "UygulananTutar", "Uygulanan_Tutar",
		"Applied Amount", "applied_amount",
	}},
	{Field: FieldPaymentAmountTRY, Names: []string{"Ödeme Tutar TRY"}},
}

// regionColumns describes the customer-to-region mapping layout.
var regionColumns = []ColumnSpec{
	{Field: FieldCustomerNo, Names: []string{"Customer Number"}},
	{Field: FieldCustomerName, Names: []string{"Customer Name"}},
	{Field: FieldRegionName, Names: []string{"Region Name"}},
}

// columnMap resolves logical fields to the concrete header names of one
// batch. Resolution happens once per batch, not per row.
type columnMap map[Field]string

// resolveColumns matches the specs against the headers present in the
// batch. Fields whose header is absent are simply left unmapped; row
// lookups for them return the empty string.
func resolveColumns(rows []*spreadsheet.Row, specs []ColumnSpec) columnMap {
	cm := make(columnMap, len(specs))
	if len(rows) == 0 {
		return cm
	}
	headers := rows[0].Data
	for _, spec := range specs {
		for _, name := range spec.Names {
			if _, ok := headers[name]; ok {
				cm[spec.Field] = name
				break
			}
		}
	}
	return cm
}

// value reads a field from a row through the resolved mapping.
func (cm columnMap) value(row *spreadsheet.Row, field Field) string {
	header, ok := cm[field]
	if !ok {
		return ""
	}
	return row.Get(header)
}
