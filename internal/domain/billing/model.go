// Package billing computes bill summaries from input snapshots.
// The engine is pure: summaries are derived on every call and never stored
// as the authoritative source, so an item edit can never leave stale totals.
package billing

import (
	"github.com/shopspring/decimal"

	"sitestock/internal/core/types"
)

// BillType selects the advance-paid sign convention.
type BillType string

const (
	// TypeInvoice treats the advance as already collected and subtracts it.
	TypeInvoice BillType = "invoice"
	// TypeQuotation shows the amount due before the advance is applied and
	// adds it back as a separate credit.
	TypeQuotation BillType = "quotation"
)

// LineItem is one priced row of a bill. Amount is carried as a raw string
// because draft bills arrive with blank or malformed figures; an amount that
// does not parse contributes zero to the subtotal.
type LineItem struct {
	Description string `json:"description"`
	Quantity    string `json:"quantity,omitempty"`
	Rate        string `json:"rate,omitempty"`
	Amount      string `json:"amount"`
}

// Charges are the additional amounts added on top of the item subtotal.
type Charges struct {
	Labour    types.Money `json:"labour"`
	Transport types.Money `json:"transport"`
	Other     types.Money `json:"other"`
}

// TaxRates are GST percentages applied to the gross amount.
type TaxRates struct {
	CGST types.Money `json:"cgst"`
	SGST types.Money `json:"sgst"`
	IGST types.Money `json:"igst"`
}

// Deductions reduce (or, for a quotation's advance, credit) the total.
type Deductions struct {
	TDS           types.Money `json:"tds"`
	Retention     types.Money `json:"retention"`
	AdvancePaid   types.Money `json:"advancePaid"`
	PreviousBills types.Money `json:"previousBills"`
}

// Snapshot is the full input to a bill computation.
type Snapshot struct {
	BillType   BillType   `json:"billType"`
	Items      []LineItem `json:"items"`
	Charges    Charges    `json:"charges"`
	TaxRates   TaxRates   `json:"taxRates"`
	Deductions Deductions `json:"deductions"`
}

// Summary is the computed result. All figures are rounded to two decimal
// places for display; intermediate arithmetic runs at full precision.
type Summary struct {
	Subtotal     types.Money `json:"subtotal"`
	GrossAmount  types.Money `json:"grossAmount"`
	CGSTAmount   types.Money `json:"cgstAmount"`
	SGSTAmount   types.Money `json:"sgstAmount"`
	IGSTAmount   types.Money `json:"igstAmount"`
	TotalWithTax types.Money `json:"totalWithTax"`
	NetPayable   types.Money `json:"netPayable"`
}

// parseAmount reads a draft figure leniently. Blank or malformed input is
// zero, a documented leniency for incomplete drafts, not an error.
func parseAmount(raw string) decimal.Decimal {
	if raw == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}
	return d
}
