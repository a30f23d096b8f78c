package billing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"sitestock/internal/core/apperror"
)

var (
	hundred = decimal.NewFromInt(100)
	half    = decimal.New(5, -1)
)

// roundHalfUp rounds to two decimal places with ties going toward positive
// infinity, so -0.125 becomes -0.12. decimal.Round breaks ties away from
// zero, which diverges on negative figures such as an overpaid NetPayable.
func roundHalfUp(d decimal.Decimal) decimal.Decimal {
	return d.Shift(2).Add(half).Floor().Shift(-2)
}

// Compute derives the monetary summary from a snapshot.
//
// Pipeline: subtotal over item amounts, gross with charges, GST on gross,
// then deductions. The advance-paid sign flips by bill type: an invoice
// subtracts the advance as already collected, a quotation adds it back so
// the figure shows the amount due before the advance is applied. That
// asymmetry is a business rule, not a bug.
//
// Negative figures are rejected before any arithmetic, collected per field
// into a single VALIDATION_ERROR so the caller can render every problem at
// once. The function is deterministic and side-effect free.
func Compute(snapshot Snapshot) (*Summary, error) {
	if err := validate(snapshot); err != nil {
		return nil, err
	}

	subtotal := decimal.Zero
	for _, item := range snapshot.Items {
		subtotal = subtotal.Add(parseAmount(item.Amount))
	}

	gross := subtotal.
		Add(snapshot.Charges.Labour).
		Add(snapshot.Charges.Transport).
		Add(snapshot.Charges.Other)

	cgst := gross.Mul(snapshot.TaxRates.CGST).Div(hundred)
	sgst := gross.Mul(snapshot.TaxRates.SGST).Div(hundred)
	igst := gross.Mul(snapshot.TaxRates.IGST).Div(hundred)

	totalWithTax := gross.Add(cgst).Add(sgst).Add(igst)

	net := totalWithTax.
		Sub(snapshot.Deductions.TDS).
		Sub(snapshot.Deductions.Retention).
		Add(snapshot.Deductions.PreviousBills)

	if snapshot.BillType == TypeQuotation {
		net = net.Add(snapshot.Deductions.AdvancePaid)
	} else {
		net = net.Sub(snapshot.Deductions.AdvancePaid)
	}

	// Rounding happens here and only here, at the display boundary.
	return &Summary{
		Subtotal:     roundHalfUp(subtotal),
		GrossAmount:  roundHalfUp(gross),
		CGSTAmount:   roundHalfUp(cgst),
		SGSTAmount:   roundHalfUp(sgst),
		IGSTAmount:   roundHalfUp(igst),
		TotalWithTax: roundHalfUp(totalWithTax),
		NetPayable:   roundHalfUp(net),
	}, nil
}

// validate collects every negative-figure failure into one aggregated error.
func validate(snapshot Snapshot) error {
	fields := map[string]string{}

	switch snapshot.BillType {
	case TypeInvoice, TypeQuotation:
	default:
		fields["billType"] = fmt.Sprintf("must be %s or %s", TypeInvoice, TypeQuotation)
	}

	for i, item := range snapshot.Items {
		if parseAmount(item.Amount).IsNegative() {
			fields[fmt.Sprintf("items[%d].amount", i)] = "must not be negative"
		}
		if parseAmount(item.Quantity).IsNegative() {
			fields[fmt.Sprintf("items[%d].quantity", i)] = "must not be negative"
		}
		if parseAmount(item.Rate).IsNegative() {
			fields[fmt.Sprintf("items[%d].rate", i)] = "must not be negative"
		}
	}

	checkNonNegative := func(field string, v decimal.Decimal) {
		if v.IsNegative() {
			fields[field] = "must not be negative"
		}
	}
	checkNonNegative("charges.labour", snapshot.Charges.Labour)
	checkNonNegative("charges.transport", snapshot.Charges.Transport)
	checkNonNegative("charges.other", snapshot.Charges.Other)
	checkNonNegative("taxRates.cgst", snapshot.TaxRates.CGST)
	checkNonNegative("taxRates.sgst", snapshot.TaxRates.SGST)
	checkNonNegative("taxRates.igst", snapshot.TaxRates.IGST)
	checkNonNegative("deductions.tds", snapshot.Deductions.TDS)
	checkNonNegative("deductions.retention", snapshot.Deductions.Retention)
	checkNonNegative("deductions.advancePaid", snapshot.Deductions.AdvancePaid)
	checkNonNegative("deductions.previousBills", snapshot.Deductions.PreviousBills)

	if len(fields) > 0 {
		return apperror.NewFieldValidation(fields)
	}
	return nil
}
