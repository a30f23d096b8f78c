package dto

import (
	"sitestock/internal/core/types"
	"sitestock/internal/domain/billing"
)

// ComputeBillRequest carries a full bill snapshot for a preview computation.
// Item figures are raw strings: draft bills arrive with blank or malformed
// amounts and those contribute zero rather than failing the request.
type ComputeBillRequest struct {
	BillType string            `json:"billType" binding:"required"`
	Items    []BillLineItem    `json:"items"`
	Charges  BillCharges       `json:"charges"`
	TaxRates BillTaxRates      `json:"taxRates"`
	Deduct   BillDeductions    `json:"deductions"`
}

// BillLineItem is one priced row of the snapshot.
type BillLineItem struct {
	Description string `json:"description"`
	Quantity    string `json:"quantity"`
	Rate        string `json:"rate"`
	Amount      string `json:"amount"`
}

// BillCharges are amounts added on top of the item subtotal.
type BillCharges struct {
	Labour    types.Money `json:"labour"`
	Transport types.Money `json:"transport"`
	Other     types.Money `json:"other"`
}

// BillTaxRates are GST percentages.
type BillTaxRates struct {
	CGST types.Money `json:"cgst"`
	SGST types.Money `json:"sgst"`
	IGST types.Money `json:"igst"`
}

// BillDeductions reduce the payable total.
type BillDeductions struct {
	TDS           types.Money `json:"tds"`
	Retention     types.Money `json:"retention"`
	AdvancePaid   types.Money `json:"advancePaid"`
	PreviousBills types.Money `json:"previousBills"`
}

// ToSnapshot converts the request to the engine's input.
func (r ComputeBillRequest) ToSnapshot() billing.Snapshot {
	items := make([]billing.LineItem, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, billing.LineItem{
			Description: item.Description,
			Quantity:    item.Quantity,
			Rate:        item.Rate,
			Amount:      item.Amount,
		})
	}
	return billing.Snapshot{
		BillType: billing.BillType(r.BillType),
		Items:    items,
		Charges: billing.Charges{
			Labour:    r.Charges.Labour,
			Transport: r.Charges.Transport,
			Other:     r.Charges.Other,
		},
		TaxRates: billing.TaxRates{
			CGST: r.TaxRates.CGST,
			SGST: r.TaxRates.SGST,
			IGST: r.TaxRates.IGST,
		},
		Deductions: billing.Deductions{
			TDS:           r.Deduct.TDS,
			Retention:     r.Deduct.Retention,
			AdvancePaid:   r.Deduct.AdvancePaid,
			PreviousBills: r.Deduct.PreviousBills,
		},
	}
}

// BillSummaryResponse is the computed bill summary. Figures are rounded to
// two decimal places at this boundary.
type BillSummaryResponse struct {
	Subtotal     types.Money `json:"subtotal"`
	GrossAmount  types.Money `json:"grossAmount"`
	CGSTAmount   types.Money `json:"cgstAmount"`
	SGSTAmount   types.Money `json:"sgstAmount"`
	IGSTAmount   types.Money `json:"igstAmount"`
	TotalWithTax types.Money `json:"totalWithTax"`
	NetPayable   types.Money `json:"netPayable"`
}

// FromBillSummary maps the engine output to its response shape.
func FromBillSummary(summary *billing.Summary) BillSummaryResponse {
	return BillSummaryResponse{
		Subtotal:     summary.Subtotal,
		GrossAmount:  summary.GrossAmount,
		CGSTAmount:   summary.CGSTAmount,
		SGSTAmount:   summary.SGSTAmount,
		IGSTAmount:   summary.IGSTAmount,
		TotalWithTax: summary.TotalWithTax,
		NetPayable:   summary.NetPayable,
	}
}
