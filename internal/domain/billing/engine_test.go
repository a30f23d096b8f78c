package billing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitestock/internal/core/apperror"
)

func money(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func gstSnapshot(billType BillType) Snapshot {
	return Snapshot{
		BillType: billType,
		Items: []LineItem{
			{Description: "cement", Quantity: "20", Rate: "30", Amount: "600"},
			{Description: "steel", Quantity: "4", Rate: "100", Amount: "400"},
		},
		TaxRates: TaxRates{CGST: money("9"), SGST: money("9"), IGST: money("0")},
		Deductions: Deductions{
			TDS:           money("2"),
			Retention:     money("0"),
			AdvancePaid:   money("100"),
			PreviousBills: money("0"),
		},
	}
}

func TestComputeInvoice(t *testing.T) {
	summary, err := Compute(gstSnapshot(TypeInvoice))
	require.NoError(t, err)

	assert.True(t, summary.Subtotal.Equal(money("1000")), "subtotal = %s", summary.Subtotal)
	assert.True(t, summary.GrossAmount.Equal(money("1000")))
	assert.True(t, summary.CGSTAmount.Equal(money("90")))
	assert.True(t, summary.SGSTAmount.Equal(money("90")))
	assert.True(t, summary.IGSTAmount.Equal(money("0")))
	assert.True(t, summary.TotalWithTax.Equal(money("1180")))
	assert.True(t, summary.NetPayable.Equal(money("1078")), "net = %s", summary.NetPayable)
}

func TestComputeQuotationAddsAdvanceBack(t *testing.T) {
	summary, err := Compute(gstSnapshot(TypeQuotation))
	require.NoError(t, err)

	// Same inputs as the invoice case; only the advance sign differs.
	assert.True(t, summary.TotalWithTax.Equal(money("1180")))
	assert.True(t, summary.NetPayable.Equal(money("1278")), "net = %s", summary.NetPayable)
}

func TestComputeIsDeterministic(t *testing.T) {
	snapshot := gstSnapshot(TypeInvoice)

	first, err := Compute(snapshot)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := Compute(snapshot)
		require.NoError(t, err)
		assert.True(t, first.NetPayable.Equal(again.NetPayable))
		assert.True(t, first.TotalWithTax.Equal(again.TotalWithTax))
	}
}

func TestComputeLenientOnDraftAmounts(t *testing.T) {
	snapshot := Snapshot{
		BillType: TypeInvoice,
		Items: []LineItem{
			{Description: "priced", Amount: "150.50"},
			{Description: "blank"},
			{Description: "garbage", Amount: "n/a"},
		},
	}

	summary, err := Compute(snapshot)
	require.NoError(t, err)
	assert.True(t, summary.Subtotal.Equal(money("150.50")), "subtotal = %s", summary.Subtotal)
	assert.True(t, summary.NetPayable.Equal(money("150.50")))
}

func TestComputeChargesFeedTaxBase(t *testing.T) {
	snapshot := Snapshot{
		BillType: TypeInvoice,
		Items:    []LineItem{{Description: "work", Amount: "500"}},
		Charges:  Charges{Labour: money("200"), Transport: money("100"), Other: money("200")},
		TaxRates: TaxRates{IGST: money("18")},
	}

	summary, err := Compute(snapshot)
	require.NoError(t, err)
	assert.True(t, summary.GrossAmount.Equal(money("1000")))
	assert.True(t, summary.IGSTAmount.Equal(money("180")))
	assert.True(t, summary.TotalWithTax.Equal(money("1180")))
	assert.True(t, summary.NetPayable.Equal(money("1180")))
}

func TestComputeRoundsDisplayFiguresOnly(t *testing.T) {
	snapshot := Snapshot{
		BillType: TypeInvoice,
		Items:    []LineItem{{Description: "odd", Amount: "33.333"}},
		TaxRates: TaxRates{CGST: money("9"), SGST: money("9")},
	}

	summary, err := Compute(snapshot)
	require.NoError(t, err)
	// 33.333 * 1.18 = 39.33294, tax computed on the unrounded base.
	assert.True(t, summary.Subtotal.Equal(money("33.33")), "subtotal = %s", summary.Subtotal)
	assert.True(t, summary.CGSTAmount.Equal(money("3.00")), "cgst = %s", summary.CGSTAmount)
	assert.True(t, summary.NetPayable.Equal(money("39.33")), "net = %s", summary.NetPayable)
}

func TestComputeRoundsNegativeNetHalfUp(t *testing.T) {
	snapshot := Snapshot{
		BillType:   TypeInvoice,
		Items:      []LineItem{{Description: "work", Amount: "100"}},
		Deductions: Deductions{AdvancePaid: money("110.125")},
	}

	summary, err := Compute(snapshot)
	require.NoError(t, err)
	// Net is -10.125; ties go toward positive infinity, not away from zero.
	assert.True(t, summary.NetPayable.Equal(money("-10.12")), "net = %s", summary.NetPayable)
}

func TestComputeRoundsPositiveTieHalfUp(t *testing.T) {
	snapshot := Snapshot{
		BillType: TypeInvoice,
		Items:    []LineItem{{Description: "work", Amount: "10.005"}},
	}

	summary, err := Compute(snapshot)
	require.NoError(t, err)
	assert.True(t, summary.NetPayable.Equal(money("10.01")), "net = %s", summary.NetPayable)
}

func TestComputeRejectsNegativesAggregated(t *testing.T) {
	snapshot := Snapshot{
		BillType: TypeInvoice,
		Items: []LineItem{
			{Description: "bad", Amount: "-10"},
		},
		Charges:    Charges{Labour: money("-5")},
		TaxRates:   TaxRates{CGST: money("-1")},
		Deductions: Deductions{TDS: money("-2")},
	}

	_, err := Compute(snapshot)
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)

	fields, ok := appErr.Details["fields"].(map[string]string)
	require.True(t, ok, "expected aggregated field map, got %T", appErr.Details["fields"])
	assert.Contains(t, fields, "items[0].amount")
	assert.Contains(t, fields, "charges.labour")
	assert.Contains(t, fields, "taxRates.cgst")
	assert.Contains(t, fields, "deductions.tds")
}

func TestComputeRejectsUnknownBillType(t *testing.T) {
	snapshot := gstSnapshot("estimate")
	_, err := Compute(snapshot)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
}
