package extract

import (
	"reflect"
	"testing"

	"github.com/receiptforge-project/receiptforge/layout"
	"github.com/receiptforge-project/receiptforge/txn"
)

func region(text, tag string) layout.TextRegion {
	return layout.TextRegion{Text: text, Tag: tag}
}

func sampleTx() txn.Transaction {
	return txn.Transaction{
		Store: txn.Store{
			Name:    "FreshMart",
			Address: []string{"123 Main St", "Springfield, IL 62704"},
			Phone:   "(555) 123-4567",
		},
		Total:     42.50,
		Timestamp: "08/15/2026 02:33:12 PM",
	}
}

func TestCompanyIsFirstSubstantialRegion(t *testing.T) {
	regions := []layout.TextRegion{
		region("ab", layout.TagStoreName),
		region("  FreshMart  ", layout.TagStoreName),
		region("123 Main St", layout.TagAddress),
	}
	got := FromRegions(sampleTx(), regions)
	if got.Company != "FreshMart" {
		t.Errorf("company = %q, want %q", got.Company, "FreshMart")
	}
}

func TestCompanyEmptyWhenNothingQualifies(t *testing.T) {
	regions := []layout.TextRegion{region("ab", ""), region("  x ", "")}
	if got := FromRegions(sampleTx(), regions); got.Company != "" {
		t.Errorf("company = %q, want empty", got.Company)
	}
}

func TestDatePicksSlashTokenFromMixedText(t *testing.T) {
	regions := []layout.TextRegion{
		region("FreshMart", layout.TagStoreName),
		region("08/15/2026 02:33:12 PM", layout.TagTimestamp),
	}
	got := FromRegions(sampleTx(), regions)
	if got.Date != "08/15/2026" {
		t.Errorf("date = %q, want %q", got.Date, "08/15/2026")
	}
}

func TestDateRejectsDegenerateTokens(t *testing.T) {
	regions := []layout.TextRegion{
		region("buy 1 get 1 w/coupon 2", ""),
		region("a//b 9", ""),
		region("12/31/2025", ""),
	}
	got := FromRegions(sampleTx(), regions)
	if got.Date != "12/31/2025" {
		t.Errorf("date = %q, want %q", got.Date, "12/31/2025")
	}
}

func TestDateFallsBackToTransactionTimestamp(t *testing.T) {
	regions := []layout.TextRegion{region("FreshMart", layout.TagStoreName)}
	got := FromRegions(sampleTx(), regions)
	if got.Date != "08/15/2026" {
		t.Errorf("date = %q, want timestamp date portion", got.Date)
	}
}

func TestAddressJoinsTaggedRegions(t *testing.T) {
	regions := []layout.TextRegion{
		region("FreshMart", layout.TagStoreName),
		region("123 Main St", layout.TagAddress),
		region("Springfield, IL 62704", layout.TagAddress),
	}
	got := FromRegions(sampleTx(), regions)
	want := "123 Main St, Springfield, IL 62704"
	if got.Address != want {
		t.Errorf("address = %q, want %q", got.Address, want)
	}
}

func TestAddressFallsBackToTransaction(t *testing.T) {
	regions := []layout.TextRegion{region("FreshMart", layout.TagStoreName)}
	got := FromRegions(sampleTx(), regions)
	want := "123 Main St, Springfield, IL 62704"
	if got.Address != want {
		t.Errorf("address = %q, want %q", got.Address, want)
	}
}

func TestTotalPicksLargestCurrencyToken(t *testing.T) {
	regions := []layout.TextRegion{
		region("$3.49", layout.TagItemPrice),
		region("TOTAL $42.50", layout.TagTotal),
		region("$12.10", layout.TagItemPrice),
	}
	got := FromRegions(sampleTx(), regions)
	if got.Total != "42.50" {
		t.Errorf("total = %q, want %q", got.Total, "42.50")
	}
}

func TestTotalSkipsUnparseableCandidates(t *testing.T) {
	regions := []layout.TextRegion{
		region("$see-below", ""),
		region("$1,204.07", ""),
		region("$7.00", ""),
	}
	got := FromRegions(sampleTx(), regions)
	if got.Total != "1204.07" {
		t.Errorf("total = %q, want %q", got.Total, "1204.07")
	}
}

func TestTotalEmptyWithoutCurrency(t *testing.T) {
	regions := []layout.TextRegion{region("no charge", "")}
	if got := FromRegions(sampleTx(), regions); got.Total != "" {
		t.Errorf("total = %q, want empty", got.Total)
	}
}

func TestExtractionIsIdempotent(t *testing.T) {
	tx := sampleTx()
	regions := []layout.TextRegion{
		region("FreshMart", layout.TagStoreName),
		region("123 Main St", layout.TagAddress),
		region("08/15/2026 02:33:12 PM", layout.TagTimestamp),
		region("$42.50", layout.TagTotal),
	}
	first := FromRegions(tx, regions)
	second := FromRegions(tx, regions)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("extraction not idempotent: %+v vs %+v", first, second)
	}
	if first.Total != "42.50" {
		t.Errorf("total = %q, want %q", first.Total, "42.50")
	}
}
