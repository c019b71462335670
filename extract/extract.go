// Package extract derives the labeled training fields of a finished
// document from its text regions.
package extract

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/receiptforge-project/receiptforge/layout"
	"github.com/receiptforge-project/receiptforge/pkg/utils"
	"github.com/receiptforge-project/receiptforge/txn"
)

// GroundTruth is the per-document label record persisted next to the image.
type GroundTruth struct {
	Company string `json:"company"`
	Date    string `json:"date"`
	Address string `json:"address"`
	Total   string `json:"total"`
}

// FromRegions scans regions in layout order and pairs them with tx to fill
// the four labeled fields. The scan is positional rather than tag-driven
// (only the address field consults tags, with the transaction as fallback),
// so sparsely tagged documents still extract. Pure function of its inputs.
func FromRegions(tx txn.Transaction, regions []layout.TextRegion) GroundTruth {
	return GroundTruth{
		Company: extractCompany(regions),
		Date:    extractDate(tx, regions),
		Address: extractAddress(tx, regions),
		Total:   extractTotal(regions),
	}
}

func extractCompany(regions []layout.TextRegion) string {
	r, ok := utils.Find(regions, func(r layout.TextRegion) bool {
		return len(strings.TrimSpace(r.Text)) > 3
	})
	if !ok {
		return ""
	}
	return strings.TrimSpace(r.Text)
}

func extractDate(tx txn.Transaction, regions []layout.TextRegion) string {
	for _, r := range regions {
		if token, ok := dateToken(strings.TrimSpace(r.Text)); ok {
			return token
		}
	}
	if fields := strings.Fields(tx.Timestamp); len(fields) > 0 {
		return fields[0]
	}
	return ""
}

// dateToken picks the first whitespace field of s shaped like a/b/c with
// all three parts non-empty. Texts without any digit never qualify.
func dateToken(s string) (string, bool) {
	if !strings.ContainsAny(s, "0123456789") {
		return "", false
	}
	return utils.Find(strings.Fields(s), func(field string) bool {
		parts := strings.Split(field, "/")
		if len(parts) != 3 {
			return false
		}
		return !utils.Some(parts, func(p string) bool { return p == "" })
	})
}

func extractAddress(tx txn.Transaction, regions []layout.TextRegion) string {
	tagged := utils.Filter(regions, func(r layout.TextRegion) bool {
		return r.Tag == layout.TagAddress
	})
	if len(tagged) > 0 {
		return utils.Join(utils.Map(tagged, func(r layout.TextRegion) string {
			return strings.TrimSpace(r.Text)
		}), ", ")
	}
	return utils.Join(tx.Store.Address, ", ")
}

func extractTotal(regions []layout.TextRegion) string {
	var best float64
	found := false
	for _, r := range regions {
		for _, field := range strings.Fields(r.Text) {
			if !strings.HasPrefix(field, "$") {
				continue
			}
			raw := strings.ReplaceAll(strings.TrimPrefix(field, "$"), ",", "")
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				continue
			}
			if !found || math.Abs(v) > math.Abs(best) {
				best = v
				found = true
			}
		}
	}
	if !found {
		return ""
	}
	return fmt.Sprintf("%.2f", best)
}
