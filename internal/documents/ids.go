package documents

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// NextInvoiceID returns HD + yyyymmdd + a four digit sequence.
// count is the number of invoices already stored.
func NextInvoiceID(now time.Time, count int) string {
	return fmt.Sprintf("HD%s%04d", now.Format("20060102"), count+1)
}

// NextGoodsReceiptID returns PNyyyymm-NNNN, numbering within the month of now.
func NextGoodsReceiptID(now time.Time, existing []string) string {
	prefix := "PN" + now.Format("200601")
	n := 0
	for _, id := range existing {
		if strings.HasPrefix(id, prefix) {
			n++
		}
	}
	return fmt.Sprintf("%s-%04d", prefix, n+1)
}

// NextTicketID returns GC_ followed by the last six digits of the Unix millisecond clock.
func NextTicketID(now time.Time) string {
	ms := strconv.FormatInt(now.UnixMilli(), 10)
	if len(ms) > 6 {
		ms = ms[len(ms)-6:]
	}
	return "GC_" + ms
}

// NextCode returns prefix followed by one more than the highest number among codes.
// Codes with another prefix or a non-numeric suffix are ignored. A width of 0 disables padding.
func NextCode(prefix string, width int, codes []string) string {
	highest := 0
	for _, code := range codes {
		rest, ok := strings.CutPrefix(code, prefix)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(rest)
		if err != nil || n < 0 {
			continue
		}
		highest = max(highest, n)
	}
	if width <= 0 {
		return prefix + strconv.Itoa(highest+1)
	}
	return fmt.Sprintf("%s%0*d", prefix, width, highest+1)
}
