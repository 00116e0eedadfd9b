package billing

import (
	"fmt"
	"time"
)

const OrderPrefix = "KAS"

// NewOrderID builds "KAS" + YYYYMM + the last six digits of the instant in
// milliseconds, e.g. KAS202403000123.
func NewOrderID(now time.Time) string {
	return orderID(now, 0)
}

// NewOrderIDs returns n references for one instant. The suffix is bumped per
// item so a bulk issue never reuses a reference inside the batch.
func NewOrderIDs(now time.Time, n int) []string {
	return OrderIDsAfter(now, 0, n)
}

// OrderIDsAfter is NewOrderIDs with the first skip suffixes passed over. It
// gives a retried batch a fresh window of references.
func OrderIDsAfter(now time.Time, skip, n int) []string {
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		ids = append(ids, orderID(now, int64(skip+i)))
	}
	return ids
}

func orderID(now time.Time, offset int64) string {
	suffix := (now.UnixMilli() + offset) % 1_000_000
	return fmt.Sprintf("%s%s%06d", OrderPrefix, now.Format("200601"), suffix)
}
