package notifications

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

var jakarta = loadJakarta()

func loadJakarta() *time.Location {
	loc, err := time.LoadLocation("Asia/Jakarta")
	if err != nil {
		return time.FixedZone("WIB", 7*60*60)
	}
	return loc
}

// FormatRupiah renders an IDR amount as "Rp50.000".
func FormatRupiah(amount int64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	digits := strconv.FormatInt(amount, 10)

	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(d)
	}
	if neg {
		return "-Rp" + b.String()
	}
	return "Rp" + b.String()
}

type PaymentInfo struct {
	StudentName  string
	GuardianName string
	CategoryName string
	OrderID      string
	Amount       int64
	Method       string
	PaidAt       time.Time
	PaymentURL   string
}

func PaymentConfirmedMessage(p PaymentInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Halo %s,\n\n", greetingName(p))
	fmt.Fprintf(&b, "Pembayaran kas kelas untuk *%s* sudah kami terima.\n\n", p.StudentName)
	fmt.Fprintf(&b, "No. Order: %s\n", p.OrderID)
	if p.CategoryName != "" {
		fmt.Fprintf(&b, "Kategori: %s\n", p.CategoryName)
	}
	fmt.Fprintf(&b, "Jumlah: %s\n", FormatRupiah(p.Amount))
	if p.Method != "" {
		fmt.Fprintf(&b, "Metode: %s\n", strings.ToUpper(p.Method))
	}
	if !p.PaidAt.IsZero() {
		fmt.Fprintf(&b, "Waktu: %s WIB\n", p.PaidAt.In(jakarta).Format("02/01/2006 15:04"))
	}
	b.WriteString("\nTerima kasih.")
	return b.String()
}

func PaymentReminderMessage(p PaymentInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Halo %s,\n\n", greetingName(p))
	fmt.Fprintf(&b, "Tagihan kas kelas untuk *%s* belum dibayar.\n\n", p.StudentName)
	fmt.Fprintf(&b, "No. Order: %s\n", p.OrderID)
	if p.CategoryName != "" {
		fmt.Fprintf(&b, "Kategori: %s\n", p.CategoryName)
	}
	fmt.Fprintf(&b, "Jumlah: %s\n", FormatRupiah(p.Amount))
	if p.PaymentURL != "" {
		fmt.Fprintf(&b, "\nBayar di sini: %s\n", p.PaymentURL)
	}
	b.WriteString("\nTerima kasih.")
	return b.String()
}

func greetingName(p PaymentInfo) string {
	if p.GuardianName != "" {
		return p.GuardianName
	}
	return "Bapak/Ibu"
}
