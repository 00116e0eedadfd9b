package notifications

import (
	"strings"
	"testing"
	"time"
)

func TestFormatRupiah(t *testing.T) {
	cases := map[int64]string{
		0:         "Rp0",
		500:       "Rp500",
		5000:      "Rp5.000",
		50000:     "Rp50.000",
		1250000:   "Rp1.250.000",
		-20000:    "-Rp20.000",
		100000000: "Rp100.000.000",
	}
	for in, want := range cases {
		if got := FormatRupiah(in); got != want {
			t.Errorf("FormatRupiah(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestPaymentConfirmedMessage(t *testing.T) {
	msg := PaymentConfirmedMessage(PaymentInfo{
		StudentName:  "Aisyah",
		GuardianName: "Ibu Rahma",
		CategoryName: "Kas Maret",
		OrderID:      "KAS202403000123",
		Amount:       50000,
		Method:       "qris",
		PaidAt:       time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC),
	})

	for _, want := range []string{"Ibu Rahma", "Aisyah", "KAS202403000123", "Rp50.000", "QRIS", "15/03/2024 17:00"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q:\n%s", want, msg)
		}
	}
}

func TestPaymentReminderMessageFallsBackToGenericGreeting(t *testing.T) {
	msg := PaymentReminderMessage(PaymentInfo{
		StudentName: "Bima",
		OrderID:     "KAS202403000124",
		Amount:      25000,
		PaymentURL:  "https://app.pakasir.com/pay/kelas/25000?order_id=KAS202403000124",
	})
	if !strings.HasPrefix(msg, "Halo Bapak/Ibu") {
		t.Errorf("unexpected greeting: %s", msg)
	}
	if !strings.Contains(msg, "https://app.pakasir.com/pay/kelas/25000") {
		t.Errorf("reminder should carry the payment link: %s", msg)
	}
}
