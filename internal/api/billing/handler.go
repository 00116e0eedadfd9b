package billing

import (
	"context"
	"time"

	"kaskelas/internal/domain/billing"
	"kaskelas/internal/infra/cache"
	"kaskelas/internal/store"
)

// CheckoutLinker builds gateway checkout links for new bills.
type CheckoutLinker interface {
	PaymentURL(amount int64, orderID, redirect string) string
}

type Reminder interface {
	PaymentReminder(ctx context.Context, p billing.Payment) error
}

type Handler struct {
	Store    *store.Store
	Gateway  CheckoutLinker
	Notifier Reminder
	Cache    cache.Cache
	// RedirectURL is where the gateway sends the payer after checkout.
	RedirectURL string
	Now         func() time.Time
}

func NewHandler(s *store.Store, gateway CheckoutLinker, n Reminder, c cache.Cache, redirectURL string) *Handler {
	return &Handler{
		Store:       s,
		Gateway:     gateway,
		Notifier:    n,
		Cache:       c,
		RedirectURL: redirectURL,
		Now:         time.Now,
	}
}

func (h *Handler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}
