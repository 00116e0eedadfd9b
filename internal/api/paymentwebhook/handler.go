// Package paymentwebhook receives Pakasir settlement callbacks. A callback is
// never trusted on its own: every delivery is confirmed with the gateway
// before any bill changes.
package paymentwebhook

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"kaskelas/internal/domain/activity"
	"kaskelas/internal/domain/billing"
	"kaskelas/internal/infra/cache"
	"kaskelas/internal/infra/pakasir"
	"kaskelas/internal/store"

	"github.com/gin-gonic/gin"
)

const maxBodyBytes = 65536

type Verifier interface {
	TransactionDetail(ctx context.Context, project string, amount int64, orderID string) (pakasir.Transaction, error)
}

type PaymentStore interface {
	Find(ctx context.Context, orderID string) (billing.Payment, error)
	SettlePayment(ctx context.Context, s billing.Settlement, now time.Time, entry activity.Log) error
}

type Notifier interface {
	PaymentConfirmed(ctx context.Context, p billing.Payment) error
}

type Handler struct {
	Project  string
	Gateway  Verifier
	Payments PaymentStore
	Cache    cache.Cache
	Notifier Notifier
	Now      func() time.Time
}

func NewHandler(project string, gateway Verifier, s *store.Store, c cache.Cache, n Notifier) *Handler {
	return &Handler{
		Project:  project,
		Gateway:  gateway,
		Payments: storePayments{s},
		Cache:    c,
		Notifier: n,
		Now:      time.Now,
	}
}

type storePayments struct {
	*store.Store
}

func (s storePayments) Find(ctx context.Context, orderID string) (billing.Payment, error) {
	return s.Store.Payments.Find(ctx, orderID)
}

// Payload is the body Pakasir posts on a transaction update.
type Payload struct {
	Amount        int64  `json:"amount"`
	OrderID       string `json:"order_id"`
	Project       string `json:"project"`
	Status        string `json:"status"`
	PaymentMethod string `json:"payment_method"`
	CompletedAt   string `json:"completed_at"`
}

func invalid(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid webhook"})
}

// POST /api/webhooks/pakasir
func (h *Handler) Pakasir(c *gin.Context) {
	ctx := c.Request.Context()

	body, err := readBody(c, maxBodyBytes)
	if err != nil {
		invalid(c)
		return
	}
	var p Payload
	if err := json.Unmarshal(body, &p); err != nil {
		slog.WarnContext(ctx, "webhook body is not valid json", "error", err)
		invalid(c)
		return
	}
	p.OrderID = strings.TrimSpace(p.OrderID)
	if p.OrderID == "" || p.Amount <= 0 || p.Project != h.Project || !pakasir.KnownStatus(p.Status) {
		slog.WarnContext(ctx, "webhook rejected before verification", "order_id", p.OrderID, "project", p.Project, "status", p.Status)
		invalid(c)
		return
	}

	tx, err := h.verify(ctx, p)
	if err != nil {
		slog.WarnContext(ctx, "webhook failed verification", "order_id", p.OrderID, "error", err)
		invalid(c)
		return
	}
	slog.InfoContext(ctx, "webhook verified", "order_id", tx.OrderID, "status", tx.Status)

	if tx.Status != pakasir.StatusCompleted {
		c.JSON(http.StatusOK, gin.H{
			"success":  false,
			"message":  "Payment not completed",
			"status":   tx.Status,
			"order_id": tx.OrderID,
		})
		return
	}

	h.settle(c, p, tx)
}

// verify asks the gateway about the transaction and accepts it only when
// amount, order reference and status all match the callback.
func (h *Handler) verify(ctx context.Context, p Payload) (pakasir.Transaction, error) {
	tx, err := h.Gateway.TransactionDetail(ctx, p.Project, p.Amount, p.OrderID)
	if err != nil {
		return pakasir.Transaction{}, err
	}
	switch {
	case tx.Amount != p.Amount:
		return pakasir.Transaction{}, errors.New("amount mismatch")
	case tx.OrderID != p.OrderID:
		return pakasir.Transaction{}, errors.New("order reference mismatch")
	case tx.Status != p.Status:
		return pakasir.Transaction{}, errors.New("status mismatch")
	}
	return tx, nil
}

func (h *Handler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

func readBody(c *gin.Context, maxBytes int64) ([]byte, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
	return io.ReadAll(c.Request.Body)
}
