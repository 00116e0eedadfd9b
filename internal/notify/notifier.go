// Package notify sends guardian WhatsApp messages about bills and keeps a
// record of every attempt.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"kaskelas/internal/domain/billing"
	"kaskelas/internal/domain/notifications"
	"kaskelas/internal/infra/whatsapp"
)

var ErrNoContact = errors.New("student has no guardian phone number")

type MessageRecorder interface {
	Record(ctx context.Context, m *notifications.Message) error
}

type Notifier struct {
	Sender   whatsapp.Sender
	Messages MessageRecorder
}

func New(sender whatsapp.Sender, messages MessageRecorder) *Notifier {
	return &Notifier{Sender: sender, Messages: messages}
}

// PaymentConfirmed tells the guardian a bill was settled. p must have its
// Student loaded.
func (n *Notifier) PaymentConfirmed(ctx context.Context, p billing.Payment) error {
	info, err := paymentInfo(p)
	if err != nil {
		return err
	}
	if p.PaymentMethod != nil {
		info.Method = *p.PaymentMethod
	}
	if p.CompletedAt != nil {
		info.PaidAt = *p.CompletedAt
	}
	return n.send(ctx, p, notifications.KindPaymentConfirmed, notifications.PaymentConfirmedMessage(info))
}

// PaymentReminder sends the checkout link for a pending bill.
func (n *Notifier) PaymentReminder(ctx context.Context, p billing.Payment) error {
	info, err := paymentInfo(p)
	if err != nil {
		return err
	}
	info.PaymentURL = p.PaymentURL
	return n.send(ctx, p, notifications.KindPaymentReminder, notifications.PaymentReminderMessage(info))
}

func paymentInfo(p billing.Payment) (notifications.PaymentInfo, error) {
	if p.Student == nil || !p.Student.HasGuardianContact() {
		return notifications.PaymentInfo{}, ErrNoContact
	}
	info := notifications.PaymentInfo{
		StudentName:  p.Student.Name,
		GuardianName: p.Student.GuardianName,
		OrderID:      p.ID,
		Amount:       p.Amount,
	}
	if p.Category != nil {
		info.CategoryName = p.Category.Name
	}
	return info, nil
}

func (n *Notifier) send(ctx context.Context, p billing.Payment, kind, body string) error {
	if n == nil || n.Sender == nil {
		return whatsapp.ErrDisabled
	}
	err := n.Sender.Send(ctx, p.Student.GuardianPhone, body)
	if errors.Is(err, whatsapp.ErrDisabled) {
		return err
	}

	msg := notifications.Message{
		StudentID: p.StudentID,
		PaymentID: p.ID,
		Phone:     p.Student.GuardianPhone,
		Kind:      kind,
		Body:      body,
		Status:    notifications.StatusSent,
		CreatedAt: time.Now(),
	}
	if err != nil {
		msg.Status = notifications.StatusFailed
		msg.Error = err.Error()
	}
	if n.Messages != nil {
		if rerr := n.Messages.Record(ctx, &msg); rerr != nil {
			slog.WarnContext(ctx, "could not record whatsapp message", "order_id", p.ID, "error", rerr)
		}
	}
	if err != nil {
		return fmt.Errorf("send %s: %w", kind, err)
	}
	return nil
}
