package whatsapp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	ErrDisabled = errors.New("whatsapp sender is not configured")
	ErrRejected = errors.New("whatsapp message rejected")
)

// Sender delivers a text message to a WhatsApp number.
type Sender interface {
	Send(ctx context.Context, phone, message string) error
}

// Fonnte talks to the Fonnte messaging API.
type Fonnte struct {
	BaseURL     string
	Token       string
	CountryCode string
	HTTPClient  *http.Client
}

func NewFonnte(baseURL, token string, timeout time.Duration) *Fonnte {
	return &Fonnte{
		BaseURL:     strings.TrimRight(baseURL, "/"),
		Token:       token,
		CountryCode: "62",
		HTTPClient:  &http.Client{Timeout: timeout},
	}
}

type fonnteResponse struct {
	Status bool   `json:"status"`
	Reason string `json:"reason"`
	Detail string `json:"detail"`
}

func (f *Fonnte) Send(ctx context.Context, phone, message string) error {
	if f == nil || f.Token == "" {
		return ErrDisabled
	}

	target := NormalizePhone(phone)
	if target == "" {
		return fmt.Errorf("%w: empty phone number", ErrRejected)
	}

	form := url.Values{}
	form.Set("target", target)
	form.Set("message", message)
	form.Set("countryCode", f.CountryCode)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.BaseURL+"/send", strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build whatsapp request: %w", err)
	}
	req.Header.Set("Authorization", f.Token)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := f.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("send whatsapp message: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(res.Body, 4096))
		return fmt.Errorf("%w: HTTP %d", ErrRejected, res.StatusCode)
	}

	var body fonnteResponse
	if err := json.NewDecoder(io.LimitReader(res.Body, 64<<10)).Decode(&body); err != nil {
		return fmt.Errorf("decode whatsapp response: %w", err)
	}
	if !body.Status {
		return fmt.Errorf("%w: %s", ErrRejected, body.Reason)
	}
	return nil
}

// NormalizePhone turns "+62 812-3456-789" or "0812..." into "812...", the form
// Fonnte expects together with countryCode.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	switch {
	case strings.HasPrefix(digits, "62"):
		digits = digits[2:]
	case strings.HasPrefix(digits, "0"):
		digits = digits[1:]
	}
	return digits
}
