package notify

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/smtp"
	"net/url"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/sohubtech/homestore/internal/domain"
)

// Notifier fans an order confirmation out to Telegram first and falls back
// to email. All configuration comes from the environment; with neither
// channel configured it degrades to a logged no-op.
type Notifier struct{}

func New() *Notifier { return &Notifier{} }

func (n *Notifier) SendOrderConfirmation(ctx context.Context, o *domain.Order) error {
	if err := sendTelegram(ctx, o); err != nil {
		log.Warn().Err(err).Str("order", o.OrderNumber).Msg("telegram notify failed")
		if os.Getenv("SMTP_HOST") != "" {
			return sendEmail(o)
		}
		return err
	}
	return nil
}

func orderText(o *domain.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "New order %s (%s)\n", o.OrderNumber, o.Status)
	fmt.Fprintf(&b, "Name: %s\nEmail: %s\nPhone: %s\n", o.CustomerName, o.CustomerEmail, o.CustomerPhone)
	fmt.Fprintf(&b, "Address: %s\n", o.CustomerAddress)
	b.WriteString("Items:\n")
	for _, it := range o.Items {
		fmt.Fprintf(&b, "- %s x%d BDT %.2f\n", it.Title, it.Qty, it.LineTotal)
		if it.InstallationCharge > 0 {
			fmt.Fprintf(&b, "  incl. installation BDT %.2f\n", it.InstallationCharge)
		}
		if it.EngravingText != "" {
			fmt.Fprintf(&b, "  engraving: %q\n", it.EngravingText)
		}
		if it.Accessories != "" {
			fmt.Fprintf(&b, "  accessories: %s\n", it.Accessories)
		}
	}
	fmt.Fprintf(&b, "Total: BDT %.2f (%s)\n", o.TotalAmount, o.PaymentMethod)
	return b.String()
}

func sendTelegram(ctx context.Context, o *domain.Order) error {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	rawIDs := os.Getenv("TELEGRAM_CHAT_IDS")
	if strings.TrimSpace(rawIDs) == "" {
		rawIDs = os.Getenv("TELEGRAM_CHAT_ID")
	}
	if token == "" || strings.TrimSpace(rawIDs) == "" {
		return fmt.Errorf("telegram not configured")
	}
	text := orderText(o)
	apiURL := "https://api.telegram.org/bot" + token + "/sendMessage"

	var lastErr error
	sent := false
	for _, part := range strings.Split(rawIDs, ",") {
		id := strings.TrimSpace(part)
		if id == "" {
			continue
		}
		form := url.Values{}
		form.Set("chat_id", id)
		form.Set("text", text)
		form.Set("disable_web_page_preview", "1")
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, strings.NewReader(form.Encode()))
		if err != nil {
			lastErr = err
			continue
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		func() {
			defer resp.Body.Close()
			if resp.StatusCode >= 300 {
				body, _ := io.ReadAll(resp.Body)
				lastErr = fmt.Errorf("telegram status %d: %s", resp.StatusCode, string(body))
				return
			}
			sent = true
		}()
	}
	if !sent && lastErr == nil {
		lastErr = fmt.Errorf("telegram chat ids empty")
	}
	if sent {
		return nil
	}
	return lastErr
}

func sendEmail(o *domain.Order) error {
	host := os.Getenv("SMTP_HOST")
	port := os.Getenv("SMTP_PORT")
	user := os.Getenv("SMTP_USER")
	pass := os.Getenv("SMTP_PASS")
	to := os.Getenv("ORDER_NOTIFY_EMAIL")
	if to == "" {
		to = user
	}
	if host == "" || port == "" || user == "" || pass == "" {
		log.Warn().Msg("smtp not configured, order email skipped")
		return nil
	}
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Subject: New order %s\r\n", o.OrderNumber)
	fmt.Fprintf(&buf, "From: %s\r\n", user)
	fmt.Fprintf(&buf, "To: %s\r\n", to)
	buf.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	buf.WriteString(orderText(o))
	auth := smtp.PlainAuth("", user, pass, host)
	if err := smtp.SendMail(host+":"+port, auth, user, []string{to}, buf.Bytes()); err != nil {
		log.Error().Err(err).Str("order", o.OrderNumber).Msg("order email send")
		return err
	}
	return nil
}
