package backend

import (
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/tidwall/gjson"

	"github.com/octabyte/bm-talentportal/enums"
	"github.com/octabyte/bm-talentportal/models"
	"github.com/octabyte/bm-talentportal/utils"
)

// BillingHistory returns the caller's payments with dates converted to tz.
// An unknown or empty tz renders in UTC. The backend may answer with a bare
// array or with an object holding "payments".
func (c *Client) BillingHistory(ctx context.Context, token, tz string) (*models.BillingHistory, error) {
	body, err := c.get(ctx, "billing.history", "/billing/history", token, nil)
	if err != nil {
		return nil, err
	}

	history := &models.BillingHistory{}
	if !utils.IsEmptyPayload(body) {
		doc := gjson.ParseBytes(body)
		payments := doc
		if doc.IsObject() {
			payments = doc.Get("payments")
			history.Currency = doc.Get("currency").String()
		}
		if payments.Exists() {
			if err := json.Unmarshal([]byte(payments.Raw), &history.Payments); err != nil {
				return nil, fmt.Errorf("billing.history: %w: %w", ErrBackend, err)
			}
		}
	}

	if !utils.ValidTimezone(tz) {
		tz = "UTC"
	}
	history.TimeZone = tz

	for i := range history.Payments {
		p := &history.Payments[i]
		if !p.PaidAt.IsZero() {
			p.PaidAt = utils.FromUTCToTimezone(p.PaidAt, tz)
		}
		if strings.EqualFold(p.Status, enums.PaymentStatusPaid) {
			history.TotalPaid += p.Amount
		}
		if history.Currency == "" {
			history.Currency = p.Currency
		}
	}
	return history, nil
}
