package backend

import (
	"context"
	"net/http"

	"github.com/octabyte/bm-talentportal/models"
)

// TrackClick records a scheduling link visit. The endpoint is public.
func (c *Client) TrackClick(ctx context.Context, click models.ClickEvent) error {
	_, err := c.call(ctx, "tracking.click", http.MethodPut, "/tracking/click", "", withBody(click))
	return err
}
