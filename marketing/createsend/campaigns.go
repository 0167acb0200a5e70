package createsend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/memberdir/directory-backend/marketing"
)

// GetSummary fetches the reporting summary for a sent campaign
func (c *Client) GetSummary(ctx context.Context, campaignID string) (*marketing.CampaignSummary, error) {
	path := fmt.Sprintf("/campaigns/%s/summary.json", campaignID)
	var summary marketing.CampaignSummary
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}
