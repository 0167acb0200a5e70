package createsend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/memberdir/directory-backend/marketing"
)

// GetWebhooks lists the webhooks registered on the given list
func (c *Client) GetWebhooks(ctx context.Context, listID string) ([]marketing.WebhookDetail, error) {
	path := fmt.Sprintf("/lists/%s/webhooks.json", listID)
	var webhooks []marketing.WebhookDetail
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &webhooks); err != nil {
		return nil, err
	}
	return webhooks, nil
}

// CreateWebhook registers a webhook on the given list and returns the
// vendor-assigned webhook ID
func (c *Client) CreateWebhook(ctx context.Context, listID string, registration marketing.WebhookRegistration) (string, error) {
	path := fmt.Sprintf("/lists/%s/webhooks.json", listID)
	var webhookID string
	if err := c.doRequest(ctx, http.MethodPost, path, registration, &webhookID); err != nil {
		return "", err
	}
	return webhookID, nil
}

// DeleteWebhook removes a webhook from the given list
func (c *Client) DeleteWebhook(ctx context.Context, listID, webhookID string) error {
	path := fmt.Sprintf("/lists/%s/webhooks/%s.json", listID, webhookID)
	return c.doRequest(ctx, http.MethodDelete, path, nil, nil)
}
