package createsend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/memberdir/directory-backend/marketing"
)

// Add adds or resubscribes a subscriber on the given list
func (c *Client) Add(ctx context.Context, listID string, subscriber marketing.Subscriber) error {
	path := fmt.Sprintf("/subscribers/%s.json", listID)
	return c.doRequest(ctx, http.MethodPost, path, subscriber, nil)
}

// Update updates the subscriber currently registered under currentEmail
func (c *Client) Update(ctx context.Context, listID, currentEmail string, subscriber marketing.Subscriber) error {
	path := fmt.Sprintf("/subscribers/%s.json?email=%s", listID, url.QueryEscape(currentEmail))
	return c.doRequest(ctx, http.MethodPut, path, subscriber, nil)
}

// Unsubscribe marks the subscriber as unsubscribed on the given list
func (c *Client) Unsubscribe(ctx context.Context, listID, email string) error {
	path := fmt.Sprintf("/subscribers/%s/unsubscribe.json", listID)
	body := map[string]string{"EmailAddress": email}
	return c.doRequest(ctx, http.MethodPost, path, body, nil)
}

// Delete removes the subscriber from the given list entirely
func (c *Client) Delete(ctx context.Context, listID, email string) error {
	path := fmt.Sprintf("/subscribers/%s.json?email=%s", listID, url.QueryEscape(email))
	return c.doRequest(ctx, http.MethodDelete, path, nil, nil)
}

// Get fetches the subscriber's details on the given list
func (c *Client) Get(ctx context.Context, listID, email string) (*marketing.SubscriberDetail, error) {
	path := fmt.Sprintf("/subscribers/%s.json?email=%s&includetrackingpreference=true", listID, url.QueryEscape(email))
	var detail marketing.SubscriberDetail
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// GetHistory fetches the subscriber's campaign history on the given list
func (c *Client) GetHistory(ctx context.Context, listID, email string) ([]marketing.HistoryEntry, error) {
	path := fmt.Sprintf("/subscribers/%s/history.json?email=%s", listID, url.QueryEscape(email))
	var history []marketing.HistoryEntry
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &history); err != nil {
		return nil, err
	}
	return history, nil
}
