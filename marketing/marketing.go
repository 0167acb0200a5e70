// Package marketing defines the capability contracts this service needs from
// an email-marketing platform. Concrete vendors live in subpackages.
package marketing

import (
	"context"
	"fmt"
)

// CustomField is a single vendor custom-field key/value pair. Order is
// significant on the wire.
type CustomField struct {
	Key   string `json:"Key"`
	Value string `json:"Value"`
}

// Subscriber is the outbound representation of a list subscriber
type Subscriber struct {
	EmailAddress   string        `json:"EmailAddress"`
	Name           string        `json:"Name"`
	CustomFields   []CustomField `json:"CustomFields"`
	ConsentToTrack string        `json:"ConsentToTrack"`
	Resubscribe    bool          `json:"Resubscribe"`
}

// SubscriberDetail is the vendor's view of an existing subscriber
type SubscriberDetail struct {
	EmailAddress   string        `json:"EmailAddress"`
	Name           string        `json:"Name"`
	Date           string        `json:"Date"`
	State          string        `json:"State"`
	CustomFields   []CustomField `json:"CustomFields"`
	ConsentToTrack string        `json:"ConsentToTrack"`
}

// HistoryEntry is one entry in a subscriber's campaign history
type HistoryEntry struct {
	ID      string `json:"ID"`
	Type    string `json:"Type"`
	Name    string `json:"Name"`
	Actions []struct {
		Event  string `json:"Event"`
		Date   string `json:"Date"`
		Detail string `json:"Detail"`
	} `json:"Actions"`
}

// CampaignSummary is the vendor's reporting summary for a sent campaign
type CampaignSummary struct {
	Name             string  `json:"Name"`
	Recipients       int     `json:"Recipients"`
	TotalOpened      int     `json:"TotalOpened"`
	UniqueOpened     int     `json:"UniqueOpened"`
	Clicks           int     `json:"Clicks"`
	Unsubscribed     int     `json:"Unsubscribed"`
	Bounced          int     `json:"Bounced"`
	WebVersionURL    string  `json:"WebVersionURL"`
	WorldviewURL     string  `json:"WorldviewURL"`
	DeliveryRate     float64 `json:"DeliveryRate"`
}

// WebhookDetail describes a webhook registered on a list
type WebhookDetail struct {
	WebhookID     string   `json:"WebhookID"`
	Events        []string `json:"Events"`
	URL           string   `json:"Url"`
	Status        string   `json:"Status"`
	PayloadFormat string   `json:"PayloadFormat"`
}

// WebhookRegistration is the payload for creating a webhook on a list
type WebhookRegistration struct {
	Events        []string `json:"Events"`
	URL           string   `json:"Url"`
	PayloadFormat string   `json:"PayloadFormat"`
}

// SubscriberAPI manages subscribers on a list
type SubscriberAPI interface {
	Add(ctx context.Context, listID string, subscriber Subscriber) error
	Update(ctx context.Context, listID, currentEmail string, subscriber Subscriber) error
	Unsubscribe(ctx context.Context, listID, email string) error
	Delete(ctx context.Context, listID, email string) error
	Get(ctx context.Context, listID, email string) (*SubscriberDetail, error)
	GetHistory(ctx context.Context, listID, email string) ([]HistoryEntry, error)
}

// CampaignAPI exposes campaign reporting
type CampaignAPI interface {
	GetSummary(ctx context.Context, campaignID string) (*CampaignSummary, error)
}

// ListAPI manages webhooks on a list
type ListAPI interface {
	GetWebhooks(ctx context.Context, listID string) ([]WebhookDetail, error)
	CreateWebhook(ctx context.Context, listID string, registration WebhookRegistration) (string, error)
	DeleteWebhook(ctx context.Context, listID, webhookID string) error
}

// APIError is a vendor rejection carrying the vendor's diagnostic
type APIError struct {
	StatusCode int
	Code       int
	Message    string
	RawBody    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("vendor API error %d (code %d): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("vendor API error %d: %s", e.StatusCode, e.RawBody)
}
