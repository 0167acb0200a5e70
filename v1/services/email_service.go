package services

import (
	"bytes"
	"context"
	"crypto/md5"
	"embed"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"strings"

	"gorm.io/gorm"

	"github.com/memberdir/directory-backend/marketing"
	"github.com/memberdir/directory-backend/monitoring"
	"github.com/memberdir/directory-backend/notify"
	"github.com/memberdir/directory-backend/v1/models"
)

//go:embed templates/member_update_email.html
var templateFS embed.FS

var memberUpdateTemplate = template.Must(template.ParseFS(templateFS, "templates/member_update_email.html"))

const notificationGroupName = "Member Record Update"

// webhookEventUpdate is the vendor event type that carries an email change
const webhookEventUpdate = "Update"

// Webhook outcome labels for metrics. Kept to a fixed set so label
// cardinality stays bounded; the verbose diagnostics live in the result list.
const (
	webhookOutcomeUpdated       = "updated"
	webhookOutcomeNotFound      = "not_found"
	webhookOutcomeNoAction      = "no_action"
	webhookOutcomePersistFailed = "persist_failed"
)

// EmailConfig is the immutable configuration of the marketing integration.
// The integration is disabled unless APIKey and DefaultListID are both set.
type EmailConfig struct {
	APIKey         string
	DefaultListID  string
	WebhookBaseURL string
	NotifyTo       string
	NotifyFrom     string
}

// EmailService synchronizes member records with the email-marketing platform
// and processes its inbound webhooks. Vendor failures are logged and reported
// as false or empty results; callers never see vendor errors.
type EmailService struct {
	config      EmailConfig
	db          *gorm.DB
	subscribers marketing.SubscriberAPI
	campaigns   marketing.CampaignAPI
	lists       marketing.ListAPI
	sender      notify.Sender
}

// NewEmailService creates a new EmailService
func NewEmailService(config EmailConfig, db *gorm.DB, subscribers marketing.SubscriberAPI, campaigns marketing.CampaignAPI, lists marketing.ListAPI, sender notify.Sender) *EmailService {
	return &EmailService{
		config:      config,
		db:          db,
		subscribers: subscribers,
		campaigns:   campaigns,
		lists:       lists,
		sender:      sender,
	}
}

// IsConfigured reports whether the marketing integration is enabled
func (s *EmailService) IsConfigured() bool {
	return s.config.APIKey != "" && s.config.DefaultListID != ""
}

// SubscribeMember adds the member to the default list. It is a no-op when the
// member has no primary email, is flagged do-not-contact, or holds an inactive
// status. Returns true only when the vendor accepted the subscription.
func (s *EmailService) SubscribeMember(ctx context.Context, member *models.Member, resubscribe bool) bool {
	if member.PrimaryEmailValue() == "" || member.LocalDoNotContact || member.Status.IsInactive() {
		return false
	}

	sub := marketing.Subscriber{
		EmailAddress:   member.PrimaryEmailValue(),
		Name:           member.DisplayName(),
		CustomFields:   buildCustomFields(member),
		ConsentToTrack: "Yes",
		Resubscribe:    resubscribe,
	}

	if err := s.subscribers.Add(ctx, s.config.DefaultListID, sub); err != nil {
		s.logVendorFailure("subscribe", member.MemberID, err)
		monitoring.SyncAttempts.WithLabelValues("subscribe", "failure").Inc()
		return false
	}

	monitoring.SyncAttempts.WithLabelValues("subscribe", "success").Inc()
	return true
}

// UpdateMember pushes the member's current state to the vendor, keyed by the
// email the vendor currently has on file. No-op when the member has no
// primary email.
func (s *EmailService) UpdateMember(ctx context.Context, previousEmail string, member *models.Member) bool {
	if member.PrimaryEmailValue() == "" {
		return false
	}

	sub := marketing.Subscriber{
		EmailAddress:   member.PrimaryEmailValue(),
		Name:           member.DisplayName(),
		CustomFields:   buildCustomFields(member),
		ConsentToTrack: "Yes",
	}

	if err := s.subscribers.Update(ctx, s.config.DefaultListID, previousEmail, sub); err != nil {
		s.logVendorFailure("update", member.MemberID, err)
		monitoring.SyncAttempts.WithLabelValues("update", "failure").Inc()
		return false
	}

	monitoring.SyncAttempts.WithLabelValues("update", "success").Inc()
	return true
}

// UnsubscribeMember marks the member unsubscribed on the default list
func (s *EmailService) UnsubscribeMember(ctx context.Context, member *models.Member) bool {
	if member.PrimaryEmailValue() == "" {
		return false
	}

	if err := s.subscribers.Unsubscribe(ctx, s.config.DefaultListID, member.PrimaryEmailValue()); err != nil {
		s.logVendorFailure("unsubscribe", member.MemberID, err)
		monitoring.SyncAttempts.WithLabelValues("unsubscribe", "failure").Inc()
		return false
	}

	monitoring.SyncAttempts.WithLabelValues("unsubscribe", "success").Inc()
	return true
}

// DeleteMember removes the member from the default list
func (s *EmailService) DeleteMember(ctx context.Context, member *models.Member) bool {
	if member.PrimaryEmailValue() == "" {
		return false
	}

	if err := s.subscribers.Delete(ctx, s.config.DefaultListID, member.PrimaryEmailValue()); err != nil {
		s.logVendorFailure("delete", member.MemberID, err)
		monitoring.SyncAttempts.WithLabelValues("delete", "failure").Inc()
		return false
	}

	monitoring.SyncAttempts.WithLabelValues("delete", "success").Inc()
	return true
}

// GetMemberSubscription returns the member's subscription details, or nil when
// the member has no primary email or the vendor call fails.
func (s *EmailService) GetMemberSubscription(ctx context.Context, member *models.Member) *marketing.SubscriberDetail {
	if member.PrimaryEmailValue() == "" {
		return nil
	}

	detail, err := s.subscribers.Get(ctx, s.config.DefaultListID, member.PrimaryEmailValue())
	if err != nil {
		s.logVendorFailure("get-subscription", member.MemberID, err)
		return nil
	}
	return detail
}

// GetMemberSubscriptionHistory returns the member's campaign history, or an
// empty list when the member has no primary email or the vendor call fails.
func (s *EmailService) GetMemberSubscriptionHistory(ctx context.Context, member *models.Member) []marketing.HistoryEntry {
	if member.PrimaryEmailValue() == "" {
		return []marketing.HistoryEntry{}
	}

	history, err := s.subscribers.GetHistory(ctx, s.config.DefaultListID, member.PrimaryEmailValue())
	if err != nil {
		s.logVendorFailure("get-history", member.MemberID, err)
		return []marketing.HistoryEntry{}
	}
	return history
}

// GetCampaignSummary returns the reporting summary for a campaign, or nil on
// vendor failure.
func (s *EmailService) GetCampaignSummary(ctx context.Context, campaignID string) *marketing.CampaignSummary {
	summary, err := s.campaigns.GetSummary(ctx, campaignID)
	if err != nil {
		s.logVendorFailure("campaign-summary", campaignID, err)
		return nil
	}
	return summary
}

// GetWebhooks lists the webhooks registered on the default list, or an empty
// list on vendor failure.
func (s *EmailService) GetWebhooks(ctx context.Context) []marketing.WebhookDetail {
	webhooks, err := s.lists.GetWebhooks(ctx, s.config.DefaultListID)
	if err != nil {
		s.logVendorFailure("get-webhooks", s.config.DefaultListID, err)
		return []marketing.WebhookDetail{}
	}
	return webhooks
}

// CreateWebhook registers the inbound webhook on the default list and returns
// the vendor-assigned webhook ID.
func (s *EmailService) CreateWebhook(ctx context.Context) (string, bool) {
	token := s.WebhookToken()
	if token == "" {
		slog.Error("Cannot create webhook without a webhook token")
		return "", false
	}

	registration := marketing.WebhookRegistration{
		Events:        []string{"Subscribe", "Deactivate", "Update"},
		URL:           fmt.Sprintf("%s/api/v1/webhooks/email/%s", s.config.WebhookBaseURL, token),
		PayloadFormat: "json",
	}

	webhookID, err := s.lists.CreateWebhook(ctx, s.config.DefaultListID, registration)
	if err != nil {
		s.logVendorFailure("create-webhook", s.config.DefaultListID, err)
		return "", false
	}
	return webhookID, true
}

// DeleteWebhook removes a webhook from the default list
func (s *EmailService) DeleteWebhook(ctx context.Context, webhookID string) bool {
	if err := s.lists.DeleteWebhook(ctx, s.config.DefaultListID, webhookID); err != nil {
		s.logVendorFailure("delete-webhook", webhookID, err)
		return false
	}
	return true
}

// WebhookToken derives the inbound webhook path token from the API key
func (s *EmailService) WebhookToken() string {
	if s.config.APIKey == "" {
		return ""
	}
	sum := md5.Sum([]byte(s.config.APIKey))
	return hex.EncodeToString(sum[:])
}

// ProcessWebhook decodes an inbound webhook body and applies each event.
// Update events move the member's primary email and notify the operations
// mailbox; unknown event types are recorded and skipped. Only a malformed
// body aborts processing.
func (s *EmailService) ProcessWebhook(ctx context.Context, body []byte) ([]models.WebhookEventResult, error) {
	var payload models.WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode webhook payload: %w", err)
	}
	if payload.Events == nil {
		return nil, errors.New("webhook payload has no Events")
	}

	results := make([]models.WebhookEventResult, 0, len(payload.Events))
	for _, event := range payload.Events {
		result, outcome := s.processWebhookEvent(ctx, event)
		monitoring.WebhookEvents.WithLabelValues(event.Type, outcome).Inc()
		results = append(results, models.WebhookEventResult{
			Result:  result,
			Payload: event,
		})
	}
	return results, nil
}

// processWebhookEvent applies one event and returns the verbose result entry
// plus a bounded outcome label for metrics.
func (s *EmailService) processWebhookEvent(ctx context.Context, event models.WebhookEvent) (string, string) {
	switch event.Type {
	case webhookEventUpdate:
		oldEmail := strings.ToLower(strings.TrimSpace(event.OldEmailAddress))
		var member models.Member
		err := s.db.First(&member, "primary_email = ?", oldEmail).Error
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				slog.Error("Member lookup failed during webhook processing", "error", err)
			}
			return fmt.Sprintf("Unable to locate member with %s", event.OldEmailAddress), webhookOutcomeNotFound
		}

		member.PrimaryEmail = normalizeEmailPtr(&event.EmailAddress)
		if err := s.db.Save(&member).Error; err != nil {
			slog.Error("Failed to persist email change", "memberId", member.MemberID, "error", err)
			return fmt.Sprintf("Unable to persist email change for %s", event.OldEmailAddress), webhookOutcomePersistFailed
		}

		s.sendUpdateNotification(ctx, &member)
		return fmt.Sprintf("Email for %s updated from %s to %s", member.DisplayName(), event.OldEmailAddress, event.EmailAddress), webhookOutcomeUpdated
	default:
		return "No action taken.", webhookOutcomeNoAction
	}
}

// sendUpdateNotification sends one operator notification for an applied email
// change. Delivery failures are logged and do not affect the webhook result.
func (s *EmailService) sendUpdateNotification(ctx context.Context, member *models.Member) {
	if s.sender == nil || s.config.NotifyTo == "" {
		return
	}

	var htmlBody bytes.Buffer
	if err := memberUpdateTemplate.Execute(&htmlBody, member); err != nil {
		slog.Error("Failed to render notification template", "memberId", member.MemberID, "error", err)
		return
	}

	msg := notify.Message{
		To:       s.config.NotifyTo,
		From:     s.config.NotifyFrom,
		ReplyTo:  member.PrimaryEmailValue(),
		Subject:  fmt.Sprintf("Member Record Update: %s", member.DisplayName()),
		HTMLPart: htmlBody.String(),
		Headers: map[string]string{
			"X-Cmail-GroupName": notificationGroupName,
			"X-MC-Tags":         notificationGroupName,
		},
	}

	if err := s.sender.Send(ctx, msg); err != nil {
		slog.Error("Failed to send update notification", "memberId", member.MemberID, "error", err)
		monitoring.NotificationsSent.WithLabelValues("failure").Inc()
		return
	}
	monitoring.NotificationsSent.WithLabelValues("success").Inc()
}

// buildCustomFields maps a member to the vendor custom-field list. The key
// set and order are fixed; values are passed through verbatim.
func buildCustomFields(m *models.Member) []marketing.CustomField {
	return []marketing.CustomField{
		{Key: "Member Status", Value: m.Status.Label()},
		{Key: "First Name", Value: m.FirstName},
		{Key: "Preferred Name", Value: m.PreferredName},
		{Key: "Middle Name", Value: m.MiddleName},
		{Key: "Last Name", Value: m.LastName},
		{Key: "Class Year", Value: m.ClassYear},
		{Key: "Local Identifier", Value: m.MemberID},
		{Key: "External Identifier", Value: m.ExternalIdentifier},
		{Key: "Primary Telephone Number", Value: m.PrimaryTelephone},
		{Key: "Mailing Address Line 1", Value: m.MailingAddressLine1},
		{Key: "Mailing Address Line 2", Value: m.MailingAddressLine2},
		{Key: "Mailing City", Value: m.MailingCity},
		{Key: "Mailing State", Value: m.MailingState},
		{Key: "Mailing Postal Code", Value: m.MailingPostalCode},
		{Key: "Mailing Country", Value: m.MailingCountry},
		{Key: "Employer", Value: m.Employer},
		{Key: "Job Title", Value: m.JobTitle},
		{Key: "Occupation", Value: m.Occupation},
		{Key: "LinkedIn Profile", Value: m.LinkedinURL},
		{Key: "Facebook Profile", Value: m.FacebookURL},
		{Key: "Tags", Value: m.TagsAsCSV()},
		{Key: "Update Token", Value: m.UpdateToken},
	}
}

func (s *EmailService) logVendorFailure(operation, subject string, err error) {
	var apiErr *marketing.APIError
	if errors.As(err, &apiErr) {
		slog.Error("Marketing platform rejected request",
			"operation", operation,
			"subject", subject,
			"status", apiErr.StatusCode,
			"vendorCode", apiErr.Code,
			"vendorMessage", apiErr.Message,
			"rawBody", apiErr.RawBody)
		return
	}
	slog.Error("Marketing platform request failed",
		"operation", operation,
		"subject", subject,
		"error", err)
}
