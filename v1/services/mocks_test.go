package services

import (
	"context"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/memberdir/directory-backend/marketing"
	"github.com/memberdir/directory-backend/notify"
	"github.com/memberdir/directory-backend/v1/models"
)

// MockSubscriberAPI is a func-field mock of marketing.SubscriberAPI
type MockSubscriberAPI struct {
	AddFunc         func(ctx context.Context, listID string, subscriber marketing.Subscriber) error
	UpdateFunc      func(ctx context.Context, listID, currentEmail string, subscriber marketing.Subscriber) error
	UnsubscribeFunc func(ctx context.Context, listID, email string) error
	DeleteFunc      func(ctx context.Context, listID, email string) error
	GetFunc         func(ctx context.Context, listID, email string) (*marketing.SubscriberDetail, error)
	GetHistoryFunc  func(ctx context.Context, listID, email string) ([]marketing.HistoryEntry, error)
}

func (m *MockSubscriberAPI) Add(ctx context.Context, listID string, subscriber marketing.Subscriber) error {
	return m.AddFunc(ctx, listID, subscriber)
}

func (m *MockSubscriberAPI) Update(ctx context.Context, listID, currentEmail string, subscriber marketing.Subscriber) error {
	return m.UpdateFunc(ctx, listID, currentEmail, subscriber)
}

func (m *MockSubscriberAPI) Unsubscribe(ctx context.Context, listID, email string) error {
	return m.UnsubscribeFunc(ctx, listID, email)
}

func (m *MockSubscriberAPI) Delete(ctx context.Context, listID, email string) error {
	return m.DeleteFunc(ctx, listID, email)
}

func (m *MockSubscriberAPI) Get(ctx context.Context, listID, email string) (*marketing.SubscriberDetail, error) {
	return m.GetFunc(ctx, listID, email)
}

func (m *MockSubscriberAPI) GetHistory(ctx context.Context, listID, email string) ([]marketing.HistoryEntry, error) {
	return m.GetHistoryFunc(ctx, listID, email)
}

// MockCampaignAPI is a func-field mock of marketing.CampaignAPI
type MockCampaignAPI struct {
	GetSummaryFunc func(ctx context.Context, campaignID string) (*marketing.CampaignSummary, error)
}

func (m *MockCampaignAPI) GetSummary(ctx context.Context, campaignID string) (*marketing.CampaignSummary, error) {
	return m.GetSummaryFunc(ctx, campaignID)
}

// MockListAPI is a func-field mock of marketing.ListAPI
type MockListAPI struct {
	GetWebhooksFunc   func(ctx context.Context, listID string) ([]marketing.WebhookDetail, error)
	CreateWebhookFunc func(ctx context.Context, listID string, registration marketing.WebhookRegistration) (string, error)
	DeleteWebhookFunc func(ctx context.Context, listID, webhookID string) error
}

func (m *MockListAPI) GetWebhooks(ctx context.Context, listID string) ([]marketing.WebhookDetail, error) {
	return m.GetWebhooksFunc(ctx, listID)
}

func (m *MockListAPI) CreateWebhook(ctx context.Context, listID string, registration marketing.WebhookRegistration) (string, error) {
	return m.CreateWebhookFunc(ctx, listID, registration)
}

func (m *MockListAPI) DeleteWebhook(ctx context.Context, listID, webhookID string) error {
	return m.DeleteWebhookFunc(ctx, listID, webhookID)
}

// MockSender is a func-field mock of notify.Sender
type MockSender struct {
	SendFunc func(ctx context.Context, msg notify.Message) error
	Sent     []notify.Message
}

func (m *MockSender) Send(ctx context.Context, msg notify.Message) error {
	m.Sent = append(m.Sent, msg)
	if m.SendFunc != nil {
		return m.SendFunc(ctx, msg)
	}
	return nil
}

func setupServiceTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(&models.Member{}, &models.User{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		db.Exec("DELETE FROM members")
		db.Exec("DELETE FROM users")
	})

	return db
}

func strPtr(s string) *string {
	return &s
}
