package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/memberdir/directory-backend/marketing"
	"github.com/memberdir/directory-backend/v1/middleware"
	"github.com/memberdir/directory-backend/v1/models"
	"github.com/memberdir/directory-backend/v1/services"
)

const testSecret = "test-signing-secret"

// stubCampaignAPI is a func-field stub of marketing.CampaignAPI
type stubCampaignAPI struct {
	GetSummaryFunc func(ctx context.Context, campaignID string) (*marketing.CampaignSummary, error)
}

func (s *stubCampaignAPI) GetSummary(ctx context.Context, campaignID string) (*marketing.CampaignSummary, error) {
	return s.GetSummaryFunc(ctx, campaignID)
}

func setupHandlerTest(t *testing.T) (*http.ServeMux, *gorm.DB, *services.EmailService) {
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

	emailService := services.NewEmailService(services.EmailConfig{
		APIKey:        "key-123",
		DefaultListID: "list-123",
	}, db, nil, nil, nil, nil)

	handler := NewV1Handler(
		services.NewMemberService(db),
		services.NewUserService(db),
		emailService,
		middleware.NewJWTVerifier(testSecret),
	)

	mux := http.NewServeMux()
	handler.SetupV1Routes(mux)
	return mux, db, emailService
}

func authToken(t *testing.T, roles []string) string {
	claims := jwt.MapClaims{
		"sub":      "usr_1",
		"username": "admin",
		"roles":    roles,
		"exp":      time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	assert.NoError(t, err)
	return token
}

func doRequest(mux *http.ServeMux, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		encoded, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(encoded)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestWebhookEndpointTokenMismatch(t *testing.T) {
	mux, _, _ := setupHandlerTest(t)

	rec := doRequest(mux, http.MethodPost, "/api/v1/webhooks/email/wrong-token", "", map[string]interface{}{
		"Events": []interface{}{},
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWebhookEndpointMalformedBody(t *testing.T) {
	mux, _, emailService := setupHandlerTest(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/email/"+emailService.WebhookToken(), bytes.NewBufferString("not json"))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWebhookEndpointProcessesEvents(t *testing.T) {
	mux, db, emailService := setupHandlerTest(t)

	email := "old@example.org"
	member := models.Member{
		MemberID:     "mem_wh1",
		FirstName:    "Ada",
		LastName:     "Lovelace",
		PrimaryEmail: &email,
		Status:       models.StatusActive,
	}
	assert.NoError(t, db.Create(&member).Error)

	rec := doRequest(mux, http.MethodPost, "/api/v1/webhooks/email/"+emailService.WebhookToken(), "", map[string]interface{}{
		"Events": []map[string]string{
			{"Type": "Update", "OldEmailAddress": "old@example.org", "EmailAddress": "new@example.org"},
			{"Type": "Subscribe", "EmailAddress": "x@example.org"},
		},
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	var results []models.WebhookEventResult
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &results))
	assert.Len(t, results, 2)
	assert.Equal(t, "Email for Ada Lovelace updated from old@example.org to new@example.org", results[0].Result)
	assert.Equal(t, "No action taken.", results[1].Result)

	var reloaded models.Member
	assert.NoError(t, db.First(&reloaded, "member_id = ?", "mem_wh1").Error)
	assert.Equal(t, "new@example.org", reloaded.PrimaryEmailValue())
}

func TestUserRoutesRequireAdminRole(t *testing.T) {
	mux, _, _ := setupHandlerTest(t)

	rec := doRequest(mux, http.MethodGet, "/api/v1/users", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(mux, http.MethodGet, "/api/v1/users", authToken(t, []string{"member"}), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(mux, http.MethodGet, "/api/v1/users", authToken(t, []string{"admin"}), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUserCRUDThroughAPI(t *testing.T) {
	mux, _, _ := setupHandlerTest(t)
	token := authToken(t, []string{"admin"})

	rec := doRequest(mux, http.MethodPost, "/api/v1/users", token, models.CreateUserRequest{
		Username: "ops",
		Email:    "ops@example.org",
		Password: "s3cret",
		Roles:    []string{"admin"},
	})
	assert.Equal(t, http.StatusCreated, rec.Code)

	var created models.UserResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "ops", created.Username)
	assert.NotContains(t, rec.Body.String(), "s3cret")

	rec = doRequest(mux, http.MethodGet, "/api/v1/users/"+created.UserID, token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(mux, http.MethodPost, "/api/v1/users/"+created.UserID+"/disable-2fa", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(mux, http.MethodDelete, "/api/v1/users/"+created.UserID, token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(mux, http.MethodGet, "/api/v1/users/"+created.UserID, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAutocompleteReturnsDirectoryEntries(t *testing.T) {
	mux, db, _ := setupHandlerTest(t)

	for _, m := range []models.Member{
		{MemberID: "mem_1", FirstName: "Ada", LastName: "Lovelace", Status: models.StatusActive},
		{MemberID: "mem_2", FirstName: "Adam", LastName: "Smith", Status: models.StatusActive},
	} {
		assert.NoError(t, db.Create(&m).Error)
	}

	rec := doRequest(mux, http.MethodGet, "/api/v1/directory/search/autocomplete?q=ada", authToken(t, []string{"member"}), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var entries []models.DirectoryEntry
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	assert.Len(t, entries, 2)
	assert.NotEmpty(t, entries[0].LocalIdentifier)
	assert.NotEmpty(t, entries[0].DisplayName)
}

func TestAutocompleteRequiresQuery(t *testing.T) {
	mux, _, _ := setupHandlerTest(t)

	rec := doRequest(mux, http.MethodGet, "/api/v1/directory/search/autocomplete", authToken(t, []string{"member"}), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMemberCRUDThroughAPI(t *testing.T) {
	mux, _, _ := setupHandlerTest(t)
	token := authToken(t, []string{"admin"})

	rec := doRequest(mux, http.MethodPost, "/api/v1/members", token, models.CreateMemberRequest{
		FirstName: "Grace",
		LastName:  "Hopper",
	})
	assert.Equal(t, http.StatusCreated, rec.Code)

	var created models.Member
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	employer := "US Navy"
	rec = doRequest(mux, http.MethodPut, "/api/v1/members/"+created.MemberID, token, models.UpdateMemberRequest{
		Employer: &employer,
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	var updated models.Member
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, "US Navy", updated.Employer)

	rec = doRequest(mux, http.MethodDelete, "/api/v1/members/"+created.MemberID, token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(mux, http.MethodGet, "/api/v1/members/"+created.MemberID, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCampaignSummaryThroughAPI(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&models.Member{}, &models.User{}))
	t.Cleanup(func() {
		db.Exec("DELETE FROM members")
		db.Exec("DELETE FROM users")
	})

	campaigns := &stubCampaignAPI{
		GetSummaryFunc: func(ctx context.Context, campaignID string) (*marketing.CampaignSummary, error) {
			assert.Equal(t, "camp-42", campaignID)
			return &marketing.CampaignSummary{Name: "Spring Newsletter", Recipients: 120}, nil
		},
	}
	emailService := services.NewEmailService(services.EmailConfig{
		APIKey:        "key-123",
		DefaultListID: "list-123",
	}, db, nil, campaigns, nil, nil)

	handler := NewV1Handler(
		services.NewMemberService(db),
		services.NewUserService(db),
		emailService,
		middleware.NewJWTVerifier(testSecret),
	)
	mux := http.NewServeMux()
	handler.SetupV1Routes(mux)

	rec := doRequest(mux, http.MethodGet, "/api/v1/campaigns/camp-42/summary", authToken(t, []string{"admin"}), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var summary marketing.CampaignSummary
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, "Spring Newsletter", summary.Name)
	assert.Equal(t, 120, summary.Recipients)
}
