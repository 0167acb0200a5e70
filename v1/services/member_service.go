package services

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/memberdir/directory-backend/v1/models"
)

// ErrMemberNotFound is returned when a member lookup matches no record
var ErrMemberNotFound = errors.New("member not found")

// MemberService handles member record operations
type MemberService struct {
	db *gorm.DB
}

// NewMemberService creates a new MemberService
func NewMemberService(db *gorm.DB) *MemberService {
	return &MemberService{db: db}
}

// CreateMember creates a new member record from the request payload
func (s *MemberService) CreateMember(req models.CreateMemberRequest) (*models.Member, error) {
	member := models.Member{
		MemberID:            "mem_" + uuid.New().String(),
		ExternalIdentifier:  req.ExternalIdentifier,
		PrimaryEmail:        normalizeEmailPtr(req.PrimaryEmail),
		FirstName:           req.FirstName,
		MiddleName:          req.MiddleName,
		LastName:            req.LastName,
		PreferredName:       req.PreferredName,
		Status:              req.Status,
		LocalDoNotContact:   req.LocalDoNotContact,
		ClassYear:           req.ClassYear,
		PrimaryTelephone:    req.PrimaryTelephone,
		MailingAddressLine1: req.MailingAddressLine1,
		MailingAddressLine2: req.MailingAddressLine2,
		MailingCity:         req.MailingCity,
		MailingState:        req.MailingState,
		MailingPostalCode:   req.MailingPostalCode,
		MailingCountry:      req.MailingCountry,
		Employer:            req.Employer,
		JobTitle:            req.JobTitle,
		Occupation:          req.Occupation,
		LinkedinURL:         req.LinkedinURL,
		FacebookURL:         req.FacebookURL,
		Tags:                req.Tags,
		UpdateToken:         uuid.New().String(),
	}
	if member.Status == "" {
		member.Status = models.StatusActive
	}

	if err := s.db.Create(&member).Error; err != nil {
		return nil, fmt.Errorf("failed to create member: %w", err)
	}

	slog.Info("Created member", "memberId", member.MemberID)
	return &member, nil
}

// GetMember fetches a member by its local identifier
func (s *MemberService) GetMember(memberID string) (*models.Member, error) {
	var member models.Member
	if err := s.db.First(&member, "member_id = ?", memberID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	return &member, nil
}

// GetMembers returns all member records
func (s *MemberService) GetMembers() ([]models.Member, error) {
	var members []models.Member
	if err := s.db.Order("last_name, first_name").Find(&members).Error; err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return members, nil
}

// FindByPrimaryEmail fetches the member registered under the given primary
// email, or ErrMemberNotFound.
func (s *MemberService) FindByPrimaryEmail(email string) (*models.Member, error) {
	var member models.Member
	if err := s.db.First(&member, "primary_email = ?", strings.ToLower(strings.TrimSpace(email))).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to find member by email: %w", err)
	}
	return &member, nil
}

// UpdateMember applies the non-nil fields of the request to the member and
// persists the result.
func (s *MemberService) UpdateMember(memberID string, req models.UpdateMemberRequest) (*models.Member, error) {
	member, err := s.GetMember(memberID)
	if err != nil {
		return nil, err
	}

	applyIfSet := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}

	applyIfSet(&member.ExternalIdentifier, req.ExternalIdentifier)
	applyIfSet(&member.FirstName, req.FirstName)
	applyIfSet(&member.MiddleName, req.MiddleName)
	applyIfSet(&member.LastName, req.LastName)
	applyIfSet(&member.PreferredName, req.PreferredName)
	applyIfSet(&member.ClassYear, req.ClassYear)
	applyIfSet(&member.PrimaryTelephone, req.PrimaryTelephone)
	applyIfSet(&member.MailingAddressLine1, req.MailingAddressLine1)
	applyIfSet(&member.MailingAddressLine2, req.MailingAddressLine2)
	applyIfSet(&member.MailingCity, req.MailingCity)
	applyIfSet(&member.MailingState, req.MailingState)
	applyIfSet(&member.MailingPostalCode, req.MailingPostalCode)
	applyIfSet(&member.MailingCountry, req.MailingCountry)
	applyIfSet(&member.Employer, req.Employer)
	applyIfSet(&member.JobTitle, req.JobTitle)
	applyIfSet(&member.Occupation, req.Occupation)
	applyIfSet(&member.LinkedinURL, req.LinkedinURL)
	applyIfSet(&member.FacebookURL, req.FacebookURL)
	applyIfSet(&member.Tags, req.Tags)
	if req.PrimaryEmail != nil {
		member.PrimaryEmail = normalizeEmailPtr(req.PrimaryEmail)
	}
	if req.Status != nil {
		member.Status = *req.Status
	}
	if req.LocalDoNotContact != nil {
		member.LocalDoNotContact = *req.LocalDoNotContact
	}

	if err := s.db.Save(member).Error; err != nil {
		return nil, fmt.Errorf("failed to update member: %w", err)
	}

	slog.Info("Updated member", "memberId", member.MemberID)
	return member, nil
}

// DeleteMember removes a member record
func (s *MemberService) DeleteMember(memberID string) error {
	result := s.db.Delete(&models.Member{}, "member_id = ?", memberID)
	if result.Error != nil {
		return fmt.Errorf("failed to delete member: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrMemberNotFound
	}

	slog.Info("Deleted member", "memberId", memberID)
	return nil
}

// Search returns members whose name or primary email contains the query,
// capped at limit entries.
func (s *MemberService) Search(query string, limit int) ([]models.Member, error) {
	if limit <= 0 {
		limit = 10
	}

	pattern := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
	var members []models.Member
	err := s.db.
		Where("LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(preferred_name) LIKE ? OR LOWER(primary_email) LIKE ?",
			pattern, pattern, pattern, pattern).
		Order("last_name, first_name").
		Limit(limit).
		Find(&members).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search members: %w", err)
	}
	return members, nil
}

// Autocomplete returns lightweight directory entries for the query
func (s *MemberService) Autocomplete(query string, limit int) ([]models.DirectoryEntry, error) {
	members, err := s.Search(query, limit)
	if err != nil {
		return nil, err
	}

	entries := make([]models.DirectoryEntry, 0, len(members))
	for i := range members {
		entries = append(entries, models.DirectoryEntry{
			LocalIdentifier: members[i].MemberID,
			DisplayName:     members[i].DisplayName(),
		})
	}
	return entries, nil
}

func normalizeEmailPtr(email *string) *string {
	if email == nil {
		return nil
	}
	normalized := strings.ToLower(strings.TrimSpace(*email))
	if normalized == "" {
		return nil
	}
	return &normalized
}
