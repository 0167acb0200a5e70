package models

import (
	"strings"
)

// MemberStatus represents the membership standing of a member record
type MemberStatus string

const (
	StatusActive   MemberStatus = "active"
	StatusLapsed   MemberStatus = "lapsed"
	StatusResigned MemberStatus = "resigned"
	StatusDeceased MemberStatus = "deceased"
)

// Label returns the human-readable form of the status
func (s MemberStatus) Label() string {
	switch s {
	case StatusActive:
		return "Active"
	case StatusLapsed:
		return "Lapsed"
	case StatusResigned:
		return "Resigned"
	case StatusDeceased:
		return "Deceased"
	default:
		return string(s)
	}
}

// IsInactive reports whether the status excludes the member from marketing sync
func (s MemberStatus) IsInactive() bool {
	switch s {
	case StatusLapsed, StatusResigned, StatusDeceased:
		return true
	default:
		return false
	}
}

// Member is a directory member record
type Member struct {
	MemberID           string       `gorm:"primaryKey;column:member_id" json:"memberId"`
	ExternalIdentifier string       `gorm:"column:external_identifier;index" json:"externalIdentifier"`
	PrimaryEmail       *string      `gorm:"column:primary_email;uniqueIndex" json:"primaryEmail"`
	FirstName          string       `gorm:"column:first_name" json:"firstName"`
	MiddleName         string       `gorm:"column:middle_name" json:"middleName"`
	LastName           string       `gorm:"column:last_name" json:"lastName"`
	PreferredName      string       `gorm:"column:preferred_name" json:"preferredName"`
	Status             MemberStatus `gorm:"column:status;default:active" json:"status"`
	LocalDoNotContact  bool         `gorm:"column:local_do_not_contact;default:false" json:"localDoNotContact"`
	ClassYear          string       `gorm:"column:class_year" json:"classYear"`
	PrimaryTelephone   string       `gorm:"column:primary_telephone" json:"primaryTelephoneNumber"`
	MailingAddressLine1 string      `gorm:"column:mailing_address_line1" json:"mailingAddressLine1"`
	MailingAddressLine2 string      `gorm:"column:mailing_address_line2" json:"mailingAddressLine2"`
	MailingCity        string       `gorm:"column:mailing_city" json:"mailingCity"`
	MailingState       string       `gorm:"column:mailing_state" json:"mailingState"`
	MailingPostalCode  string       `gorm:"column:mailing_postal_code" json:"mailingPostalCode"`
	MailingCountry     string       `gorm:"column:mailing_country" json:"mailingCountry"`
	Employer           string       `gorm:"column:employer" json:"employer"`
	JobTitle           string       `gorm:"column:job_title" json:"jobTitle"`
	Occupation         string       `gorm:"column:occupation" json:"occupation"`
	LinkedinURL        string       `gorm:"column:linkedin_url" json:"linkedinUrl"`
	FacebookURL        string       `gorm:"column:facebook_url" json:"facebookUrl"`
	Tags               string       `gorm:"column:tags" json:"tags"`
	UpdateToken        string       `gorm:"column:update_token" json:"-"`
	BaseModel
}

// TableName specifies the table name for the Member model
func (Member) TableName() string {
	return "members"
}

// DisplayName returns the preferred name when set, otherwise the first name,
// followed by the last name.
func (m *Member) DisplayName() string {
	first := m.FirstName
	if m.PreferredName != "" {
		first = m.PreferredName
	}
	return strings.TrimSpace(first + " " + m.LastName)
}

// PrimaryEmailValue returns the primary email or "" when unset
func (m *Member) PrimaryEmailValue() string {
	if m.PrimaryEmail == nil {
		return ""
	}
	return *m.PrimaryEmail
}

// TagsAsCSV normalizes the stored tag list to a comma-separated string
func (m *Member) TagsAsCSV() string {
	if m.Tags == "" {
		return ""
	}
	parts := strings.Split(m.Tags, ",")
	cleaned := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			cleaned = append(cleaned, p)
		}
	}
	return strings.Join(cleaned, ",")
}
