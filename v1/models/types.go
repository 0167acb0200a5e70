package models

// CreateMemberRequest is the payload for creating a member record
type CreateMemberRequest struct {
	ExternalIdentifier  string       `json:"externalIdentifier"`
	PrimaryEmail        *string      `json:"primaryEmail"`
	FirstName           string       `json:"firstName"`
	MiddleName          string       `json:"middleName"`
	LastName            string       `json:"lastName"`
	PreferredName       string       `json:"preferredName"`
	Status              MemberStatus `json:"status"`
	LocalDoNotContact   bool         `json:"localDoNotContact"`
	ClassYear           string       `json:"classYear"`
	PrimaryTelephone    string       `json:"primaryTelephoneNumber"`
	MailingAddressLine1 string       `json:"mailingAddressLine1"`
	MailingAddressLine2 string       `json:"mailingAddressLine2"`
	MailingCity         string       `json:"mailingCity"`
	MailingState        string       `json:"mailingState"`
	MailingPostalCode   string       `json:"mailingPostalCode"`
	MailingCountry      string       `json:"mailingCountry"`
	Employer            string       `json:"employer"`
	JobTitle            string       `json:"jobTitle"`
	Occupation          string       `json:"occupation"`
	LinkedinURL         string       `json:"linkedinUrl"`
	FacebookURL         string       `json:"facebookUrl"`
	Tags                string       `json:"tags"`
}

// UpdateMemberRequest is the payload for updating a member record. Nil fields
// are left unchanged.
type UpdateMemberRequest struct {
	ExternalIdentifier  *string       `json:"externalIdentifier"`
	PrimaryEmail        *string       `json:"primaryEmail"`
	FirstName           *string       `json:"firstName"`
	MiddleName          *string       `json:"middleName"`
	LastName            *string       `json:"lastName"`
	PreferredName       *string       `json:"preferredName"`
	Status              *MemberStatus `json:"status"`
	LocalDoNotContact   *bool         `json:"localDoNotContact"`
	ClassYear           *string       `json:"classYear"`
	PrimaryTelephone    *string       `json:"primaryTelephoneNumber"`
	MailingAddressLine1 *string       `json:"mailingAddressLine1"`
	MailingAddressLine2 *string       `json:"mailingAddressLine2"`
	MailingCity         *string       `json:"mailingCity"`
	MailingState        *string       `json:"mailingState"`
	MailingPostalCode   *string       `json:"mailingPostalCode"`
	MailingCountry      *string       `json:"mailingCountry"`
	Employer            *string       `json:"employer"`
	JobTitle            *string       `json:"jobTitle"`
	Occupation          *string       `json:"occupation"`
	LinkedinURL         *string       `json:"linkedinUrl"`
	FacebookURL         *string       `json:"facebookUrl"`
	Tags                *string       `json:"tags"`
}

// CreateUserRequest is the payload for creating an administrative account
type CreateUserRequest struct {
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Roles    []string `json:"roles"`
}

// UpdateUserRequest is the payload for updating an administrative account.
// Nil fields are left unchanged; a non-empty Password replaces the hash.
type UpdateUserRequest struct {
	Username *string   `json:"username"`
	Email    *string   `json:"email"`
	Password *string   `json:"password"`
	Roles    *[]string `json:"roles"`
}

// UserResponse is the outward representation of a User
type UserResponse struct {
	UserID           string   `json:"userId"`
	Username         string   `json:"username"`
	Email            string   `json:"email"`
	Roles            []string `json:"roles"`
	TwoFactorEnabled bool     `json:"twoFactorEnabled"`
	LastLogin        *string  `json:"lastLogin"`
}

// DirectoryEntry is a single autocomplete / search hit
type DirectoryEntry struct {
	LocalIdentifier string `json:"localIdentifier"`
	DisplayName     string `json:"displayName"`
}

// WebhookEvent is a single entry in an inbound vendor webhook payload
type WebhookEvent struct {
	Type            string `json:"Type"`
	OldEmailAddress string `json:"OldEmailAddress"`
	EmailAddress    string `json:"EmailAddress"`
}

// WebhookPayload is the inbound vendor webhook body
type WebhookPayload struct {
	Events []WebhookEvent `json:"Events"`
}

// WebhookEventResult pairs a processed event with its outcome description
type WebhookEventResult struct {
	Result  string       `json:"result"`
	Payload WebhookEvent `json:"payload"`
}
