package models

// Organization holds the structure for an organization returned by the API
type Organization struct {
	ID           string `json:"_id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	ContactEmail string `json:"contactEmail"`
}

// OrganizationInput is the request body used to create an organization
type OrganizationInput struct {
	Name         string `json:"name" validate:"required"`
	Description  string `json:"description" validate:"required"`
	ContactEmail string `json:"contactEmail" validate:"required,email"`
}

// OrganizationsResponse wraps GET /organizations
type OrganizationsResponse struct {
	Organizations []Organization `json:"organizations"`
}

// OrganizationResponse wraps POST /organizations
type OrganizationResponse struct {
	Organization Organization `json:"organization"`
}
