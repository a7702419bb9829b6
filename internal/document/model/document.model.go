package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type Document struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	OwnerID      string    `json:"owner_id"`
	Access       int       `json:"access"`
	AccessLevel  string    `json:"access_level"`
	DateCreated  time.Time `json:"date_created"`
	LastModified time.Time `json:"last_modified"`
}

type CreateDocRequest struct {
	Title       string `json:"title"`
	Content     string `json:"content"`
	OwnerID     string `json:"ownerId"`
	AccessLevel string `json:"accessLevel"`
}

func (r CreateDocRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required),
		validation.Field(&r.Content, validation.Required),
		validation.Field(&r.OwnerID, validation.Required),
		validation.Field(&r.AccessLevel, validation.In("admin", "private", "public")),
	)
}

// UpdateDocRequest is a patch: empty fields are left untouched.
type UpdateDocRequest struct {
	Title       string `json:"title"`
	Content     string `json:"content"`
	AccessLevel string `json:"accessLevel"`
}

func (r UpdateDocRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.AccessLevel, validation.In("admin", "private", "public")),
	)
}

// ListQuery carries the optional filters on document listings.
type ListQuery struct {
	Limit int
	Role  string
	From  string
	To    string
}

// MutationResponse wraps create/update/delete results so every mutation
// returns the affected document alongside a confirmation message.
type MutationResponse struct {
	Message string    `json:"message"`
	Doc     *Document `json:"doc"`
}
