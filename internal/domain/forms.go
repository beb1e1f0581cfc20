package domain

import (
	"io"
	"strings"
	"time"
)

// MinSpecializedCategories is how many categories a helper must pick.
const MinSpecializedCategories = 3

// FileUpload is a file to send in a multipart request.
type FileUpload struct {
	Filename string
	Content  io.Reader
}

// NewAssignment is the create-assignment form.
type NewAssignment struct {
	Title         string       `json:"title" validate:"required"`
	Description   string       `json:"description" validate:"required"`
	Category      string       `json:"category" validate:"required"`
	Complexity    Complexity   `json:"complexity" validate:"required,complexity"`
	Deadline      time.Time    `json:"deadline" validate:"required"`
	PaymentAmount float64      `json:"paymentAmount" validate:"gt=0"`
	OwnerID       string       `json:"ownerId" validate:"required"`
	Files         []FileUpload `json:"-"`
}

func (n *NewAssignment) Validate() error {
	n.Title = strings.TrimSpace(n.Title)
	n.Description = strings.TrimSpace(n.Description)
	return Validate(n)
}

// HelperRegistration is the self-registration form for helpers.
type HelperRegistration struct {
	Username              string   `json:"username" validate:"required,min=3"`
	Password              string   `json:"password" validate:"required,min=6"`
	ConfirmPassword       string   `json:"-"`
	Email                 string   `json:"email,omitempty" validate:"omitempty,email"`
	Region                Region   `json:"region"`
	SpecializedCategories []string `json:"specializedCategories" validate:"min=3"`

	PayoutDestination
}

// Validate checks the form the same way the registration page does before
// submitting: passwords must match, a region must be chosen, the region's
// payout fields must be filled and at least three categories picked.
func (h *HelperRegistration) Validate() error {
	if h.Password != h.ConfirmPassword {
		return NewValidationError("confirmPassword", "Passwords do not match.")
	}
	if h.Region != RegionLocal && h.Region != RegionForeign {
		return NewValidationError("region", "Please select your region.")
	}
	if err := h.PayoutDestination.Validate(h.Region); err != nil {
		return err
	}
	if err := Validate(h); err != nil {
		return err
	}
	return nil
}

// Payload returns the body sent to the backend: confirm password dropped
// and payout fields limited to the chosen region.
func (h HelperRegistration) Payload() HelperRegistration {
	out := h
	out.ConfirmPassword = ""
	out.PayoutDestination = h.PayoutDestination.ForRegion(h.Region)
	return out
}

// Credentials is the local-login form.
type Credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Review is the owner's verdict on submitted work.
type Review struct {
	Approved bool   `json:"approved"`
	Notes    string `json:"notes"`
}

// PayoutRecord is what an admin enters when marking an assignment paid.
type PayoutRecord struct {
	TransactionID string `json:"transactionId"`
	Notes         string `json:"notes,omitempty"`
}

// UserUpdate is an admin edit of a user's roles and active flag.
type UserUpdate struct {
	Roles    Roles `json:"roles"`
	IsActive bool  `json:"isActive"`
}
