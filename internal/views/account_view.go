package views

import (
	"time"

	"github.com/nimeshabuddhika/account-service/internal/models"
	"github.com/nimeshabuddhika/account-service/pkg"
	"github.com/nimeshabuddhika/account-service/pkg/utils"
)

// DateLayout is the wire format for date_joined.
const DateLayout = "2006-01-02"

// AccountRequest is the create payload. All four fields must be present
// non-empty strings; date_joined is optional and defaults to today.
type AccountRequest struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required"`
	Address     string `json:"address" binding:"required"`
	PhoneNumber string `json:"phone_number" binding:"required"`
	DateJoined  string `json:"date_joined"`
}

// ToModel validates the payload and builds the in-memory account.
// Identifier assignment is left to the store.
func (r AccountRequest) ToModel() (models.Account, error) {
	joined := time.Now().UTC().Truncate(24 * time.Hour)
	if !utils.IsEmpty(r.DateJoined) {
		parsed, err := time.Parse(DateLayout, r.DateJoined)
		if err != nil {
			return models.Account{}, pkg.NewAppError(pkg.ErrInvalidInputCode, "date_joined must be an ISO date (YYYY-MM-DD)", err)
		}
		joined = parsed
	}
	return models.Account{
		Name:        r.Name,
		Email:       r.Email,
		Address:     r.Address,
		PhoneNumber: r.PhoneNumber,
		DateJoined:  joined,
	}, nil
}

// AccountUpdate is the PATCH payload. Absent fields are left untouched;
// a field that is present must be a non-empty string.
type AccountUpdate struct {
	Name        *string `json:"name"`
	Email       *string `json:"email"`
	Address     *string `json:"address"`
	PhoneNumber *string `json:"phone_number"`
	DateJoined  *string `json:"date_joined"`
}

// Apply merges the submitted fields onto an existing account.
func (u AccountUpdate) Apply(account *models.Account) error {
	fields := map[string]*string{
		"name":         u.Name,
		"email":        u.Email,
		"address":      u.Address,
		"phone_number": u.PhoneNumber,
	}
	for name, value := range fields {
		if value != nil && utils.IsEmpty(*value) {
			return pkg.NewAppError(pkg.ErrInvalidInputCode, name+" must be a non-empty string", nil)
		}
	}
	if u.Name != nil {
		account.Name = *u.Name
	}
	if u.Email != nil {
		account.Email = *u.Email
	}
	if u.Address != nil {
		account.Address = *u.Address
	}
	if u.PhoneNumber != nil {
		account.PhoneNumber = *u.PhoneNumber
	}
	if u.DateJoined != nil {
		parsed, err := time.Parse(DateLayout, *u.DateJoined)
		if err != nil {
			return pkg.NewAppError(pkg.ErrInvalidInputCode, "date_joined must be an ISO date (YYYY-MM-DD)", err)
		}
		account.DateJoined = parsed
	}
	return nil
}

// AccountResponse is the wire representation of an account.
type AccountResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Address     string `json:"address"`
	PhoneNumber string `json:"phone_number"`
	DateJoined  string `json:"date_joined"`
}

// FromModel serializes an account; it never fails.
func FromModel(a models.Account) AccountResponse {
	return AccountResponse{
		ID:          a.ID,
		Name:        a.Name,
		Email:       a.Email,
		Address:     a.Address,
		PhoneNumber: a.PhoneNumber,
		DateJoined:  a.DateJoined.Format(DateLayout),
	}
}

// FromModels serializes a collection preserving its order. An empty
// collection serializes to [] rather than null.
func FromModels(accounts []models.Account) []AccountResponse {
	out := make([]AccountResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, FromModel(a))
	}
	return out
}
