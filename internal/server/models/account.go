// Package models defines server-side data models persisted in the database.
package models

// Account is the full account record as stored, including the password
// hash. It must never cross the trust boundary; handlers and services
// return AccountView instead.
type Account struct {
	// ID is the server-generated account identifier.
	ID string
	// Email is the unique account key.
	Email string
	// Username is the display name.
	Username string
	// Password is the bcrypt hash of the account password.
	Password string
	// Phone is an optional contact number.
	Phone string
	// UserGroup is a free-form organisational grouping.
	UserGroup string
	// AccountType is "user" or "admin".
	AccountType string
}

// AccountView is the public projection of an Account. It deliberately has
// no password field, so sensitive data cannot leak by construction.
type AccountView struct {
	ID          string `json:"user_id"`
	Email       string `json:"email"`
	Username    string `json:"username"`
	Phone       string `json:"phone"`
	UserGroup   string `json:"user_group"`
	AccountType string `json:"account_type"`
}

// View returns the password-free projection of the account.
func (a *Account) View() *AccountView {
	return &AccountView{
		ID:          a.ID,
		Email:       a.Email,
		Username:    a.Username,
		Phone:       a.Phone,
		UserGroup:   a.UserGroup,
		AccountType: a.AccountType,
	}
}

// AccountCreation carries the fields required to create a new account.
type AccountCreation struct {
	Email       string
	Username    string
	Password    string
	Phone       string
	UserGroup   string
	AccountType string
}
