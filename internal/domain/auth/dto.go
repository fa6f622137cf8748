package auth

import "github.com/cmlabs-hris/hris-workflow-go/internal/pkg/validator"

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	var errs validator.ValidationErrors
	errs.Required("username", r.Username)
	errs.Required("password", r.Password)
	return errs.Err()
}

type TokenResponse struct {
	AccessToken          string          `json:"access_token"`
	AccessTokenExpiresIn int64           `json:"access_token_expires_in"`
	TokenType            string          `json:"token_type"`
	User                 ProfileResponse `json:"user"`
}

type ProfileResponse struct {
	ID           string  `json:"id"`
	Username     string  `json:"username"`
	Role         string  `json:"role"`
	EmployeeID   *string `json:"employee_id,omitempty"`
	EmployeeName *string `json:"employee_name,omitempty"`
}
