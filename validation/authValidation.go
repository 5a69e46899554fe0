package validation

import (
	"drafts-api/models"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError represents custom validation errors.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "validation errors: " + strings.Join(e.Errors, ", ")
}

// Credentials is a sign-in payload.
type Credentials struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required"`
	CallbackURL string `json:"callbackUrl"`
}

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
}

func ValidateUserData(user models.User) error {
	var validationErrors []string

	// Validate using validator package
	if err := structErrors(user); err != nil {
		return err
	}

	// Additional custom validation
	if len(user.Password) < 8 {
		validationErrors = append(validationErrors, ErrPasswordTooShort.Error())
	}

	if !isComplexPassword(user.Password) {
		validationErrors = append(validationErrors, ErrPasswordNotComplex.Error())
	}

	if len(validationErrors) > 0 {
		return &ValidationError{Errors: validationErrors}
	}

	return nil
}

// ValidateCredentials checks that a sign-in payload is well formed.
func ValidateCredentials(creds Credentials) error {
	return structErrors(creds)
}

func structErrors(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err
	}

	validationErrors := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		validationErrors = append(validationErrors, fmt.Sprintf("%s: %s", fe.Field(), fe.Tag()))
	}
	return &ValidationError{Errors: validationErrors}
}

// Define static errors at the package level
var (
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters long")
	ErrPasswordNotComplex = errors.New("password must include at least one uppercase letter, one lowercase letter, one digit, and one special character")
)

// isComplexPassword checks password complexity
var (
	lowercaseRegex = regexp.MustCompile(`[a-z]`)
	uppercaseRegex = regexp.MustCompile(`[A-Z]`)
	digitRegex     = regexp.MustCompile(`\d`)
	specialRegex   = regexp.MustCompile(`[@$!%*?&]`)
)

func isComplexPassword(password string) bool {
	return lowercaseRegex.MatchString(password) &&
		uppercaseRegex.MatchString(password) &&
		digitRegex.MatchString(password) &&
		specialRegex.MatchString(password)
}
