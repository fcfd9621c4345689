package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Validation errors
var (
	ErrInvalidGroupName   = errors.New("invalid group name")
	ErrInvalidDescription = errors.New("invalid description")
	ErrAmountTooLarge     = errors.New("amount exceeds maximum allowed")
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrPasswordTooWeak    = errors.New("password does not meet requirements")
	ErrInvalidIDFormat    = errors.New("invalid ID format")
)

// Validation constants
const (
	MaxGroupNameLength   = 255
	MinGroupNameLength   = 1
	MaxDescriptionLength = 1024
	MaxAmountUnits       = "1000000000000000" // 10 trillion at scale 2
	MinPasswordLength    = 8
	MaxPasswordLength    = 128
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidateGroupName validates group name
func ValidateGroupName(name string) error {
	name = strings.TrimSpace(name)

	if len(name) < MinGroupNameLength {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidGroupName)
	}

	if len(name) > MaxGroupNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidGroupName, MaxGroupNameLength)
	}

	// Check for SQL injection attempts
	dangerous := []string{"--", "/*", "*/", ";", "DROP", "DELETE", "INSERT", "UPDATE"}
	nameUpper := strings.ToUpper(name)
	for _, pattern := range dangerous {
		if strings.Contains(nameUpper, pattern) {
			return fmt.Errorf("%w: contains forbidden characters", ErrInvalidGroupName)
		}
	}

	return nil
}

// ValidateDescription validates a free-text description
func ValidateDescription(description string) error {
	if len(description) > MaxDescriptionLength {
		return fmt.Errorf("%w: description exceeds %d characters", ErrInvalidDescription, MaxDescriptionLength)
	}
	return nil
}

// ValidateAmount validates an expense or settlement amount
func ValidateAmount(amount Money) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}

	maxAmount, _ := ParseMoney(MaxAmountUnits)
	if amount.Cmp(maxAmount) > 0 {
		return fmt.Errorf("%w: maximum amount is %s base units", ErrAmountTooLarge, MaxAmountUnits)
	}

	return nil
}

// ValidateEmail validates email format
func ValidateEmail(email string) error {
	email = strings.TrimSpace(strings.ToLower(email))

	if !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}

	return nil
}

// ValidatePassword validates password strength
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("%w: must be at least %d characters", ErrPasswordTooWeak, MinPasswordLength)
	}

	if len(password) > MaxPasswordLength {
		return fmt.Errorf("%w: must not exceed %d characters", ErrPasswordTooWeak, MaxPasswordLength)
	}

	// Check for at least one uppercase, one lowercase, and one number
	hasUpper := regexp.MustCompile(`[A-Z]`).MatchString(password)
	hasLower := regexp.MustCompile(`[a-z]`).MatchString(password)
	hasNumber := regexp.MustCompile(`[0-9]`).MatchString(password)

	if !hasUpper || !hasLower || !hasNumber {
		return fmt.Errorf("%w: must contain uppercase, lowercase, and numbers", ErrPasswordTooWeak)
	}

	return nil
}

// ValidatePagination validates and limits pagination parameters
func ValidatePagination(limit, offset int) (int, int, error) {
	const MaxPageSize = 1000
	const DefaultPageSize = 50

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset, nil
}
