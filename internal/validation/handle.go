package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// HandlePattern определяет допустимый формат handle архива
// Латинские буквы (a-z, A-Z), цифры (0-9), '_', '-', '.'
// Длина: 3-24 символа
var HandlePattern = regexp.MustCompile(`^[a-zA-Z0-9_.\-]{3,24}$`)

const (
	// MinHandleLen минимальная длина handle
	MinHandleLen = 3
	// MaxHandleLen максимальная длина handle
	MaxHandleLen = 24
)

// ValidateHandle проверяет, что handle соответствует требованиям архива.
// Пробелы по краям отбрасываются вызывающей стороной (см. NormalizeHandle).
func ValidateHandle(handle string) error {
	if handle == "" {
		return fmt.Errorf("handle cannot be empty")
	}

	if len(handle) < MinHandleLen {
		return fmt.Errorf("handle must be at least %d characters long", MinHandleLen)
	}

	if len(handle) > MaxHandleLen {
		return fmt.Errorf("handle must not exceed %d characters", MaxHandleLen)
	}

	if !HandlePattern.MatchString(handle) {
		return fmt.Errorf("handle can only contain letters (a-z, A-Z), numbers (0-9), '_', '-' and '.'")
	}

	return nil
}

// NormalizeHandle убирает пробелы и проверяет handle
func NormalizeHandle(handle string) (string, error) {
	handle = strings.TrimSpace(handle)
	if err := ValidateHandle(handle); err != nil {
		return "", err
	}
	return handle, nil
}

// ValidateProblemID проверяет формат составного ключа "{contestId}-{index}"
func ValidateProblemID(id string) error {
	if id == "" {
		return fmt.Errorf("problem id cannot be empty")
	}

	contest, index, ok := strings.Cut(id, "-")
	if !ok || index == "" {
		return fmt.Errorf("problem id must look like <contest>-<index>, got %q", id)
	}

	n, err := strconv.Atoi(contest)
	if err != nil || n <= 0 {
		return fmt.Errorf("problem id must start with a positive contest number, got %q", id)
	}

	return nil
}

// ValidateRatingBounds проверяет, что границы рейтинга не противоречат друг другу
func ValidateRatingBounds(minRating, maxRating *int) error {
	if minRating != nil && *minRating < 0 {
		return fmt.Errorf("min rating must not be negative")
	}
	if maxRating != nil && *maxRating < 0 {
		return fmt.Errorf("max rating must not be negative")
	}
	if minRating != nil && maxRating != nil && *minRating > *maxRating {
		return fmt.Errorf("min rating %d is greater than max rating %d", *minRating, *maxRating)
	}
	return nil
}
