package validation

import (
	"fmt"
	"strings"

	"provmgr/internal/utils"
)

const maxNameLength = 50

// InputValidator validates user input
type InputValidator struct {
}

// NewInputValidator creates a new InputValidator
func NewInputValidator() *InputValidator {
	return &InputValidator{}
}

// ValidateName checks if a source name is valid
func (iv *InputValidator) ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if strings.ContainsAny(name, "<>\"'&/\\") {
		return fmt.Errorf("name contains invalid characters")
	}
	if len([]rune(name)) > maxNameLength {
		return fmt.Errorf("name is too long (max %d characters)", maxNameLength)
	}
	return nil
}

// ValidateURL checks if a URL is valid. Empty means provider default.
func (iv *InputValidator) ValidateURL(url string) error {
	if url != "" && !utils.ValidateURL(url) {
		return fmt.Errorf("invalid URL format: %s", url)
	}
	return nil
}

// ValidateModelName checks if a model name is valid. Empty means provider default.
func (iv *InputValidator) ValidateModelName(model string) error {
	if strings.ContainsAny(model, "<>\"'&\\ ") {
		return fmt.Errorf("model name contains invalid characters")
	}
	return nil
}

// ValidateLanguage checks a BCP 47-style language code such as "en" or "zh-CN".
func (iv *InputValidator) ValidateLanguage(code string) error {
	if code == "" {
		return fmt.Errorf("language cannot be empty")
	}
	for i, part := range strings.Split(code, "-") {
		if len(part) < 2 || len(part) > 8 {
			return fmt.Errorf("invalid language code: %s", code)
		}
		for _, r := range part {
			isLetter := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
			if !isLetter && (i == 0 || r < '0' || r > '9') {
				return fmt.Errorf("invalid language code: %s", code)
			}
		}
	}
	return nil
}
