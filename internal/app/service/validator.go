package service

import (
	"fmt"
	"net/url"
	"strings"

	apperrors "github.com/sifan077/shortlink/internal/errors"
)

const maxURLLength = 2048

func validateTargetURL(rawURL, selfHost string) error {
	if rawURL == "" {
		return apperrors.NewValidationError("url", "URL cannot be empty")
	}

	if len(rawURL) > maxURLLength {
		return apperrors.NewValidationError("url", fmt.Sprintf("URL is too long (max %d characters)", maxURLLength))
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return apperrors.NewValidationError("url", fmt.Sprintf("invalid URL format: %v", err))
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return apperrors.NewValidationError("url", "URL must start with http:// or https://")
	}

	if parsedURL.Host == "" {
		return apperrors.NewValidationError("url", "URL must contain a valid host")
	}

	// Any port on our own hostname is still this service.
	if selfHost != "" && strings.EqualFold(normalizeHostname(parsedURL.Hostname()), selfHost) {
		return apperrors.NewValidationError("url", "URL must not point at this service")
	}

	return nil
}

// sanitizeInput strips control characters and surrounding whitespace.
func sanitizeInput(input string) string {
	result := strings.Map(func(r rune) rune {
		if r < 32 || r == 127 {
			return -1
		}
		return r
	}, input)

	return strings.TrimSpace(result)
}

// hostOf returns the normalized hostname of baseURL, or "" when it has none.
func hostOf(baseURL string) string {
	if baseURL == "" {
		return ""
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return ""
	}
	return normalizeHostname(u.Hostname())
}

// normalizeHostname lowercases h and drops the DNS root dot.
func normalizeHostname(h string) string {
	return strings.ToLower(strings.TrimSuffix(h, "."))
}
