package domain

import (
	"regexp"
	"strings"
	"unicode"
)

// SettingsName is the name of the single persisted settings record.
const SettingsName = "feishu_order_notify_settings"

var (
	suffixShape   = regexp.MustCompile(`(?i)^[a-f0-9-]{36}$`)
	hookTailShape = regexp.MustCompile(`/hook/([a-f0-9-]{36})$`)
	urlTailShape  = regexp.MustCompile(`(?i)^.*/([a-f0-9-]{36})$`)
)

// Settings is the admin-managed webhook configuration.
type Settings struct {
	WebhookSuffix   string
	WatchedStatuses []string
}

// Watches reports whether status is one of the watched order statuses.
func (s Settings) Watches(status string) bool {
	needle := strings.TrimSpace(status)
	if needle == "" {
		return false
	}
	for _, watched := range s.WatchedStatuses {
		if watched == needle {
			return true
		}
	}
	return false
}

// Sanitize cleans admin input the way the settings form stores it.
func (s Settings) Sanitize(baseURL string) Settings {
	suffix := sanitizeText(s.WebhookSuffix)
	if baseURL != "" && strings.HasPrefix(suffix, baseURL) {
		suffix = strings.TrimPrefix(suffix, baseURL)
	}

	statuses := make([]string, 0, len(s.WatchedStatuses))
	seen := make(map[string]struct{}, len(s.WatchedStatuses))
	for _, raw := range s.WatchedStatuses {
		status := strings.TrimPrefix(sanitizeText(raw), "wc-")
		if status == "" {
			continue
		}
		if _, ok := seen[status]; ok {
			continue
		}
		seen[status] = struct{}{}
		statuses = append(statuses, status)
	}

	return Settings{
		WebhookSuffix:   suffix,
		WatchedStatuses: statuses,
	}
}

// ResolveSuffix trims the configured suffix and strips the base URL when a full
// webhook address was pasted.
func ResolveSuffix(raw string, baseURL string) string {
	key := strings.TrimSpace(raw)
	if baseURL != "" && strings.HasPrefix(key, baseURL) {
		key = strings.TrimPrefix(key, baseURL)
	}
	return key
}

// ResolveTestSuffix is ResolveSuffix plus recovery of a token from any
// ".../hook/<token>" address.
func ResolveTestSuffix(raw string, baseURL string) string {
	key := strings.TrimSpace(raw)
	if baseURL != "" && strings.HasPrefix(key, baseURL) {
		return strings.TrimPrefix(key, baseURL)
	}
	if m := hookTailShape.FindStringSubmatch(key); m != nil {
		return m[1]
	}
	return key
}

// ValidSuffixShape reports whether suffix looks like a 36-character webhook token.
func ValidSuffixShape(suffix string) bool {
	return suffixShape.MatchString(suffix)
}

// SuggestedSuffix extracts the trailing token from a pasted URL. It returns ""
// when raw does not look like a URL.
func SuggestedSuffix(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "http") {
		return ""
	}
	if m := urlTailShape.FindStringSubmatch(trimmed); m != nil {
		return m[1]
	}
	return ""
}

func sanitizeText(value string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, value)
	return strings.Join(strings.Fields(cleaned), " ")
}
