package utils

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
)

// EnvOrDefault returns ENV value or fallback default.
func EnvOrDefault(key, def string) string {
	v := os.Getenv(key)
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

// NewMeetingCode mints the room identifier handed to the external meeting
// provider. Opaque on our side; the provider treats it as a room name.
func NewMeetingCode() string {
	return uuid.NewString()
}

// BuildMeetingLink builds the join URL for a meeting code against the
// configured provider base URL.
func BuildMeetingLink(code string) string {
	base := strings.TrimRight(EnvOrDefault("MEETING_BASE_URL", "https://meet.jit.si"), "/")
	return fmt.Sprintf("%s/%s", base, code)
}

// MaskEmail returns masked email for safe display.
func MaskEmail(email string) string {
	email = strings.TrimSpace(email)
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return email
	}
	local := parts[0]
	domain := parts[1]

	maskedLocal := local
	if len(local) > 2 {
		maskedLocal = local[:1] + strings.Repeat("*", len(local)-2) + local[len(local)-1:]
	} else if len(local) == 2 {
		maskedLocal = local[:1] + "*"
	}

	domainParts := strings.Split(domain, ".")
	if len(domainParts) >= 2 && len(domainParts[0]) > 1 {
		domainParts[0] = domainParts[0][:1] + strings.Repeat("*", len(domainParts[0])-1)
	}

	return maskedLocal + "@" + strings.Join(domainParts, ".")
}
