// redact — помощники для безопасного логирования PII и секретов.
package redact

import "strings"

// Email маскирует локальную часть адреса: "user@example.com" -> "us***@example.com".
func Email(s string) string {
	parts := strings.Split(s, "@")
	if len(parts) != 2 {
		return "***"
	}

	local, domain := parts[0], parts[1]
	if len(local) > 2 {
		local = local[:2] + "***"
	} else {
		local = "***"
	}

	return local + "@" + domain
}

// Login маскирует идентификатор входа (username или email).
func Login(s string) string {
	if strings.Contains(s, "@") {
		return Email(s)
	}

	if len(s) > 2 {
		return s[:2] + "***"
	}

	return "***"
}

func Token() string    { return "[REDACTED_TOKEN]" }
func Password() string { return "[REDACTED_PASSWORD]" }
