package utils

import (
	"regexp"
	"strings"
	"unicode"
)

var invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*]`)

// TruncateText truncates text to a maximum number of runes, preserving word
// boundaries
func TruncateText(text string, maxLength int) string {
	runes := []rune(text)
	if len(runes) <= maxLength {
		return text
	}

	truncated := string(runes[:maxLength])
	if lastSpace := strings.LastIndex(truncated, " "); lastSpace > 0 {
		truncated = truncated[:lastSpace]
	}

	return truncated + "..."
}

// NormalizeURL normalizes a URL for consistent comparison
func NormalizeURL(url string) string {
	url = strings.TrimSpace(url)

	// Remove fragment
	if idx := strings.Index(url, "#"); idx > 0 {
		url = url[:idx]
	}

	url = strings.TrimSuffix(url, "/")

	// Convert to lowercase for domain part
	if idx := strings.Index(url, "://"); idx > 0 {
		protocol := strings.ToLower(url[:idx+3])
		rest := url[idx+3:]

		if slashIdx := strings.Index(rest, "/"); slashIdx > 0 {
			url = protocol + strings.ToLower(rest[:slashIdx]) + rest[slashIdx:]
		} else {
			url = protocol + strings.ToLower(rest)
		}
	}

	return url
}

// NormalizeDomain reduces user input such as "https://Example.com/about" to a
// bare lower-case host. A port, if present, is kept.
func NormalizeDomain(input string) string {
	d := strings.TrimSpace(input)

	// Remove protocol
	if idx := strings.Index(d, "://"); idx >= 0 {
		d = d[idx+3:]
	}

	// Remove path, query and fragment
	if idx := strings.IndexAny(d, "/?#"); idx >= 0 {
		d = d[:idx]
	}

	// Remove credentials
	if idx := strings.LastIndex(d, "@"); idx >= 0 {
		d = d[idx+1:]
	}

	return strings.TrimSuffix(strings.ToLower(d), ".")
}

// Hostname strips the port from a bare domain.
func Hostname(domain string) string {
	if idx := strings.LastIndex(domain, ":"); idx > 0 && !strings.Contains(domain[idx:], "]") {
		return domain[:idx]
	}

	return domain
}

// BrandFromDomain returns the first label of the domain, e.g. "acme" for
// "acme.example.com".
func BrandFromDomain(domain string) string {
	host := Hostname(domain)
	if idx := strings.Index(host, "."); idx >= 0 {
		return host[:idx]
	}

	return host
}

// TLD returns the last label of the domain.
func TLD(domain string) string {
	host := Hostname(domain)
	if idx := strings.LastIndex(host, "."); idx >= 0 {
		return host[idx+1:]
	}

	return host
}

// HomepageURL returns the bare https homepage for a domain.
func HomepageURL(domain string) string {
	return "https://" + domain
}

// SanitizeFilename removes invalid characters from a filename
func SanitizeFilename(filename string) string {
	filename = invalidFilenameChars.ReplaceAllString(filename, "_")

	// Remove control characters
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, filename)

	// Limit length
	if len(cleaned) > 255 {
		cleaned = cleaned[:255]
	}

	return cleaned
}
