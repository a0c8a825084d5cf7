package logging

import (
	"log/slog"
	"regexp"

	"github.com/m-mizutani/masq"
)

// SensitiveFields are attribute keys whose values are always redacted.
// Matching is on the lowercase key.
var SensitiveFields = []string{
	"authorization",
	"cookie",
	"password",
	"secret",
	"token",
	"x-api-key",
}

// sensitivePrefixes catch variants such as "password_confirmation" or
// "secret_key".
var sensitivePrefixes = []string{"password_", "secret_", "api_key", "token_"}

var (
	bearerValue = regexp.MustCompile(`(?i)bearer\s+[a-zA-Z0-9\-._~+/]+=*`)
	// Three base64url segments of 10+ characters, so version strings pass.
	jwtValue    = regexp.MustCompile(`[a-zA-Z0-9\-_]{10,}\.[a-zA-Z0-9\-_]{10,}\.[a-zA-Z0-9\-_]{10,}`)
	apiKeyValue = regexp.MustCompile(`(?i)(api[_\-]?key|apikey)\s*[:=]\s*\S+`)
)

// redactor builds the masq ReplaceAttr hook used by every handler.
func redactor() func([]string, slog.Attr) slog.Attr {
	opts := make([]masq.Option, 0, len(SensitiveFields)+len(sensitivePrefixes)+3)
	for _, name := range SensitiveFields {
		opts = append(opts, masq.WithFieldName(name))
	}
	for _, prefix := range sensitivePrefixes {
		opts = append(opts, masq.WithFieldPrefix(prefix))
	}
	opts = append(opts,
		masq.WithRegex(bearerValue),
		masq.WithRegex(jwtValue),
		masq.WithRegex(apiKeyValue),
	)
	return masq.New(opts...)
}
