package respond

import "regexp"

var (
	bearerPattern      = regexp.MustCompile(`(?i)(bearer\s+)[A-Za-z0-9._~+/=-]+`)
	queryKeyPattern    = regexp.MustCompile(`(?i)([?&](?:api_key|apikey|token|access_token|key)=)[^&\s"]+`)
	dsnPasswordPattern = regexp.MustCompile(`://([^:/@\s]+):([^@\s]+)@`)
)

// SanitizeError returns err's message with bearer tokens, key-like query
// parameters and DSN passwords masked.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	msg = bearerPattern.ReplaceAllString(msg, "${1}****")
	msg = queryKeyPattern.ReplaceAllString(msg, "${1}****")
	msg = dsnPasswordPattern.ReplaceAllString(msg, "://$1:****@")
	return msg
}
