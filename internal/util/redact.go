package util

import (
	"net/url"
	"regexp"
	"strings"
)

var reToken = regexp.MustCompile(`(?i)((?:api_?key|secret|token|key)=)([A-Za-z0-9._~-]{8,})`)

// RedactSecrets masks key=value style credentials in free text such as
// error messages that embed a request URL.
func RedactSecrets(s string) string {
	return reToken.ReplaceAllString(s, "${1}[redacted]")
}

// RedactURL drops userinfo passwords and masks credential-looking query
// parameters. Unparseable input falls back to RedactSecrets.
func RedactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return RedactSecrets(raw)
	}
	if u.User != nil {
		if _, ok := u.User.Password(); ok {
			u.User = url.UserPassword(u.User.Username(), "redacted")
		}
	}
	q := u.Query()
	changed := false
	for k := range q {
		lk := strings.ToLower(k)
		if strings.Contains(lk, "key") || strings.Contains(lk, "token") || strings.Contains(lk, "secret") {
			q.Set(k, "redacted")
			changed = true
		}
	}
	if changed {
		u.RawQuery = q.Encode()
	}
	return u.String()
}
