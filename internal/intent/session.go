package intent

import "regexp"

var (
	sessionMarkerRe  = regexp.MustCompile(`/sessions/([^/]+)`)
	trailingTokenRe  = regexp.MustCompile(`/([a-zA-Z0-9_-]+)(?:\?|$)`)
	sessionIDShapeRe = regexp.MustCompile(`^[a-zA-Z0-9_-]+`)
)

// ExtractSessionID pulls the session identifier out of a Dialogflow session
// path such as "projects/p/agent/sessions/abc-123". When the /sessions/
// marker is missing it falls back to the last id-like path token. Returns ""
// when nothing usable is found.
func ExtractSessionID(sessionPath string) string {
	if sessionPath == "" {
		return ""
	}
	if m := sessionMarkerRe.FindStringSubmatch(sessionPath); m != nil {
		return m[1]
	}
	if m := trailingTokenRe.FindStringSubmatch(sessionPath); m != nil {
		return m[1]
	}
	return ""
}

// ValidSessionID is a basic sanity check, not a format guarantee: the
// session path shape is owned by the NLU platform.
func ValidSessionID(id string) bool {
	return len(id) >= 3 && sessionIDShapeRe.MatchString(id)
}
