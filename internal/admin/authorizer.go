package admin

import "strings"

// Authorizer answers whether a principal may moderate enrollments. The
// allow-list is injected at construction and matched case-insensitively.
type Authorizer struct {
	allowed map[string]struct{}
}

func NewAuthorizer(adminEmails []string) *Authorizer {
	allowed := make(map[string]struct{}, len(adminEmails))
	for _, email := range adminEmails {
		email = strings.ToLower(strings.TrimSpace(email))
		if email == "" {
			continue
		}
		allowed[email] = struct{}{}
	}
	return &Authorizer{allowed: allowed}
}

// Authorize returns true iff the lower-cased email is on the allow-list.
// An empty (unauthenticated) principal is never authorized.
func (a *Authorizer) Authorize(email string) bool {
	if email == "" {
		return false
	}
	_, ok := a.allowed[strings.ToLower(email)]
	return ok
}
