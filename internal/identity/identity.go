// Package identity adapts the external identity provider. The service never
// issues or validates credentials itself; it hands the bearer token to a
// Verifier and consumes the verified principal.
package identity

import "context"

type Principal struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Verifier interface {
	Verify(ctx context.Context, token string) (Principal, error)
}
