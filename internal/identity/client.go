package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"community-service/internal/shared/httpx"
)

const verifyTimeout = 3 * time.Second

// RemoteVerifier asks the identity provider to resolve a bearer token into a
// principal. Every mutating request goes through this call; no session state
// is held here.
type RemoteVerifier struct {
	base string
	hc   *http.Client
}

func NewRemoteVerifier(base string) *RemoteVerifier {
	return &RemoteVerifier{
		base: base,
		hc:   &http.Client{Timeout: verifyTimeout},
	}
}

func (v *RemoteVerifier) Verify(ctx context.Context, token string) (Principal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.base+"/auth/user", nil)
	if err != nil {
		return Principal{}, fmt.Errorf("identity gateway: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := v.hc.Do(req)
	if err != nil {
		return Principal{}, fmt.Errorf("identity gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return Principal{}, httpx.ErrInvalidCredential
	}
	if resp.StatusCode >= 300 {
		return Principal{}, fmt.Errorf("identity gateway status %d", resp.StatusCode)
	}

	var p Principal
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return Principal{}, fmt.Errorf("identity gateway: %w", err)
	}
	if p.ID == "" {
		return Principal{}, httpx.ErrInvalidCredential
	}
	return p, nil
}
