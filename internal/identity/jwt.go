package identity

import (
	"context"

	"community-service/internal/shared/httpx"

	jw "github.com/golang-jwt/jwt/v5"
)

// JWTVerifier validates tokens locally with the provider's shared HS256
// secret. Used when no auth service URL is configured.
type JWTVerifier struct {
	secret []byte
}

func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

func (v *JWTVerifier) Verify(_ context.Context, token string) (Principal, error) {
	t, err := jw.Parse(token, func(t *jw.Token) (any, error) {
		if _, ok := t.Method.(*jw.SigningMethodHMAC); !ok {
			return nil, httpx.ErrInvalidCredential
		}
		return v.secret, nil
	})
	if err != nil || !t.Valid {
		return Principal{}, httpx.ErrInvalidCredential
	}
	mc, ok := t.Claims.(jw.MapClaims)
	if !ok {
		return Principal{}, httpx.ErrInvalidCredential
	}
	sub, _ := mc["sub"].(string)
	if sub == "" {
		return Principal{}, httpx.ErrInvalidCredential
	}
	name, _ := mc["name"].(string)
	email, _ := mc["email"].(string)
	return Principal{ID: sub, Name: name, Email: email}, nil
}
