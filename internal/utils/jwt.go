package utils // token creation and verification helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessToken is a signed HS256 JWT plus its expiry. The token embeds
// the user's login username (phone or NIN) and external id; the guard
// middleware re-resolves the username against the live users table on
// every request, so no session state is cached inside the token.
type AccessToken struct {
	Token string    // serialized JWT
	Exp   time.Time // UTC expiration time
}

// TokenClaims is the payload recovered from a verified access token.
type TokenClaims struct {
	Username string // phone number or NIN used at login
	Subject  string // user external id (uuid)
}

var errInvalidToken = errors.New("invalid token")

// NewAccessToken signs an HS256 JWT carrying {username, sub, exp, iat}.
func NewAccessToken(secret, username, subject string, ttlMin int) (AccessToken, error) {
	exp := time.Now().UTC().Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"username": username,
		"sub":      subject,
		"exp":      exp.Unix(),
		"iat":      time.Now().UTC().Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// ParseAccessToken verifies the signature and expiry of a raw token and
// extracts its claims. Tokens signed with anything but HMAC are
// rejected.
func ParseAccessToken(secret, raw string) (TokenClaims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return TokenClaims{}, errInvalidToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return TokenClaims{}, errInvalidToken
	}
	out := TokenClaims{}
	if v, ok := claims["username"].(string); ok {
		out.Username = v
	}
	if v, ok := claims["sub"].(string); ok {
		out.Subject = v
	}
	if out.Username == "" {
		return TokenClaims{}, errInvalidToken
	}
	return out, nil
}
