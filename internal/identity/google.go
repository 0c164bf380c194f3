package identity

import (
	"errors"
	"fmt"

	"github.com/MicahParks/keyfunc"
	"github.com/golang-jwt/jwt/v4"
)

// Profile is the verified identity extracted from a Google ID token.
type Profile struct {
	Name    string
	Email   string
	Picture string
}

// Verifier turns an opaque bearer credential into a verified profile.
// The rest of the system treats this as a black box.
type Verifier interface {
	Verify(credential string) (Profile, error)
}

var ErrInvalidCredential = errors.New("invalid identity credential")

type googleClaims struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture"`
	jwt.RegisteredClaims
}

// GoogleVerifier validates Google ID tokens against Google's JWKS.
type GoogleVerifier struct {
	jwks     *keyfunc.JWKS
	clientID string
	parser   *jwt.Parser
}

// NewGoogleVerifier fetches the JWKS once up front; keyfunc refreshes keys on
// unknown-kid lookups.
func NewGoogleVerifier(jwksURL, clientID string) (*GoogleVerifier, error) {
	jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{})
	if err != nil {
		return nil, fmt.Errorf("fetch google jwks: %w", err)
	}
	return &GoogleVerifier{
		jwks:     jwks,
		clientID: clientID,
		parser:   jwt.NewParser(jwt.WithValidMethods([]string{"RS256"})),
	}, nil
}

// Verify implements Verifier.
func (v *GoogleVerifier) Verify(credential string) (Profile, error) {
	claims := &googleClaims{}
	token, err := v.parser.ParseWithClaims(credential, claims, v.jwks.Keyfunc)
	if err != nil || !token.Valid {
		return Profile{}, ErrInvalidCredential
	}

	if v.clientID != "" && !containsAudience(claims.Audience, v.clientID) {
		return Profile{}, ErrInvalidCredential
	}
	if iss := claims.Issuer; iss != "accounts.google.com" && iss != "https://accounts.google.com" {
		return Profile{}, ErrInvalidCredential
	}
	if claims.Email == "" {
		return Profile{}, ErrInvalidCredential
	}

	return Profile{
		Name:    claims.Name,
		Email:   claims.Email,
		Picture: claims.Picture,
	}, nil
}

func containsAudience(aud jwt.ClaimStrings, want string) bool {
	for _, a := range aud {
		if a == want {
			return true
		}
	}
	return false
}

// DisabledVerifier rejects every credential. Used when Google sign-in is not
// configured so the route still answers with a clean 401.
type DisabledVerifier struct{}

func (DisabledVerifier) Verify(string) (Profile, error) {
	return Profile{}, ErrInvalidCredential
}
