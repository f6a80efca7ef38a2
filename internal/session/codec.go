package session

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

// Identity is the claim set embedded in a credential. It hydrates the
// session for display purposes only and is never an authorization input;
// the server re-verifies the signature on every request.
type Identity struct {
	Subject   string `mapstructure:"_id"`
	Name      string `mapstructure:"name"`
	Email     string `mapstructure:"email"`
	Role      string `mapstructure:"role"`
	IssuedAt  int64  `mapstructure:"iat"`
	ExpiresAt int64  `mapstructure:"exp"`
}

// Expired reports whether the identity's credential has passed its expiry.
// An identity without an exp claim never expires locally.
func (i *Identity) Expired(now time.Time) bool {
	return i.ExpiresAt > 0 && now.Unix() >= i.ExpiresAt
}

// MalformedCredentialError indicates the credential does not carry a
// decodable claim payload.
type MalformedCredentialError struct {
	Reason string
}

func (e *MalformedCredentialError) Error() string {
	return "malformed credential: " + e.Reason
}

// Decode extracts the claim payload of a bearer credential without
// verifying its signature. Pure: the same credential always yields the
// same Identity.
func Decode(credential string) (*Identity, error) {
	parser := jwt.NewParser()
	token, _, err := parser.ParseUnverified(credential, jwt.MapClaims{})
	if err != nil {
		return nil, &MalformedCredentialError{Reason: err.Error()}
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, &MalformedCredentialError{Reason: "unexpected claim payload"}
	}

	var identity Identity
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &identity,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "build claims decoder")
	}
	if err := decoder.Decode(map[string]interface{}(claims)); err != nil {
		return nil, &MalformedCredentialError{Reason: err.Error()}
	}

	return &identity, nil
}
