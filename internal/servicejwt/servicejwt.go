// Package servicejwt signs and verifies the short-lived tokens the gateway
// presents to department microservices.
package servicejwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	IssuerNexus    = "NEXUS"
	ServiceGateway = "NEXUS_GATEWAY"
)

var (
	ErrServiceTokenMissing = errors.New("service token missing")
	ErrServiceTokenExpired = errors.New("service token expired")
	ErrServiceTokenInvalid = errors.New("service token invalid")
	ErrWrongCaller         = errors.New("service token from unexpected caller")
	ErrWrongDepartment     = errors.New("service token not issued for this department")
)

type Claims struct {
	IssuedBy   string `json:"issuer"`
	Service    string `json:"service"`
	Department string `json:"department"`
	jwt.RegisteredClaims
}

type Signer struct {
	secret []byte
	ttl    time.Duration
}

func NewSigner(secret string, ttl time.Duration) *Signer {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Signer{secret: []byte(secret), ttl: ttl}
}

// Sign issues a token scoped to one department code.
func (s *Signer) Sign(department string) (string, error) {
	now := time.Now()
	claims := &Claims{
		IssuedBy:   IssuerNexus,
		Service:    ServiceGateway,
		Department: department,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign service token: %w", err)
	}
	return token, nil
}

type Verifier struct {
	secret     []byte
	department string
}

func NewVerifier(secret, department string) *Verifier {
	return &Verifier{secret: []byte(secret), department: department}
}

func (v *Verifier) Department() string {
	return v.department
}

// Verify checks signature and expiry first, then caller identity, then the
// department scope.
func (v *Verifier) Verify(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrServiceTokenMissing
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrServiceTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrServiceTokenInvalid, err)
	}

	if claims.IssuedBy != IssuerNexus || claims.Service != ServiceGateway {
		return nil, ErrWrongCaller
	}
	if claims.Department != v.department {
		return nil, ErrWrongDepartment
	}
	return claims, nil
}
