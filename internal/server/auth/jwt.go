// Package auth implements token issuance and verification plus the account
// verifier that gates every authenticated operation.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/collabpack/internal/common"
	"github.com/dmitrijs2005/collabpack/internal/server/models"
	"github.com/golang-jwt/jwt/v5"
)

// Claims are the statements embedded in an issued token: the registered
// claim set plus the public account fields. The password never enters a
// token; Issue takes the AccountView projection, which has no such field.
type Claims struct {
	jwt.RegisteredClaims
	Email       string `json:"email"`
	Username    string `json:"username"`
	Phone       string `json:"phone"`
	UserGroup   string `json:"user_group"`
	AccountType string `json:"account_type"`
}

// Codec issues and verifies HS256 bearer tokens bound to a fixed issuer,
// subject and audience. Verification enforces both the embedded expiry and
// an independent maximum token age measured from the issued-at claim.
type Codec struct {
	secret   []byte
	issuer   string
	subject  string
	audience string
	validity time.Duration
	maxAge   time.Duration
}

// NewCodec builds a Codec. validity is the embedded expiry window and also
// serves as the maximum accepted token age on verification.
func NewCodec(secret []byte, issuer, subject, audience string, validity time.Duration) *Codec {
	return &Codec{
		secret:   secret,
		issuer:   issuer,
		subject:  subject,
		audience: audience,
		validity: validity,
		maxAge:   validity,
	}
}

// Issue signs a token embedding the public account fields. The expiry is
// fixed at the codec's validity window from the time of issuance.
func (c *Codec) Issue(view *models.AccountView) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.issuer,
			Subject:   c.subject,
			Audience:  jwt.ClaimStrings{c.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.validity)),
		},
		Email:       view.Email,
		Username:    view.Username,
		Phone:       view.Phone,
		UserGroup:   view.UserGroup,
		AccountType: view.AccountType,
	})

	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", err
	}

	return signed, nil
}

// Verify checks the token signature, issuer, audience, subject and the
// embedded expiry, then additionally rejects tokens whose issued-at is
// older than the maximum age. Both the expiry and the age window must
// hold; they are checked independently.
func (c *Codec) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(c.issuer),
		jwt.WithSubject(c.subject),
		jwt.WithAudience(c.audience),
		jwt.WithIssuedAt(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	if claims.IssuedAt == nil || time.Since(claims.IssuedAt.Time) > c.maxAge {
		return nil, common.ErrTokenExpired
	}

	return claims, nil
}
