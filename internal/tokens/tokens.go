package tokens

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	jwt.RegisteredClaims
}

// UserID returns the numeric subject of the claims.
func (c *Claims) UserID() (uint, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return uint(id), nil
}

type Issued struct {
	Token     string
	JTI       string
	Hash      string
	ExpiresAt *time.Time
}

// Issuer signs opaque bearer secrets. A zero TTL issues tokens without expiry.
type Issuer struct {
	Secret []byte
	TTL    time.Duration
	Now    func() time.Time
}

func NewIssuer(secret []byte, ttl time.Duration) *Issuer {
	return &Issuer{Secret: secret, TTL: ttl, Now: time.Now}
}

func (i *Issuer) now() time.Time {
	if i.Now != nil {
		return i.Now()
	}
	return time.Now()
}

func (i *Issuer) Issue(userID uint) (*Issued, error) {
	if len(i.Secret) == 0 {
		return nil, errors.New("token secret is empty")
	}
	now := i.now()
	jti := NewJTI()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  strconv.FormatUint(uint64(userID), 10),
			ID:       jti,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}

	var exp *time.Time
	if i.TTL > 0 {
		e := now.Add(i.TTL)
		exp = &e
		claims.ExpiresAt = jwt.NewNumericDate(e)
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.Secret)
	if err != nil {
		return nil, err
	}

	return &Issued{Token: signed, JTI: jti, Hash: Sha256Hex(signed), ExpiresAt: exp}, nil
}

func (i *Issuer) Parse(tokenStr string) (*Claims, error) {
	return ClaimsFromToken(tokenStr, i.Secret)
}

func ClaimsFromToken(tokenStr string, secret []byte) (*Claims, error) {
	var claims Claims
	tkn, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !tkn.Valid {
		return nil, ErrInvalidToken
	}
	if claims.ID == "" {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}

func Sha256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// Matches compares a presented secret with a stored digest in constant time.
func Matches(tokenStr, digest string) bool {
	return subtle.ConstantTimeCompare([]byte(Sha256Hex(tokenStr)), []byte(digest)) == 1
}

func NewJTI() string { return uuid.NewString() }
