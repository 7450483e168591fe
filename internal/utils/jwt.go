package utils // package utils provides helper functions for token creation and hashing

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
	"github.com/google/uuid"       // jti claim so equal-claim tokens are still distinct
)

// Sentinel errors returned by VerifyToken. Callers distinguish an expired
// token from every other verification failure because the reset flow counts
// both the same but reports them through one error path, while the session
// middleware treats them identically.
var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// Claims is the verified content of a session or reset token: the subject
// user and the role captured at issue time.
type Claims struct {
	UserID uint64
	Role   string
}

// IssuedToken bundles a signed token string with its expiry so callers can
// persist or report the expiry without re-parsing the token.
type IssuedToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// NewToken builds and signs an HS256 JWT for a user. The JWT carries the
// standard claims sub, role, exp, iat plus a random jti. The jti matters
// for reset tokens: issuing a replacement token within the same second must
// still produce a different string, otherwise overwriting the stored token
// would not invalidate the old link.
func NewToken(secret string, userID uint64, role string, ttl time.Duration) (IssuedToken, error) {
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := jwt.MapClaims{
		"sub":  strconv.FormatUint(userID, 10),
		"role": role,
		"exp":  exp.Unix(),
		"iat":  now.Unix(),
		"jti":  uuid.NewString(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return IssuedToken{}, err
	}
	return IssuedToken{Token: signed, Exp: exp}, nil
}

// VerifyToken parses and validates a signed token. It returns the embedded
// claims on success, ErrTokenExpired when the token is past its exp claim,
// and ErrTokenInvalid for every other failure (bad signature, wrong
// algorithm, malformed input, unparsable claims).
func VerifyToken(secret, raw string) (Claims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrTokenInvalid
	}
	if !tok.Valid {
		return Claims{}, ErrTokenInvalid
	}
	return claimsFrom(tok)
}

// PeekSubject extracts the subject user ID without verifying the signature
// or expiry. The reset flow uses it to resolve which account a failed
// confirmation attempt should be charged to: an expired or forged token
// still names its subject, and both count as failures against that account.
func PeekSubject(raw string) (uint64, error) {
	tok, _, err := jwt.NewParser().ParseUnverified(raw, jwt.MapClaims{})
	if err != nil {
		return 0, ErrTokenInvalid
	}
	c, err := claimsFrom(tok)
	if err != nil {
		return 0, err
	}
	return c.UserID, nil
}

func claimsFrom(tok *jwt.Token) (Claims, error) {
	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrTokenInvalid
	}
	var c Claims
	switch sub := mc["sub"].(type) {
	case string:
		id, err := strconv.ParseUint(sub, 10, 64)
		if err != nil {
			return Claims{}, ErrTokenInvalid
		}
		c.UserID = id
	case float64:
		// numeric subs appear when tokens were minted by older builds
		c.UserID = uint64(sub)
	default:
		return Claims{}, ErrTokenInvalid
	}
	if role, ok := mc["role"].(string); ok {
		c.Role = role
	}
	return c, nil
}
