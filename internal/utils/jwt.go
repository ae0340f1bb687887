package utils // package utils provides helper functions for session token creation and hashing

import (
    "crypto/sha256" // SHA‑256 hashing for the revocation denylist
    "encoding/hex"  // hex encoding for digests
    "errors"        // sentinel error for invalid tokens
    "time"          // time utilities for expirations

    "github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens

    "github.com/diabeto/patient-registry/internal/model"
)

// SessionToken represents a signed HS256 JWT that backs one browser
// session.  The Token field contains the serialized JWT placed in an
// HttpOnly cookie.  Exp records the UTC expiration so callers can set a
// matching cookie lifetime and denylist TTL on logout.
type SessionToken struct {
    Token string    // the serialized JWT string
    Exp   time.Time // the UTC expiration time
}

// ErrInvalidSession is returned when a session cookie fails signature,
// expiry or claim validation.  Callers treat it as "not authenticated".
var ErrInvalidSession = errors.New("invalid session token")

// NewSessionToken builds and signs an HS256 JWT for a physician.  It takes
// the signing secret, the physician's id and username, and a TTL in
// minutes.  The JWT carries the subject (sub), the display username,
// expiration (exp) and issued at (iat).
func NewSessionToken(secret string, physicianID uint64, username string, ttlMin int) (SessionToken, error) {
    exp := time.Now().UTC().Add(time.Duration(ttlMin) * time.Minute)
    claims := jwt.MapClaims{
        "sub":      physicianID,
        "username": username,
        "exp":      exp.Unix(),
        "iat":      time.Now().UTC().Unix(),
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    signed, err := t.SignedString([]byte(secret))
    if err != nil {
        return SessionToken{}, err
    }
    return SessionToken{Token: signed, Exp: exp}, nil
}

// ParseSessionToken validates a raw session cookie value and extracts the
// typed session identity plus the token expiry.  Any parse, signature or
// claim failure collapses into ErrInvalidSession so the middleware has a
// single "redirect to login" path.
func ParseSessionToken(secret, raw string) (model.Session, time.Time, error) {
    tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
        // Reject tokens signed with a different algorithm.
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, ErrInvalidSession
        }
        return []byte(secret), nil
    })
    if err != nil || !tok.Valid {
        return model.Session{}, time.Time{}, ErrInvalidSession
    }
    claims, ok := tok.Claims.(jwt.MapClaims)
    if !ok {
        return model.Session{}, time.Time{}, ErrInvalidSession
    }
    sub, ok := claims["sub"].(float64) // JWT numbers decode as float64
    if !ok || sub <= 0 {
        return model.Session{}, time.Time{}, ErrInvalidSession
    }
    username, _ := claims["username"].(string)
    exp, err := tok.Claims.GetExpirationTime()
    if err != nil || exp == nil {
        return model.Session{}, time.Time{}, ErrInvalidSession
    }
    return model.Session{PhysicianID: uint64(sub), Username: username}, exp.Time, nil
}

// HashSessionRaw returns the SHA‑256 hash of the raw session cookie value
// as a hex string.  Only the hash enters the Redis denylist so a leaked
// denylist cannot be replayed as live sessions.
func HashSessionRaw(raw string) string {
    sum := sha256.Sum256([]byte(raw))
    return hex.EncodeToString(sum[:])
}
