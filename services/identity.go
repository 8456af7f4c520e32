package services

import (
	"crypto/rand"
	"encoding/hex"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionTokenLength is the hex length of a generated anonymous cart token.
const SessionTokenLength = 32

// CartIdentity is the key a cart is stored under: either an authenticated
// user id or an anonymous session token, never both. The interface is
// sealed so callers must handle both variants explicitly.
type CartIdentity interface {
	cartIdentity()
}

type UserIdentity struct {
	UserID primitive.ObjectID
}

type SessionIdentity struct {
	SessionID string
}

func (UserIdentity) cartIdentity()    {}
func (SessionIdentity) cartIdentity() {}

// ResolveCartIdentity picks the identity for an incoming request. An
// authenticated user always wins over any session header. When neither is
// present a new session token is generated and generated is true; the
// transport layer must echo it back to the client or every request will
// get a fresh anonymous cart.
func ResolveCartIdentity(userID *primitive.ObjectID, sessionHeader string) (CartIdentity, bool) {
	if userID != nil {
		return UserIdentity{UserID: *userID}, false
	}
	if sessionHeader != "" {
		return SessionIdentity{SessionID: sessionHeader}, false
	}
	return SessionIdentity{SessionID: NewSessionToken()}, true
}

// NewSessionToken returns a fresh cryptographically random hex token.
func NewSessionToken() string {
	buf := make([]byte, SessionTokenLength/2)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand.Read never fails as of Go 1.24.
		panic(err)
	}
	return hex.EncodeToString(buf)
}
