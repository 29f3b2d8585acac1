package token

import (
	"time"

	"github.com/google/uuid"
)

type TokenType string

// Access and refresh tokens are both stored as BEARER; the embedded
// token_type claim distinguishes them on the wire.
const TypeBearer TokenType = "BEARER"

// Token is a revocable session record for an issued JWT. The JWT itself
// is self-describing; these flags let the server invalidate it ahead of
// its natural expiry.
type Token struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	Token     string    `db:"token" json:"token"`
	TokenType TokenType `db:"token_type" json:"token_type"`
	Expired   bool      `db:"expired" json:"expired"`
	Revoked   bool      `db:"revoked" json:"revoked"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Live reports whether the record is still usable for authentication.
func (t *Token) Live() bool {
	return !t.Expired && !t.Revoked
}
