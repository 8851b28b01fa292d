// Package reference mints the unique token that identifies one order
// lifecycle end-to-end. Tokens are minted exactly once per logical order:
// callers that already hold a reference do not ask again.
package reference

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/shipline/shipline/internal/platform/db"
	"github.com/shipline/shipline/internal/shared"
)

// Issued is the result of minting one reference.
type Issued struct {
	ID        int64
	Reference string
}

// Generator allocates references inside the caller's transaction so a failed
// order insert also rolls the token back.
type Generator struct{}

// NewGenerator returns a Generator.
func NewGenerator() *Generator {
	return &Generator{}
}

// Issue mints a token for the given identity and persists the issuing user
// and account. Fails with shared.ErrAllocation when the store rejects the
// insert; the caller must abort the enclosing operation.
func (g *Generator) Issue(ctx context.Context, tx pgx.Tx, user, accountNo string) (Issued, error) {
	token := newToken()
	var id int64
	err := tx.QueryRow(ctx,
		`INSERT INTO order_reference (reference, issued_user, user_acc, order_status, created_at)
		 VALUES ($1, $2, $3, 0, NOW())
		 RETURNING id`,
		token, user, accountNo,
	).Scan(&id)
	if err != nil {
		if db.IsUniqueViolation(err) {
			// Token collision is practically impossible but the constraint
			// still backs the invariant.
			return Issued{}, fmt.Errorf("%w: token collision", shared.ErrAllocation)
		}
		return Issued{}, fmt.Errorf("%w: %v", shared.ErrAllocation, err)
	}
	return Issued{ID: id, Reference: token}, nil
}

// newToken builds a PR-YYMMDD-XXXXXXXX token. The date prefix keeps tokens
// sortable for staff; the uuid fragment guarantees uniqueness.
func newToken() string {
	fragment := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("PR-%s-%s", time.Now().Format("060102"), fragment)
}
