package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
)

const hashDateLayout = "2006-01-02"

func hashFields(fields ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(fields, "|")))
	return hex.EncodeToString(sum[:])
}

// ImportHash is the duplicate-detection key of an imported transaction.
// Field order and the integer cent amount are fixed; changing either breaks
// idempotency against rows imported earlier.
func ImportHash(accountID uuid.UUID, date time.Time, description string, amount int64, typ TransactionType) string {
	return hashFields(
		accountID.String(),
		Day(date).Format(hashDateLayout),
		strings.TrimSpace(description),
		strconv.FormatInt(amount, 10),
		string(typ),
	)
}

// SplitHash is the uniqueness key of a split child. nonce keeps otherwise
// identical lines of one statement apart.
func SplitHash(parentID uuid.UUID, c SplitCandidate, nonce string) string {
	return hashFields(
		"split",
		parentID.String(),
		Day(c.Date).Format(hashDateLayout),
		strings.TrimSpace(c.Description),
		strconv.FormatInt(c.Amount, 10),
		string(c.Type),
		nonce,
	)
}
