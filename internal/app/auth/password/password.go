package password

import (
	"github.com/alexedwards/argon2id"
	customErrors "github.com/aurelin/auth-service/internal/domain/auth/errors"
)

var argonParams = &argon2id.Params{
	Memory:      64 * 1024, // 64 MiB
	Iterations:  2,
	Parallelism: 4,
	SaltLength:  16,
	KeyLength:   32,
}

// Hasher produces and checks salted argon2id records. An optional pepper is
// appended to every password before hashing; it never leaves the process.
type Hasher struct {
	pepper string
}

func NewHasher(pepper string) *Hasher {
	return &Hasher{pepper: pepper}
}

// Hash returns a PHC-encoded record with a fresh random salt. Repeated calls
// on the same password therefore never produce equal records.
func (h *Hasher) Hash(password string) (string, error) {
	if password == "" {
		return "", customErrors.NewInvalidArgument("empty password")
	}
	record, err := argon2id.CreateHash(password+h.pepper, argonParams)
	if err != nil {
		return "", customErrors.WrapInternal(err, "Hash")
	}
	return record, nil
}

// Verify recomputes the hash with the salt embedded in record and compares in
// constant time. A non-matching password is (false, nil); only a record that
// cannot be parsed is reported as an error.
func (h *Hasher) Verify(password, record string) (bool, error) {
	ok, err := argon2id.ComparePasswordAndHash(password+h.pepper, record)
	if err != nil {
		return false, customErrors.WrapInternal(err, "Verify")
	}
	return ok, nil
}
