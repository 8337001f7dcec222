package natives

import (
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"rslox/internal/value"
)

// nativeUUID grounds uuid() on github.com/google/uuid, the same library the
// teacher's go.mod carries and other_examples/infastin-toy exercises.
func nativeUUID(args []value.Value) (value.Value, error) {
	return value.String(uuid.New().String()), nil
}

// nativeHash grounds hash(password) on golang.org/x/crypto/bcrypt, promoted
// from an indirect to a direct dependency of the teacher's crypto stack.
func nativeHash(args []value.Value) (value.Value, error) {
	pw, err := wantString(args[0], "hash()")
	if err != nil {
		return nil, err
	}
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return value.String(h), nil
}

func nativeHashVerify(args []value.Value) (value.Value, error) {
	h, err := wantString(args[0], "hashVerify()")
	if err != nil {
		return nil, err
	}
	pw, err := wantString(args[1], "hashVerify()")
	if err != nil {
		return nil, err
	}
	return value.Bool(bcrypt.CompareHashAndPassword([]byte(h), []byte(pw)) == nil), nil
}
