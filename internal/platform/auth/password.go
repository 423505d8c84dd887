package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword derives a one-way digest from a plaintext password. The
// plaintext is never stored; cost is validated by config before it gets here.
func HashPassword(password string, cost int) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// VerifyPassword reports whether the password matches the stored digest.
func VerifyPassword(digest, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
