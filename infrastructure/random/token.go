package random

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// URLSafeToken returns n random bytes encoded as unpadded base64url.
func URLSafeToken(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("token length must be positive, got %d", n)
	}
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// MustURLSafeToken is URLSafeToken for process start-up, where failure is fatal.
func MustURLSafeToken(n int) string {
	tok, err := URLSafeToken(n)
	if err != nil {
		panic(err)
	}
	return tok
}
