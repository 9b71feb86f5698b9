package random

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURLSafeToken(t *testing.T) {
	tok, err := URLSafeToken(18)
	require.NoError(t, err)

	assert.Len(t, tok, 24)
	raw, err := base64.RawURLEncoding.DecodeString(tok)
	require.NoError(t, err)
	assert.Len(t, raw, 18)
}

func TestURLSafeToken_Unique(t *testing.T) {
	a := MustURLSafeToken(8)
	b := MustURLSafeToken(8)

	assert.NotEqual(t, a, b)
	assert.Len(t, a, 11)
}

func TestURLSafeToken_InvalidLength(t *testing.T) {
	_, err := URLSafeToken(0)

	assert.Error(t, err)
}
