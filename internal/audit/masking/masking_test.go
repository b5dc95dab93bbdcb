package masking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskTail(t *testing.T) {
	assert.Equal(t, "", MaskTail(""))
	assert.Equal(t, "****", MaskTail("123"))
	assert.Equal(t, "****4567", MaskTail("0541234567"))
	assert.Equal(t, "****7890", MaskTail("  4111111111117890  "))
}

func TestMaskMetadata(t *testing.T) {
	out := MaskMetadata(map[string]any{
		"phone":  "0541234567",
		"method": "credit",
		"client": map[string]any{
			"email": "dana@example.com",
			"name":  "Dana",
		},
	})

	assert.Equal(t, "****4567", out["phone"])
	assert.Equal(t, "credit", out["method"])
	nested, ok := out["client"].(map[string]any)
	assert.True(t, ok)
	assert.Equal(t, "****.com", nested["email"])
	assert.Equal(t, "Dana", nested["name"])
}

func TestMaskMetadataEmpty(t *testing.T) {
	assert.Nil(t, MaskMetadata(nil))
	assert.Nil(t, MaskMetadata(map[string]any{"": "ignored"}))
}
