package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerate(t *testing.T) {
	assert.Equal(t, "hello-world", Generate("Hello   World!"))
	assert.Equal(t, "go-1-24-released", Generate("Go 1.24 Released"))
	assert.Equal(t, "leading-and-trailing", Generate("  ...Leading and Trailing???  "))
	assert.Equal(t, "", Generate("!!!"))
}
