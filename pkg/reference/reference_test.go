package reference_test

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/warenwelt-api/pkg/reference"
)

func TestFormats(t *testing.T) {
	assert.Regexp(t, regexp.MustCompile(`^PAY-[0-9A-F]{10}$`), reference.Payout())
	assert.Regexp(t, regexp.MustCompile(`^TRX-[0-9A-F]{12}$`), reference.Transaction())
	assert.Regexp(t, regexp.MustCompile(`^RC-[0-9A-F]{8}$`), reference.Contract())
}

func TestRandom_ClampsLength(t *testing.T) {
	assert.Len(t, reference.Random("X", 100), 33)
}

func TestRandom_Unique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 1000; i++ {
		ref := reference.Payout()
		assert.False(t, seen[ref])
		seen[ref] = true
	}
}
