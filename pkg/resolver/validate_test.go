package resolver

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDomainNameValid(t *testing.T) {
	valid := []string{
		"skynetlabs.com",
		"sub.skynetlabs.com",
		"deeply.nested.sub.domain.example.org",
		"a.co",
		"foo-bar.com",
		"xn--bcher-kva.example",
		"123.com",
	}

	for _, name := range valid {
		assert.NoErrorf(t, ValidateDomainName(name), "expected %q to be valid", name)
	}
}

func TestValidateDomainNameInvalid(t *testing.T) {
	invalid := []string{
		"",
		"xyz",
		".com",
		"com.",
		"invalid--domain.com",
		"-foo.com",
		"foo-.com",
		"foo.-bar.com",
		"foo_bar.com",
		"foo..com",
		"foo.com/path",
		"foo bar.com",
		strings.Repeat("a", 64) + ".com",
		strings.Repeat("a.", 127) + strings.Repeat("b", 10),
	}

	for _, name := range invalid {
		err := ValidateDomainName(name)
		require.Errorf(t, err, "expected %q to be invalid", name)
		assert.Equal(t, KindInvalidRequest, KindOf(err))
	}
}

func TestValidateDomainNameErrorMentionsInput(t *testing.T) {
	err := ValidateDomainName("xyz")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "xyz")
}
