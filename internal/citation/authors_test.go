package citation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAuthors_TrimsAndPreservesOrder(t *testing.T) {
	got, err := NormalizeAuthors([]string{"  Ada Lovelace ", "Charles Babbage"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Ada Lovelace", "Charles Babbage"}, got)
}

func TestNormalizeAuthors_DropsTrailingBlanks(t *testing.T) {
	got, err := NormalizeAuthors([]string{"Ada Lovelace", "", "  "})
	require.NoError(t, err)
	assert.Equal(t, []string{"Ada Lovelace"}, got)
}

func TestNormalizeAuthors_InteriorBlankIsError(t *testing.T) {
	_, err := NormalizeAuthors([]string{"Ada Lovelace", " ", "Charles Babbage"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "entry 2")
}

func TestNormalizeAuthors_EmptyInput(t *testing.T) {
	for _, raw := range [][]string{nil, {}, {""}, {"  ", ""}} {
		_, err := NormalizeAuthors(raw)
		assert.Error(t, err)
	}
}

func TestNormalizeAuthors_Charset(t *testing.T) {
	ok := []string{"José Müller", "Mary-Jane O'Brien", "J. R. R. Tolkien"}
	for _, name := range ok {
		_, err := NormalizeAuthors([]string{name})
		assert.NoError(t, err, name)
	}

	bad := []string{"Author 2", "a@b", "Smith #1"}
	for _, name := range bad {
		_, err := NormalizeAuthors([]string{name})
		assert.Error(t, err, name)
	}
}

func TestNormalizeAuthors_LengthCap(t *testing.T) {
	_, err := NormalizeAuthors([]string{strings.Repeat("a", maxAuthorLen+1)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "maximum length")
}
