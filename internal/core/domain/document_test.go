package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentity_Key(t *testing.T) {
	a := Identity{Origin: "https://example.org/regs.html", Name: "Reg A"}
	b := Identity{Origin: "https://example.com/regs.html", Name: "Reg A"}

	assert.NotEqual(t, a.Key(), b.Key(), "same name under different origins must be distinct")
	assert.Equal(t, a.Key(), Identity{Origin: a.Origin, Name: a.Name}.Key())
}

func TestIdentity_FileToken_Safe(t *testing.T) {
	id := Identity{Origin: "https://example.org/a", Name: "Reg A / Über §12"}
	token := id.FileToken()

	for _, r := range token {
		safe := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_'
		assert.True(t, safe, "unsafe rune %q in token %q", r, token)
	}
}

func TestIdentity_FileToken_NoCollision(t *testing.T) {
	// Sanitisation alone would map both names to the same token.
	a := Identity{Origin: "https://example.org/a", Name: "Reg A"}
	b := Identity{Origin: "https://example.org/a", Name: "Reg_A"}

	assert.NotEqual(t, a.FileToken(), b.FileToken())
}

func TestIdentity_FileToken_LongName(t *testing.T) {
	id := Identity{Origin: "https://example.org/a", Name: strings.Repeat("x", 500)}
	assert.Less(t, len(id.FileToken()), 80)
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "new", StatusNew.String())
	assert.Equal(t, "changed", StatusChanged.String())
	assert.Equal(t, "unchanged", StatusUnchanged.String())
	assert.Equal(t, "unknown", Status(99).String())
}

func TestSplitParagraphs(t *testing.T) {
	text := "Para1.\n\nPara2 mentions fees.\n\n\nPara3."
	paragraphs := SplitParagraphs(text)

	require.Len(t, paragraphs, 3)
	assert.Equal(t, "Para1.", paragraphs[0])
	assert.Equal(t, "Para2 mentions fees.", paragraphs[1])
	assert.Equal(t, "Para3.", paragraphs[2])
}

func TestSplitParagraphs_CRLF(t *testing.T) {
	paragraphs := SplitParagraphs("a\r\n\r\nb")

	require.Len(t, paragraphs, 2)
	assert.Equal(t, "a", paragraphs[0])
	assert.Equal(t, "b", paragraphs[1])
}

func TestSplitParagraphs_Empty(t *testing.T) {
	assert.Empty(t, SplitParagraphs(""))
	assert.Empty(t, SplitParagraphs("\n\n\n\n"))
}
