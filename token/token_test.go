package token_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ud2/stackc/token"
)

func TestTokenCarriesByteRange(t *testing.T) {
	tok := token.Token{Type: token.WORD, Literal: "PUS", Start: 4, End: 7}
	assert.Equal(t, token.WORD, tok.Type)
	assert.Equal(t, "PUS", tok.Literal)
	assert.Equal(t, 3, tok.End-tok.Start)
}

func TestZeroValueIsEOFRange(t *testing.T) {
	var tok token.Token
	assert.Equal(t, 0, tok.Start)
	assert.Equal(t, 0, tok.End)
	assert.Equal(t, "", tok.Literal)
}
