package cli

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rdr(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}

func stubTerminal(t *testing.T, tty bool, pw []byte, err error) {
	t.Helper()
	origRead, origTTY := readPassword, isTerminal
	t.Cleanup(func() { readPassword, isTerminal = origRead, origTTY })

	isTerminal = func(int) bool { return tty }
	readPassword = func(int) ([]byte, error) { return pw, err }
}

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("  hello world \n"), "Name?", &out)
	require.NoError(t, err)
	assert.Equal(t, "hello world", got)
	assert.Equal(t, "Name?\n> ", out.String())
}

func TestGetSimpleTextEOF(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("lastline"), "Name?", &out)
	require.NoError(t, err)
	assert.Equal(t, "lastline", got)

	_, err = GetSimpleText(rdr(""), "Name?", &out)
	require.Error(t, err)
}

func TestGetTextWithDefault(t *testing.T) {
	var out bytes.Buffer
	got, err := GetTextWithDefault(rdr("\n"), "Species", "Dog", &out)
	require.NoError(t, err)
	assert.Equal(t, "Dog", got)
	assert.Contains(t, out.String(), "Species [Dog]")

	got, err = GetTextWithDefault(rdr("Cat\n"), "Species", "Dog", &out)
	require.NoError(t, err)
	assert.Equal(t, "Cat", got)
}

func TestGetMultiline_DoubleEnter(t *testing.T) {
	var out bytes.Buffer
	got, err := GetMultiline(rdr("a\nb\n\n\n"), "Enter text", &out)
	require.NoError(t, err)
	assert.Equal(t, "a\nb", got)

	got, err = GetMultiline(rdr("tail"), "Enter text", &out)
	require.NoError(t, err)
	assert.Equal(t, "tail", got)
}

func TestGetPassword(t *testing.T) {
	var out bytes.Buffer

	stubTerminal(t, false, nil, nil)
	pw, err := GetPassword(rdr("secret1\n"), "Password", &out)
	require.NoError(t, err)
	assert.Equal(t, "secret1", string(pw))

	stubTerminal(t, true, []byte("hidden"), nil)
	pw, err = GetPassword(rdr(""), "Password", &out)
	require.NoError(t, err)
	assert.Equal(t, "hidden", string(pw))

	stubTerminal(t, true, nil, errors.New("boom"))
	_, err = GetPassword(rdr(""), "Password", &out)
	require.Error(t, err)
}

func TestConfirm(t *testing.T) {
	var out bytes.Buffer
	for in, want := range map[string]bool{"y\n": true, "YES\n": true, "n\n": false, "\n": false} {
		got, err := Confirm(rdr(in), "Delete?", &out)
		require.NoError(t, err)
		assert.Equal(t, want, got, in)
	}
}
