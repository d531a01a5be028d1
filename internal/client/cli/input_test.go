package cli

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/lostfound/internal/client/models"
)

func rdr(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}

func stubTerminal(t *testing.T, terminal bool, pw string, err error) {
	t.Helper()
	oldTerm, oldRead := isTerminal, readPassword
	isTerminal = func(int) bool { return terminal }
	readPassword = func(int) ([]byte, error) { return []byte(pw), err }
	t.Cleanup(func() { isTerminal, readPassword = oldTerm, oldRead })
}

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("  hello world \n"), "Name?", &out)
	require.NoError(t, err)
	require.Equal(t, "hello world", got)
	require.Equal(t, "Name?\n> ", out.String())
}

func TestGetSimpleText_EOF(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("lastline"), "Name?", &out)
	require.NoError(t, err)
	require.Equal(t, "lastline", got)

	_, err = GetSimpleText(rdr(""), "Name?", &out)
	require.Error(t, err)
}

func TestGetPassword_Terminal(t *testing.T) {
	stubTerminal(t, true, "s3cret-pw", nil)
	var out bytes.Buffer
	got, err := GetPassword(rdr("ignored\n"), "Password", &out)
	require.NoError(t, err)
	require.Equal(t, "s3cret-pw", got)
	require.Equal(t, "Password: \n", out.String())
}

func TestGetPassword_TerminalError(t *testing.T) {
	stubTerminal(t, true, "", errors.New("boom"))
	var out bytes.Buffer
	_, err := GetPassword(rdr(""), "Password", &out)
	require.Error(t, err)
}

func TestGetPassword_PipedInput(t *testing.T) {
	stubTerminal(t, false, "", errors.New("must not be called"))
	var out bytes.Buffer
	got, err := GetPassword(rdr("piped-pw\n"), "Password", &out)
	require.NoError(t, err)
	require.Equal(t, "piped-pw", got)
}

func TestGetLines_StopsOnEmptyLine(t *testing.T) {
	var out bytes.Buffer
	got, err := GetLines(rdr("a.jpg\n b.png \n\nnext\n"), "Images", &out)
	require.NoError(t, err)
	require.Equal(t, []string{"a.jpg", "b.png"}, got)
}

func TestGetLines_EOFWithoutNewline(t *testing.T) {
	var out bytes.Buffer
	got, err := GetLines(rdr("only"), "Images", &out)
	require.NoError(t, err)
	require.Equal(t, []string{"only"}, got)
}

func TestGetDetails(t *testing.T) {
	var out bytes.Buffer
	got, err := GetDetails(rdr("color=black\nbrand = Sony\n\n"), "Details", &out)
	require.NoError(t, err)
	require.Equal(t, []models.Detail{{Key: "color", Value: "black"}, {Key: "brand", Value: "Sony"}}, got)

	_, err = GetDetails(rdr("nonsense\n\n"), "Details", &out)
	require.ErrorIs(t, err, models.ErrIncorrectDetail)
}
