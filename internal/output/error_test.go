package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	walleterr "github.com/mrz1836/devwallet/pkg/errors"
)

func TestFormatError_JSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := walleterr.WithSuggestion(
		walleterr.WithDetails(walleterr.ErrCooldownActive, map[string]string{
			"remaining_seconds": "42",
		}),
		"wait for the cooldown to elapse",
	)
	require.NoError(t, FormatError(&buf, err, FormatJSON))

	var out ErrorOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "COOLDOWN_ACTIVE", out.Error.Code)
	assert.Equal(t, "42", out.Error.Details["remaining_seconds"])
	assert.Equal(t, "wait for the cooldown to elapse", out.Error.Suggestion)
	assert.Equal(t, walleterr.ExitInput, out.Error.ExitCode)
}

func TestFormatError_Text(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := walleterr.WithSuggestion(walleterr.ErrUserRejected, "approve the prompt in the wallet")
	require.NoError(t, FormatError(&buf, err, FormatText))

	text := buf.String()
	assert.Contains(t, text, "request rejected by user")
	assert.Contains(t, text, "Suggestion: approve the prompt in the wallet")
}

func TestFormatError_GenericError(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, FormatError(&buf, errors.New("plain failure"), FormatJSON))

	var out ErrorOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "GENERAL_ERROR", out.Error.Code)
	assert.Equal(t, "plain failure", out.Error.Message)
}

func TestFormatError_NilError(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, FormatError(&buf, nil, FormatText))
	assert.Zero(t, buf.Len())
}

func TestFormatSuccess(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, FormatSuccess(&buf, "configuration written", FormatJSON))

	var out map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "success", out["status"])
	assert.Equal(t, "configuration written", out["message"])

	buf.Reset()
	require.NoError(t, FormatSuccess(&buf, "configuration written", FormatText))
	assert.Equal(t, "configuration written\n", buf.String())
}

func TestFormatter_WriterExposesDestination(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	f := NewFormatter(FormatText, &buf)
	require.NoError(t, FormatSuccess(f.Writer(), "done", f.Format()))
	assert.Equal(t, "done\n", buf.String())
}

func TestExplorerTxURL(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		"https://sepolia.etherscan.io/tx/0xabc",
		ExplorerTxURL("https://sepolia.etherscan.io", "0xabc"),
	)
	assert.Equal(t,
		"https://sepolia.etherscan.io/tx/0xabc",
		ExplorerTxURL("https://sepolia.etherscan.io/", "0xabc"),
	)
	assert.Empty(t, ExplorerTxURL("", "0xabc"))
	assert.Empty(t, ExplorerTxURL("https://sepolia.etherscan.io", ""))
}

func TestShortAddress(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "0x4AAb...8964", ShortAddress("0x4AAb49557de7AC638A261d8F11447733c38b8964"))
	assert.Equal(t, "0xshort", ShortAddress("0xshort"))
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	assert.Equal(t, FormatJSON, ParseFormat("json"))
	assert.Equal(t, FormatText, ParseFormat(" TEXT "))
	assert.Equal(t, FormatAuto, ParseFormat("anything"))
}

func TestFormatter_PrintJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	f := NewFormatter(FormatJSON, &buf)
	require.NoError(t, f.Print(map[string]string{"status": "ok"}))
	assert.True(t, strings.Contains(buf.String(), `"status": "ok"`))
}
