package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	walleterr "github.com/mrz1836/devwallet/pkg/errors"
)

// ErrorOutput represents a structured error for JSON output.
type ErrorOutput struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error details.
type ErrorDetail struct {
	Code       string            `json:"code"`
	Message    string            `json:"message"`
	Details    map[string]string `json:"details,omitempty"`
	Suggestion string            `json:"suggestion,omitempty"`
	ExitCode   int               `json:"exit_code"`
}

// FormatError formats an error for display.
func FormatError(w io.Writer, err error, format Format) error {
	if err == nil {
		return nil
	}

	if format == FormatJSON {
		return formatErrorJSON(w, err)
	}
	return formatErrorText(w, err)
}

// formatErrorJSON outputs error in JSON format.
func formatErrorJSON(w io.Writer, err error) error {
	var we *walleterr.WalletError
	if errors.As(err, &we) {
		out := ErrorOutput{
			Error: ErrorDetail{
				Code:       we.Code,
				Message:    we.Message,
				Details:    we.Details,
				Suggestion: we.Suggestion,
				ExitCode:   we.ExitCode,
			},
		}
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(out)
	}

	// Generic error
	out := ErrorOutput{
		Error: ErrorDetail{
			Code:     "GENERAL_ERROR",
			Message:  err.Error(),
			ExitCode: walleterr.ExitGeneral,
		},
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

// formatErrorText outputs error in text format.
func formatErrorText(w io.Writer, err error) error {
	var sb strings.Builder

	var we *walleterr.WalletError
	if errors.As(err, &we) {
		sb.WriteString(fmt.Sprintf("Error: %s\n", we.Message))

		if len(we.Details) > 0 {
			sb.WriteString("\nDetails:\n")
			for k, v := range we.Details {
				sb.WriteString(fmt.Sprintf("  %s: %s\n", k, v))
			}
		}

		if we.Suggestion != "" {
			sb.WriteString(fmt.Sprintf("\nSuggestion: %s\n", we.Suggestion))
		}
	} else {
		sb.WriteString(fmt.Sprintf("Error: %s\n", err.Error()))
	}

	_, writeErr := w.Write([]byte(sb.String()))
	return writeErr
}

// FormatSuccess formats a success message.
func FormatSuccess(w io.Writer, message string, format Format) error {
	if format == FormatJSON {
		out := map[string]string{"status": "success", "message": message}
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(out)
	}
	_, err := fmt.Fprintln(w, message)
	return err
}
