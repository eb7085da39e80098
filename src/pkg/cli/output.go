package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"meilikit/src/pkg/consoleutil"
	"meilikit/src/pkg/meili"
)

// printJSON writes v indented, followed by a newline
func printJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// render prints v as JSON when requested, otherwise calls human
func (a *app) render(w io.Writer, v interface{}, human func() string) error {
	if a.cfg != nil && a.cfg.Output.JSON {
		return printJSON(w, v)
	}
	_, err := fmt.Fprint(w, human())
	return err
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(time.RFC3339)
}

// DescribeError renders err for the terminal, adding hints for the
// failures users can fix themselves.
func DescribeError(err error) string {
	var apiErr *meili.Error
	if !errors.As(err, &apiErr) {
		return consoleutil.FormatError(err.Error()) + "\n"
	}

	details := ""
	if apiErr.StatusCode != 0 {
		details = fmt.Sprintf("%s %s -> %d", apiErr.Method, apiErr.Path, apiErr.StatusCode)
		if apiErr.Code != "" {
			details += " (" + apiErr.Code + ")"
		}
	}
	if apiErr.TraceID != "" {
		details += " trace_id=" + apiErr.TraceID
	}

	var suggestions []string
	switch apiErr.Kind {
	case meili.KindAuth:
		suggestions = []string{
			"Pass a key with --api-key or set MEILIKIT_SERVER_API_KEY",
			"Introspection routes (version, stats, sys-info, keys) need the master key",
		}
	case meili.KindCommunication:
		suggestions = []string{
			"Check that the server is running and --host is correct",
			"Start a local stand-in with meilimock",
		}
	case meili.KindNotFound:
		suggestions = []string{"List existing indexes with: meilictl indexes list"}
	}

	return consoleutil.FormatErrorWithDetails(apiErr.Error(), details, suggestions)
}
