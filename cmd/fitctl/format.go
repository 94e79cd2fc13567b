package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	apperrors "github.com/akkash/bizsearch-new-sub002/internal/common/errors"
)

const (
	formatTable = "table"
	formatJSON  = "json"
)

var printer = message.NewPrinter(language.English)

func money(v float64) string {
	return printer.Sprintf("%.0f", v)
}

func pct(v float64) string {
	return printer.Sprintf("%.1f%%", v)
}

func checkFormat(format string) error {
	if format != formatTable && format != formatJSON {
		return eris.Errorf("--format must be table or json (got %q)", format)
	}
	return nil
}

func writeJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func readJSON(path string, dst interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return eris.Wrapf(err, "read %s", path)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return eris.Wrapf(err, "parse %s", path)
	}
	return nil
}

// describe turns an engine error into a one-line message with its code and
// offending field.
func describe(err error) error {
	stdErr := apperrors.FromEngineError(err)
	if stdErr.Field != "" {
		return fmt.Errorf("%s (%s): %s", stdErr.Code, stdErr.Field, stdErr.Details)
	}
	return fmt.Errorf("%s: %s", stdErr.Code, stdErr.Details)
}
