// Package input collects the property names to geocode.
package input

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
)

// ReadProperties returns the list of property names to geocode, reading in
// order of precedence:
//  1. lines of the file at path, when path is non-empty
//  2. positional args
//  3. lines piped on stdin
//
// Blank entries are dropped and surrounding whitespace is trimmed. When no
// source yields any names, or stdin is the only source left and it is a
// terminal, an error is returned.
func ReadProperties(path string, args []string, stdin io.Reader, stdinIsTTY bool) ([]string, error) {
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, eris.Errorf("input: property file not found: %s", path)
			}
			return nil, eris.Wrapf(err, "input: open property file %s", path)
		}
		defer f.Close() //nolint:errcheck

		names, err := scanLines(f)
		if err != nil {
			return nil, eris.Wrapf(err, "input: read property file %s", path)
		}
		return names, nil
	}

	if names := trimNonEmpty(args); len(names) > 0 {
		return names, nil
	}

	if stdinIsTTY {
		return nil, eris.New("input: no properties provided; use --file, positional arguments, or piped stdin")
	}

	names, err := scanLines(stdin)
	if err != nil {
		return nil, eris.Wrap(err, "input: read stdin")
	}
	return names, nil
}

// scanLines reads r line by line, trimming whitespace and dropping blanks.
func scanLines(r io.Reader) ([]string, error) {
	var names []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			names = append(names, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return names, nil
}

func trimNonEmpty(items []string) []string {
	var out []string
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
