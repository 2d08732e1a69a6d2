// Package builder implements the offline compiler that turns a plain-text
// dictionary source into the static on-disk format (package static).
package builder

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Entry is one (keyword, description) record from a text source, before
// canonicalization, sorting, or on-disk encoding.
type Entry struct {
	Keyword     string
	Description string
}

// ReadHeader reads "name=value" lines up to (and consuming) the first
// blank line, per the builder input format of spec §6. Values are taken
// verbatim; unlike the on-disk header, the text-source header is not
// escaped.
func ReadHeader(r *bufio.Reader) (map[string]string, error) {
	props := map[string]string{}
	lineNo := 0
	for {
		line, err := readLine(r)
		if err != nil {
			if err == io.EOF {
				return props, nil
			}
			return nil, err
		}
		lineNo++
		if line == "" {
			return props, nil
		}
		i := strings.IndexByte(line, '=')
		if i < 0 {
			return nil, fmt.Errorf("builder: line %d: %q has no '='", lineNo, line)
		}
		props[line[:i]] = line[i+1:]
	}
}

// ReadEntries reads a sequence of "keyword\n<description lines>\n\n"
// records until EOF. Multi-line descriptions are joined with a single
// space, matching the reference builder's behavior.
func ReadEntries(r *bufio.Reader) ([]Entry, error) {
	var entries []Entry
	lineNo := 0
	for {
		keyword, err := readNonEmptyLine(r)
		if err != nil {
			if err == io.EOF {
				return entries, nil
			}
			return nil, err
		}
		lineNo++

		var descLines []string
		for {
			line, err := readLine(r)
			if err != nil {
				if err == io.EOF {
					break
				}
				return nil, err
			}
			lineNo++
			if line == "" {
				break
			}
			descLines = append(descLines, line)
		}
		if len(descLines) == 0 {
			return nil, fmt.Errorf("builder: line %d: entry %q has no description", lineNo, keyword)
		}
		entries = append(entries, Entry{Keyword: keyword, Description: strings.Join(descLines, " ")})
	}
}

func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" && err == io.EOF {
		return "", io.EOF
	}
	return line, nil
}

func readNonEmptyLine(r *bufio.Reader) (string, error) {
	for {
		line, err := readLine(r)
		if err != nil {
			return "", err
		}
		if line != "" {
			return line, nil
		}
	}
}
