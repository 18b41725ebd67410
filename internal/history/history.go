// Package history loads the stable ID event file produced by a patch
// build. Each non-blank line records one ID mapping as three
// tab-separated fields: new stable ID, event name, old stable ID.
package history

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/nds/ensembl-genomio/internal/domain"
)

// ParseError reports a malformed line in an events file
type ParseError struct {
	Path string
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Msg)
}

// Load reads an events file and returns every change event it records.
// Blank lines are skipped and trailing carriage returns are stripped.
// A line that does not split into exactly three fields aborts the load
// with a *ParseError naming the line. Field contents are not checked:
// creation and retirement events legitimately carry one empty ID, and
// Retained drops them later.
func Load(path string) ([]domain.ChangeEvent, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open events file: %w", err)
	}
	defer f.Close()

	var events []domain.ChangeEvent
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) != 3 {
			return nil, &ParseError{
				Path: path,
				Line: lineNo,
				Msg:  fmt.Sprintf("expected 3 tab-separated fields, got %d", len(fields)),
			}
		}
		events = append(events, domain.ChangeEvent{NewID: fields[0], Event: fields[1], OldID: fields[2]})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read events file: %w", err)
	}
	return events, nil
}

// Retained filters events down to genes whose stable ID survived the
// patch build unchanged. One-sided events never match
func Retained(events []domain.ChangeEvent) []domain.ChangeEvent {
	var retained []domain.ChangeEvent
	for _, event := range events {
		if event.Retained() {
			retained = append(retained, event)
		}
	}
	return retained
}
