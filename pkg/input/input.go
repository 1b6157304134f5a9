// Package input loads the message body and the destination list from disk.
package input

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/dskvich/tgcast/pkg/domain"
)

const commentPrefix = "#"

// ReadMessage returns the trimmed contents of the message file.
// An empty message is logged as a warning and returned without error.
func ReadMessage(path string) (string, error) {
	content, err := readUTF8(path)
	if err != nil {
		return "", err
	}

	text := strings.TrimSpace(content)
	if text == "" {
		slog.Warn("message file is empty, an empty message will be sent", "path", path)
	}
	return text, nil
}

// ReadDestinations parses one destination per line, skipping blank lines and comments.
// Order and duplicates are preserved.
func ReadDestinations(path string) ([]domain.Destination, error) {
	content, err := readUTF8(path)
	if err != nil {
		return nil, err
	}

	var destinations []domain.Destination
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, commentPrefix) {
			continue
		}
		destinations = append(destinations, domain.Destination(line))
	}

	if len(destinations) == 0 {
		return nil, fmt.Errorf("%w: %s is empty or contains only comments", domain.ErrNoDestinations, path)
	}
	return destinations, nil
}

func readUTF8(path string) (string, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: %s", domain.ErrNotFound, path)
	}
	if err != nil {
		return "", fmt.Errorf("%w: reading %s: %w", domain.ErrIO, path, err)
	}
	if !utf8.Valid(b) {
		return "", fmt.Errorf("%w: decoding %s: invalid UTF-8", domain.ErrIO, path)
	}
	return string(b), nil
}
