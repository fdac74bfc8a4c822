package logging

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Latest returns the newest statview-*.log in dir, or "" when there is none.
// Dated names sort chronologically.
func Latest(dir string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "statview-*.log"))
	if err != nil {
		return "", fmt.Errorf("list logs: %w", err)
	}
	if len(matches) == 0 {
		return "", nil
	}
	sort.Strings(matches)
	return matches[len(matches)-1], nil
}

// Tail returns at most maxLines from the end of the file at path, or every
// line when maxLines is not positive. A non-empty session keeps only lines
// tagged with that session id. A missing file yields no lines and no error.
func Tail(path string, maxLines int, session string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	tag := ""
	if session != "" {
		tag = "session=" + session
	}

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	if maxLines <= 0 {
		var lines []string
		for scanner.Scan() {
			if line := scanner.Text(); tag == "" || strings.Contains(line, tag) {
				lines = append(lines, line)
			}
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		return lines, nil
	}

	ring := make([]string, maxLines)
	count, idx := 0, 0
	for scanner.Scan() {
		line := scanner.Text()
		if tag != "" && !strings.Contains(line, tag) {
			continue
		}
		ring[idx] = line
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := range count {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}
