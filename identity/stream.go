package identity

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jrsteele09/go-event-portal/routing"
)

// StreamSnapshots decodes newline delimited JSON snapshots from r and sends them on out.
// Blank lines and lines starting with # are skipped. out is closed when the stream ends.
func StreamSnapshots(ctx context.Context, r io.Reader, out chan<- routing.Snapshot) error {
	defer close(out)

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		var s routing.Snapshot
		if err := json.Unmarshal([]byte(text), &s); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}

		select {
		case out <- s:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read snapshots: %w", err)
	}
	return nil
}
