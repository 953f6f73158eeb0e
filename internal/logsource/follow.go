package logsource

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

// FollowOptions controls Follow.
type FollowOptions struct {
	// FromStart replays the file's existing content before following.
	// Otherwise only entries appended after Follow starts are read.
	FromStart bool
	// Poll is the interval between size checks. Defaults to 250ms.
	Poll time.Duration
}

// Follow decodes entries appended to the JSON-lines file at path and calls fn
// for each until ctx ends. A missing file is waited for. Partial trailing
// lines are held back until their newline arrives, and a file that shrinks
// is read again from the beginning. Follow returns nil when ctx ends.
func Follow(ctx context.Context, path string, opts FollowOptions, fn func(Entry) error) error {
	poll := opts.Poll
	if poll <= 0 {
		poll = 250 * time.Millisecond
	}

	var offset int64
	if !opts.FromStart {
		info, err := os.Stat(path)
		switch {
		case err == nil:
			if info.IsDir() {
				return fmt.Errorf("follow path %q is a directory", path)
			}
			offset = info.Size()
		case !errors.Is(err, os.ErrNotExist):
			return fmt.Errorf("stat follow file: %w", err)
		}
	}

	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	for {
		chunk, next, err := readCompleteLines(path, offset)
		if err != nil {
			return err
		}
		if len(chunk) > 0 {
			if err := DecodeEntries(bytes.NewReader(chunk), fn); err != nil {
				return fmt.Errorf("follow %s at offset %d: %w", path, offset, err)
			}
		}
		offset = next

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// readCompleteLines returns the newline-terminated bytes after offset and the
// offset just past them.
func readCompleteLines(path string, offset int64) ([]byte, int64, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, 0, nil
		}
		return nil, offset, fmt.Errorf("open follow file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, offset, fmt.Errorf("stat follow file: %w", err)
	}
	size := info.Size()
	if size < offset {
		offset = 0
	}
	if size == offset {
		return nil, offset, nil
	}

	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return nil, offset, fmt.Errorf("seek follow file: %w", err)
	}
	data, err := io.ReadAll(io.LimitReader(file, size-offset))
	if err != nil {
		return nil, offset, fmt.Errorf("read follow file: %w", err)
	}
	end := bytes.LastIndexByte(data, '\n')
	if end < 0 {
		return nil, offset, nil
	}
	return data[:end+1], offset + int64(end+1), nil
}
