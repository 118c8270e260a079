package journal

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Playback replays journal segments in a directory, in sorted file
// order. It is a debugging/replay aid: it hands back the recorded
// Entry headers for inspection, never a reconstructed book, since the
// journal never stores the message bodies or book state needed to
// rebuild one.
type Playback struct {
	dir        string
	filePrefix string
}

// NewPlayback returns a Playback over dir, matching files written with
// filePrefix (DefaultConfig's prefix if filePrefix is empty).
func NewPlayback(dir, filePrefix string) *Playback {
	if filePrefix == "" {
		filePrefix = defaultFilePrefix
	}
	return &Playback{dir: dir, filePrefix: filePrefix}
}

// Run replays every segment's entries, in file order, to handler.
func (p *Playback) Run(handler func(Entry) error) error {
	files, err := p.collectFiles()
	if err != nil {
		return err
	}
	for _, path := range files {
		if err := p.playFile(path, handler); err != nil {
			return err
		}
	}
	return nil
}

func (p *Playback) collectFiles() ([]string, error) {
	entries, err := os.ReadDir(p.dir)
	if err != nil {
		return nil, err
	}
	prefix := p.filePrefix + "-"
	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ".jrn") {
			continue
		}
		files = append(files, filepath.Join(p.dir, name))
	}
	sort.Strings(files)
	return files, nil
}

func (p *Playback) playFile(path string, handler func(Entry) error) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	reader := NewReader(file)
	for {
		entry, err := reader.Next()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("read %s: %w", path, err)
		}
		if err := handler(entry); err != nil {
			return err
		}
	}
}
