package file

import (
	"bytes"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"sync"
)

// collection is one JSON file holding a whole entity collection.
// Every write re-reads the file, mutates in memory, and rewrites it
// entirely; the mutex makes each store a serialized resource so
// read-modify-write cycles cannot interleave.
type collection struct {
	mu   sync.Mutex
	path string
}

func newCollection(path string) *collection {
	return &collection{path: path}
}

func (c *collection) load(out any) error {
	b, err := os.ReadFile(c.path)

	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}

	if len(bytes.TrimSpace(b)) == 0 {
		return nil
	}

	return json.Unmarshal(b, out)
}

// save writes via a temp file and rename so readers never observe a
// half-written collection.
func (c *collection) save(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")

	if err != nil {
		return err
	}

	tmp := c.path + ".tmp"

	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return err
	}

	return os.Rename(tmp, c.path)
}
