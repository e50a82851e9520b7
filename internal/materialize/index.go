package materialize

import (
	"path/filepath"
	"sort"
	"sync"

	"github.com/Veraticus/squeegee/internal/model"
)

// Index is an in-memory bucket to file mapping. It satisfies the same linker
// contract as SymlinkLinker and is used for dry runs.
type Index struct {
	entries map[model.Bucket]map[string]string
	mu      sync.RWMutex
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{entries: make(map[model.Bucket]map[string]string)}
}

// Link records src under bucket. Linking the same base name twice replaces
// the earlier entry.
func (ix *Index) Link(src string, b model.Bucket) (string, error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	files, ok := ix.entries[b]
	if !ok {
		files = make(map[string]string)
		ix.entries[b] = files
	}
	name := filepath.Base(src)
	files[name] = src
	return filepath.Join(b.Path(), name), nil
}

// Files returns the sources recorded under bucket, sorted.
func (ix *Index) Files(b model.Bucket) []string {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	files := ix.entries[b]
	out := make([]string, 0, len(files))
	for _, src := range files {
		out = append(out, src)
	}
	sort.Strings(out)
	return out
}

// Buckets returns every bucket holding at least one file, sorted by path.
func (ix *Index) Buckets() []model.Bucket {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	out := make([]model.Bucket, 0, len(ix.entries))
	for b := range ix.entries {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

// Len is the total number of (bucket, file) entries.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	n := 0
	for _, files := range ix.entries {
		n += len(files)
	}
	return n
}
