package index

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"
)

// Artifact layout: magic, format version, dimension, vector count, then the
// vector values as little-endian float32 in insertion order. The round-trip
// is bit-exact so a reloaded index answers queries identically.
const (
	fileMagic   uint32 = 0x43494458 // "CIDX"
	fileVersion uint32 = 1
)

// WriteFile persists the index to path.
func (f *Flat) WriteFile(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create index file: %w", err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	header := []uint32{fileMagic, fileVersion, uint32(f.dimensions), uint32(len(f.vectors))}
	for _, v := range header {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return fmt.Errorf("write index header: %w", err)
		}
	}
	for _, vec := range f.vectors {
		if err := binary.Write(w, binary.LittleEndian, vec); err != nil {
			return fmt.Errorf("write index vectors: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush index file: %w", err)
	}
	return file.Sync()
}

// ReadFile loads a persisted index from path.
func ReadFile(path string) (*Flat, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open index file: %w", err)
	}
	defer file.Close()

	r := bufio.NewReader(file)
	var magic, version, dim, count uint32
	for _, p := range []*uint32{&magic, &version, &dim, &count} {
		if err := binary.Read(r, binary.LittleEndian, p); err != nil {
			return nil, fmt.Errorf("read index header: %w", err)
		}
	}
	if magic != fileMagic {
		return nil, fmt.Errorf("not an index file: bad magic %#x", magic)
	}
	if version != fileVersion {
		return nil, fmt.Errorf("unsupported index format version %d", version)
	}
	if dim == 0 {
		return nil, fmt.Errorf("index file declares zero dimension")
	}
	// Bound the declared count against the actual file size before
	// allocating, so a corrupt header cannot demand gigabytes.
	fi, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat index file: %w", err)
	}
	const headerSize = 16
	maxVectors := (fi.Size() - headerSize) / (int64(dim) * 4)
	if int64(count) > maxVectors {
		return nil, fmt.Errorf("index file truncated: header declares %d vectors, file holds at most %d", count, maxVectors)
	}
	vectors := make([][]float32, count)
	for i := range vectors {
		vec := make([]float32, dim)
		if err := binary.Read(r, binary.LittleEndian, vec); err != nil {
			return nil, fmt.Errorf("read vector %d: %w", i, err)
		}
		vectors[i] = vec
	}
	return &Flat{dimensions: int(dim), vectors: vectors}, nil
}
