package index

import (
	"os"
	"path/filepath"
)

const (
	// VectorsArtifact is the file name of the serialized vector table.
	VectorsArtifact = "vectors.mus"

	// MetadataArtifact is the file name of the metadata JSON array.
	MetadataArtifact = "metadata.json"
)

// ArtifactsExist reports whether both index artifacts are present in dir.
func ArtifactsExist(dir string) bool {
	for _, name := range []string{VectorsArtifact, MetadataArtifact} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			return false
		}
	}
	return true
}

// atomicWrite writes data to path via a temp file in the same directory
// followed by a rename, so readers never observe a partially written
// artifact and the old file stays valid until the new one is complete.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	return os.Rename(tmp.Name(), path)
}
