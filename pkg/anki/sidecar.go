package anki

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/LLamaEmpire/LlamaLanguage/pkg/vocab"
)

// Binary signatures that mark a file as definitely not sidecar metadata.
// Guards against .apkg archives or raw SQLite databases dropped into the
// storage directory under a metadata-looking name.
var binarySignatures = [][]byte{
	[]byte("PK\x03\x04"),
	[]byte("SQLite format 3"),
}

// SidecarPath returns the metadata file path for an archive: same base
// name, .json extension.
func SidecarPath(archivePath string) string {
	ext := filepath.Ext(archivePath)
	return strings.TrimSuffix(archivePath, ext) + ".json"
}

// WriteSidecar persists bundle as the archive's sidecar metadata file:
// UTF-8 JSON, category keys, word arrays with combined forms verbatim.
func WriteSidecar(archivePath string, bundle vocab.Bundle) error {
	data, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal sidecar: %w", err)
	}
	if err := os.WriteFile(SidecarPath(archivePath), data, 0o644); err != nil {
		return fmt.Errorf("write sidecar: %w", err)
	}
	return nil
}

// ReadSidecar loads the sidecar metadata for an archive. Bytes that are not
// valid UTF-8 are retried as Latin-1 before the file is treated as corrupt.
func ReadSidecar(archivePath string) (vocab.Bundle, error) {
	return ReadMetadataFile(SidecarPath(archivePath))
}

// ReadMetadataFile parses a standalone metadata file into a bundle. It
// rejects files carrying a known binary signature so an archive renamed to
// look like metadata never misparses.
func ReadMetadataFile(path string) (vocab.Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	for _, sig := range binarySignatures {
		if bytes.HasPrefix(data, sig) {
			return nil, fmt.Errorf("%s: binary content, not deck metadata", path)
		}
	}
	if !utf8.Valid(data) {
		decoded, decErr := charmap.ISO8859_1.NewDecoder().Bytes(data)
		if decErr != nil {
			return nil, fmt.Errorf("%s: undecodable metadata: %w", path, decErr)
		}
		data = decoded
	}

	var raw map[string][]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%s: parse metadata: %w", path, err)
	}

	bundle := vocab.NewBundle()
	for cat, words := range raw {
		key := vocab.ParseCategory(cat)
		for _, w := range words {
			bundle.Add(key, w)
		}
	}
	return bundle, nil
}
