// Package images imports card artwork from ZIP archives and derives
// the reduced-size renditions stored alongside the originals.
package images

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNoImagesFound reports an unreadable archive or one with no
// importable image entries. Nothing is written in either case.
var ErrNoImagesFound = errors.New("no images found in archive")

// Entry is one named blob from an archive.
type Entry struct {
	Path string
	Data []byte
}

// ReadArchive reads every file entry from the ZIP at path.
func ReadArchive(path string) ([]Entry, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrNoImagesFound, path, err)
	}
	defer func() {
		_ = r.Close()
	}()

	entries, err := readEntries(&r.Reader)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: archive %s is empty", ErrNoImagesFound, path)
	}
	return entries, nil
}

func readEntries(r *zip.Reader) ([]Entry, error) {
	var entries []Entry
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open archive entry %s: %w", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read archive entry %s: %w", f.Name, err)
		}
		entries = append(entries, Entry{Path: f.Name, Data: data})
	}
	return entries, nil
}

// baseName returns the final path segment, honoring both separators so
// archives built on Windows import the same way.
func baseName(path string) string {
	if i := strings.LastIndexAny(path, "/\\"); i >= 0 {
		return path[i+1:]
	}
	return path
}

// folderName returns the directory part of the path, or "".
func folderName(path string) string {
	i := strings.LastIndexAny(path, "/\\")
	if i <= 0 {
		return ""
	}
	dir := path[:i]
	// Keep only the innermost folder; that is the provenance of interest.
	if j := strings.LastIndexAny(dir, "/\\"); j >= 0 {
		dir = dir[j+1:]
	}
	return dir
}

// stripExt removes the final extension from a filename.
func stripExt(name string) string {
	if i := strings.LastIndex(name, "."); i > 0 {
		return name[:i]
	}
	return name
}

// mimeForName maps a supported image extension to its MIME type, or ""
// for anything else.
func mimeForName(name string) string {
	switch strings.ToLower(ext(name)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	}
	return ""
}

func ext(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i:]
	}
	return ""
}

// ExtForMIME is the inverse mapping, used when naming archive entries
// on export.
func ExtForMIME(mime string) string {
	switch mime {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}
