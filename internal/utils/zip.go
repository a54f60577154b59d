package utils

import (
	"archive/zip"
	"io"
	"os"
	"time"
)

// ArchiveFile is a single entry of an analysis archive.
type ArchiveFile struct {
	Name     string
	Data     []byte
	Modified time.Time
}

// WriteArchive writes files as a deflated zip to w.
func WriteArchive(w io.Writer, files []ArchiveFile) error {
	archive := zip.NewWriter(w)

	for _, f := range files {
		header := &zip.FileHeader{
			Name:     f.Name,
			Method:   zip.Deflate,
			Modified: f.Modified,
		}
		header.SetMode(0644)

		writer, err := archive.CreateHeader(header)
		if err != nil {
			archive.Close()
			return err
		}
		if _, err := writer.Write(f.Data); err != nil {
			archive.Close()
			return err
		}
	}

	return archive.Close()
}

// CreateArchive writes files to a new zip at target.
func CreateArchive(target string, files []ArchiveFile) error {
	zipfile, err := os.Create(target)
	if err != nil {
		return err
	}

	if err := WriteArchive(zipfile, files); err != nil {
		zipfile.Close()
		os.Remove(target)
		return err
	}

	return zipfile.Close()
}

// OpenArchiveFile returns the content of name inside the zip at path.
func OpenArchiveFile(path, name string) (io.ReadCloser, *zip.FileHeader, error) {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return nil, nil, err
	}

	for _, f := range archive.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			archive.Close()
			return nil, nil, err
		}
		return &archiveEntry{ReadCloser: rc, archive: archive}, &f.FileHeader, nil
	}

	archive.Close()
	return nil, nil, os.ErrNotExist
}

type archiveEntry struct {
	io.ReadCloser
	archive *zip.ReadCloser
}

func (e *archiveEntry) Close() error {
	err := e.ReadCloser.Close()
	if cerr := e.archive.Close(); err == nil {
		err = cerr
	}
	return err
}
