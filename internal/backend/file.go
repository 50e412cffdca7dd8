package backend

import (
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
)

// File is an upload that is opened only when a call needs its contents.
type File struct {
	Name string
	Open func() (io.ReadCloser, error)
}

// FileFromPath returns a File backed by a path on disk.
func FileFromPath(path string) File {
	return File{
		Name: filepath.Base(path),
		Open: func() (io.ReadCloser, error) { return os.Open(path) },
	}
}

// FileFromHeader returns a File backed by a multipart upload.
func FileFromHeader(fh *multipart.FileHeader) File {
	return File{
		Name: fh.Filename,
		Open: func() (io.ReadCloser, error) { return fh.Open() },
	}
}

// readAll opens f, reads it and closes it before returning.
func (f File) readAll() ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
