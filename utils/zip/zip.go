// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package zip writes and reads small zip archives of text files, such as
// the policy override resources handed to charms.
package zip

import (
	"archive/zip"
	"io"
	"os"

	"github.com/juju/collections/set"
	"github.com/juju/errors"
	"github.com/spf13/afero"
)

// WriteFiles writes a zip archive to path on fs holding one entry per
// file, with the file name as the entry name. Entries are written in
// sorted name order so that the archive is the same on every run.
func WriteFiles(fs afero.Fs, path string, files map[string]string) (err error) {
	f, err := fs.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return errors.Trace(err)
	}
	defer func() {
		if closeErr := f.Close(); err == nil {
			err = errors.Trace(closeErr)
		}
	}()

	names := set.NewStrings()
	for name := range files {
		names.Add(name)
	}
	w := zip.NewWriter(f)
	for _, name := range names.SortedValues() {
		entry, err := w.Create(name)
		if err != nil {
			return errors.Annotatef(err, "adding %q to %s", name, path)
		}
		if _, err := io.WriteString(entry, files[name]); err != nil {
			return errors.Annotatef(err, "writing %q to %s", name, path)
		}
	}
	return errors.Trace(w.Close())
}

// ReadFiles returns the contents of every file entry in the zip archive
// at path on fs, keyed by entry name.
func ReadFiles(fs afero.Fs, path string) (map[string]string, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, errors.Trace(err)
	}
	r, err := zip.NewReader(f, info.Size())
	if err != nil {
		return nil, errors.Annotatef(err, "reading %s", path)
	}
	files := make(map[string]string, len(r.File))
	for _, entry := range r.File {
		if entry.FileInfo().IsDir() {
			continue
		}
		data, err := readEntry(entry)
		if err != nil {
			return nil, errors.Annotatef(err, "reading %q from %s", entry.Name, path)
		}
		files[entry.Name] = data
	}
	return files, nil
}

func readEntry(entry *zip.File) (string, error) {
	rc, err := entry.Open()
	if err != nil {
		return "", errors.Trace(err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	return string(data), errors.Trace(err)
}
