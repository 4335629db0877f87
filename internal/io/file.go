package ioutils

import (
	"errors"
	"io/fs"
	"os"
)

// Exists reports whether path names an existing regular file.
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// RemoveIfExists deletes the file at path.
//
// A missing file is not an error; removed reports whether something was
// actually deleted.
//
// Example:
//
//	if _, err := RemoveIfExists(tmp); err != nil {
//	    log.Printf("could not delete %s: %v", tmp, err)
//	}
func RemoveIfExists(path string) (removed bool, err error) {
	if path == "" {
		return false, nil
	}
	err = os.Remove(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}
