package upload

import (
	"errors"
	"strings"
)

var ErrUnsafeName = errors.New("unsafe file name")

// PathResolver maps a client-supplied file name to its destination path
// inside the storage directory.
type PathResolver func(dir, name string) (string, error)

// VerbatimPath joins the directory and the name with a slash and nothing
// else. The name is not cleaned, so separators and ".." segments pass
// straight through.
func VerbatimPath(dir, name string) (string, error) {
	return dir + "/" + name, nil
}

// StrictPath behaves like VerbatimPath but refuses names that could leave
// the storage directory or that the filesystem cannot hold.
func StrictPath(dir, name string) (string, error) {
	switch {
	case name == "", name == ".", name == "..":
		return "", ErrUnsafeName
	case strings.ContainsAny(name, "/\\\x00"):
		return "", ErrUnsafeName
	}
	return VerbatimPath(dir, name)
}
