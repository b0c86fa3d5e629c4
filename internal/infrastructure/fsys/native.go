// Package fsys provides the billy filesystem the CLI runs against.
package fsys

import (
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
)

// Native is a billy.Filesystem that resolves paths like the operating
// system does: absolute paths as given, relative paths against the working
// directory.
type Native struct {
	osfs.ChrootOS
}

// NewNative creates the native filesystem.
func NewNative() *Native {
	return &Native{}
}

// Chroot returns a filesystem rooted at path.
func (n *Native) Chroot(path string) (billy.Filesystem, error) {
	return osfs.New(path), nil
}

// Root returns the filesystem root.
func (n *Native) Root() string {
	return "/"
}

var _ billy.Filesystem = (*Native)(nil)
