// Package workspace manages the staging tree a mod is assembled in before
// it is archived.
//
// The tree mirrors the REFramework runtime layout:
//
//	<root>/
//	  <modRoot>/
//	    autorun/
//	      <moduleName>/
package workspace

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// AutorunDir is the directory REFramework loads scripts from.
const AutorunDir = "autorun"

// Workspace is a staging tree rooted at a fixed path. It is owned by a
// single build; concurrent builds against the same root are not supported.
type Workspace struct {
	root       string
	modRoot    string
	moduleName string
}

// New returns a workspace rooted at root. Nothing is created until Reset.
func New(root, modRoot, moduleName string) *Workspace {
	return &Workspace{
		root:       root,
		modRoot:    modRoot,
		moduleName: moduleName,
	}
}

// Root returns the staging root.
func (w *Workspace) Root() string {
	return w.root
}

// ModRoot returns the mod loader directory inside the staging root.
func (w *Workspace) ModRoot() string {
	return filepath.Join(w.root, w.modRoot)
}

// AutorunDir returns the directory the script is staged into.
func (w *Workspace) AutorunDir() string {
	return filepath.Join(w.ModRoot(), AutorunDir)
}

// ModuleDir returns the directory reserved for the mod's submodules. It is
// created on every Reset and may stay empty.
func (w *Workspace) ModuleDir() string {
	return filepath.Join(w.AutorunDir(), w.moduleName)
}

// Dirs returns every directory Reset creates, outermost first.
func (w *Workspace) Dirs() []string {
	return []string{w.Root(), w.ModRoot(), w.AutorunDir(), w.ModuleDir()}
}

// Reset destroys any existing tree at the root and recreates the full
// directory hierarchy, so later writes need no directory creation.
func (w *Workspace) Reset() error {
	if err := w.remove(); err != nil {
		return err
	}

	for _, dir := range w.Dirs() {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating staging directory %q: %w", dir, err)
		}
	}

	return nil
}

// Teardown deletes the staging tree unless suppress is set. A missing tree
// is not an error.
func (w *Workspace) Teardown(suppress bool) error {
	if suppress {
		return nil
	}
	return w.remove()
}

// Exists reports whether the staging root is present.
func (w *Workspace) Exists() bool {
	info, err := os.Stat(w.root)
	return err == nil && info.IsDir()
}

func (w *Workspace) remove() error {
	if _, err := os.Lstat(w.root); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := os.RemoveAll(w.root); err != nil {
		return fmt.Errorf("removing staging tree %q: %w", w.root, err)
	}
	return nil
}
