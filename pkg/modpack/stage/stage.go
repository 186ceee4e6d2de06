// Package stage copies the mod script into the staging tree.
package stage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jamesainslie/modpack/pkg/modpack/modversion"
	"github.com/jamesainslie/modpack/pkg/modpack/workspace"
)

// Result describes a staged script.
type Result struct {
	// Content is the script text exactly as read from the source.
	Content []byte

	// Version is the version the script declares, or modversion.Unknown.
	Version string

	// VersionFound is false when Version is the Unknown fallback.
	VersionFound bool

	// Path is where the script was written inside the staging tree.
	Path string
}

// Script reads src and writes it unchanged to fileName in the workspace's
// autorun directory. The workspace must already be Reset.
func Script(src string, ws *workspace.Workspace, fileName string) (*Result, error) {
	content, err := os.ReadFile(src)
	if err != nil {
		return nil, fmt.Errorf("reading mod script: %w", err)
	}

	dst := filepath.Join(ws.AutorunDir(), fileName)
	if err := os.WriteFile(dst, content, 0o644); err != nil {
		return nil, fmt.Errorf("staging mod script: %w", err)
	}

	version, found := modversion.Lookup(string(content))
	if !found {
		version = modversion.Unknown
	}

	return &Result{
		Content:      content,
		Version:      version,
		VersionFound: found,
		Path:         dst,
	}, nil
}
