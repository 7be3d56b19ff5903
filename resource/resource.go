// seehuhn.de/go/pdf2dom - convert PDF drawing events into styled box trees
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package resource decides how binary resources, like fonts and images,
// are referenced from the generated document.
//
// A resource can be embedded into the document as a data URL, written to
// a separate file, or dropped.
package resource

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Resource is a binary resource used by the output document.
type Resource struct {
	Name     string // base name, without extension
	Data     []byte
	MIMEType string
	Ext      string // file name extension, without the dot
}

// Handler stores a resource and returns the URL which refers to it.
// An empty URL means that the resource is not available.
type Handler interface {
	Handle(res *Resource) (string, error)
}

// ErrNoData is returned by handlers which need the resource data, if the
// resource is empty.
var ErrNoData = errors.New("resource: no data")

// Embed embeds resources into the document, as data URLs.
type Embed struct{}

// Handle implements the [Handler] interface.
func (Embed) Handle(res *Resource) (string, error) {
	return "data:" + res.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(res.Data), nil
}

// Ignore drops all resources.
type Ignore struct{}

// Handle implements the [Handler] interface.  The returned URL is always
// empty.
func (Ignore) Handle(*Resource) (string, error) {
	return "", nil
}

// DefaultDir is the directory used by [SaveToDir] if no directory is given.
const DefaultDir = "resources"

// SaveToDir writes resources to files in a directory.
// The returned URL is the path of the file, including the directory.
type SaveToDir struct {
	// URLPrefix, if non-empty, replaces the directory name in the
	// returned URLs.  This is used when the document which refers to the
	// resources is not located in the current working directory.
	URLPrefix string

	dir  string
	used map[string]bool
}

// NewSaveToDir returns a handler which writes files into dir.
// The directory is created when the first resource is written.
// If dir is empty, [DefaultDir] is used.
func NewSaveToDir(dir string) *SaveToDir {
	if dir == "" {
		dir = DefaultDir
	}
	return &SaveToDir{
		dir:  dir,
		used: make(map[string]bool),
	}
}

// Handle implements the [Handler] interface.
func (h *SaveToDir) Handle(res *Resource) (string, error) {
	if len(res.Data) == 0 {
		return "", ErrNoData
	}

	name := h.nextName(fileBase(res.Name))
	if res.Ext != "" {
		name += "." + res.Ext
	}

	err := os.MkdirAll(h.dir, 0o755)
	if err != nil {
		return "", fmt.Errorf("resource: %w", err)
	}
	path := filepath.Join(h.dir, name)
	err = os.WriteFile(path, res.Data, 0o644)
	if err != nil {
		return "", fmt.Errorf("resource: %w", err)
	}
	if h.URLPrefix != "" {
		path = filepath.Join(h.URLPrefix, name)
	}
	return filepath.ToSlash(path), nil
}

// nextName returns base, or base followed by the smallest positive
// integer for which no file has been written yet.
func (h *SaveToDir) nextName(base string) string {
	name := base
	for i := 1; h.used[name]; i++ {
		name = base + strconv.Itoa(i)
	}
	h.used[name] = true
	return name
}

func fileBase(name string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', 0:
			return '_'
		}
		return r
	}, name)
	if name == "" || name == "." || name == ".." {
		name = "resource"
	}
	return name
}

// Mode selects one of the standard handlers.
type Mode int

// These are the supported modes.
const (
	ModeEmbed Mode = iota
	ModeSave
	ModeIgnore
)

func (m Mode) String() string {
	switch m {
	case ModeEmbed:
		return "embed"
	case ModeSave:
		return "save"
	case ModeIgnore:
		return "ignore"
	default:
		return "Mode(" + strconv.Itoa(int(m)) + ")"
	}
}

// ParseMode converts a mode name into a [Mode].  Both the short names
// ("embed", "save", "ignore") and the long names ("embed_base64",
// "save_to_dir") are accepted, ignoring case.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "embed", "embed_base64":
		return ModeEmbed, nil
	case "save", "save_to_dir":
		return ModeSave, nil
	case "ignore":
		return ModeIgnore, nil
	default:
		return 0, fmt.Errorf("resource: unknown mode %q", s)
	}
}

// Set implements the flag.Value interface.
func (m *Mode) Set(s string) error {
	mode, err := ParseMode(s)
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

// NewHandler returns the handler for the given mode.  The directory is
// only used for [ModeSave].
func NewHandler(m Mode, dir string) Handler {
	switch m {
	case ModeSave:
		return NewSaveToDir(dir)
	case ModeIgnore:
		return Ignore{}
	default:
		return Embed{}
	}
}

// IsIgnore reports whether h drops all resources.
func IsIgnore(h Handler) bool {
	switch h.(type) {
	case Ignore, *Ignore:
		return true
	}
	return false
}
