// Package dialogs shows native message boxes and file pickers for the
// desktop backends.
package dialogs

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/sqweek/dialog"

	"hostwin/internal/platform"
)

func Message(title, msg string) {
	dialog.Message("%s", msg).Title(title).Info()
}

// Open asks for an existing file. Cancelling is not an error and yields "".
func Open(args platform.FileDialogArgs) (string, error) {
	path, err := builder(args).Load()
	return result(path, err)
}

// Save asks for a destination path, appending the first filter's extension
// when the user typed none.
func Save(args platform.FileDialogArgs) (string, error) {
	fb := builder(args)
	if args.DefaultName != "" {
		fb = fb.SetStartFile(args.DefaultName)
	}
	path, err := result(fb.Save())
	if err != nil || path == "" {
		return path, err
	}
	if filepath.Ext(path) == "" && len(args.Filters) > 0 {
		path += "." + strings.TrimPrefix(args.Filters[0], ".")
	}
	return path, nil
}

func builder(args platform.FileDialogArgs) *dialog.FileBuilder {
	fb := dialog.File()
	if args.Title != "" {
		fb = fb.Title(args.Title)
	}
	if exts := Extensions(args.Filters); len(exts) > 0 {
		desc := args.Description
		if desc == "" {
			desc = strings.Join(args.Filters, ", ")
		}
		fb = fb.Filter(desc, exts...)
	}
	return fb
}

func result(path string, err error) (string, error) {
	if errors.Is(err, dialog.ErrCancelled) {
		return "", nil
	}
	if err != nil || path == "" {
		return "", err
	}
	return filepath.Clean(path), nil
}

// Extensions strips the leading dots the filters are written with.
func Extensions(filters []string) []string {
	out := make([]string, 0, len(filters))
	for _, f := range filters {
		if f = strings.TrimPrefix(strings.TrimSpace(f), "."); f != "" {
			out = append(out, f)
		}
	}
	return out
}
