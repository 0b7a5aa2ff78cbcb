package service

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// movePath renames source to destination, falling back to a recursive
// copy+delete when the rename crosses a filesystem boundary. An existing
// directory destination receives the source as a child, keeping the host
// move-primitive semantics.
func movePath(source string, destination string) error {
	if info, err := os.Stat(destination); err == nil && info.IsDir() {
		destination = filepath.Join(destination, filepath.Base(source))
	}

	if err := os.MkdirAll(filepath.Dir(destination), 0o755); err != nil {
		return err
	}

	if err := os.Rename(source, destination); err == nil {
		return nil
	} else if !isCrossDeviceRenameError(err) {
		return err
	}

	if err := copyPathRecursive(source, destination); err != nil {
		return err
	}

	return os.RemoveAll(source)
}

func isCrossDeviceRenameError(err error) bool {
	var linkErr *os.LinkError
	if errors.As(err, &linkErr) && strings.Contains(strings.ToLower(linkErr.Err.Error()), "cross-device") {
		return true
	}

	return strings.Contains(strings.ToLower(err.Error()), "cross-device")
}

func copyPathRecursive(source string, destination string) error {
	info, err := os.Stat(source)
	if err != nil {
		return err
	}

	if !info.IsDir() {
		return copyFile(source, destination, info.Mode())
	}

	if err := os.MkdirAll(destination, info.Mode().Perm()); err != nil {
		return err
	}

	return filepath.WalkDir(source, func(current string, entry os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		rel, relErr := filepath.Rel(source, current)
		if relErr != nil {
			return relErr
		}
		if rel == "." {
			return nil
		}

		target := filepath.Join(destination, rel)
		entryInfo, infoErr := entry.Info()
		if infoErr != nil {
			return infoErr
		}

		if entry.IsDir() {
			return os.MkdirAll(target, entryInfo.Mode().Perm())
		}

		return copyFile(current, target, entryInfo.Mode())
	})
}

func copyFile(source string, destination string, mode os.FileMode) error {
	input, err := os.Open(source)
	if err != nil {
		return err
	}
	defer input.Close()

	if err := os.MkdirAll(filepath.Dir(destination), 0o755); err != nil {
		return err
	}

	output, err := os.OpenFile(destination, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode.Perm())
	if err != nil {
		return err
	}

	_, copyErr := io.Copy(output, input)
	closeErr := output.Close()
	if copyErr != nil {
		return copyErr
	}

	return closeErr
}
