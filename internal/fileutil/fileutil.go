package fileutil

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"configs-cli/internal/logger"
	"github.com/spf13/afero"
)

// EnsureLine makes sure line occurs in the file at path, appending "\n<line>\n"
// when it does not. The file must already exist. It reports whether the file
// was changed; I/O errors are logged and reported as "unchanged" so callers can
// carry on.
//
// Presence is a substring test over the whole file, so a line that is contained
// in a longer existing line counts as present.
func EnsureLine(fs afero.Fs, path, line string) bool {
	appended, err := ensureLine(fs, path, line)
	if err != nil {
		logger.Error("[ERROR] Error updating %s: %v\n", path, err)
		return false
	}
	if appended {
		logger.Info("[INFO] Appended line to %s: %s\n", path, line)
	} else {
		logger.Debug("[DEBUG] Line already present in %s: %s\n", path, line)
	}
	return appended
}

func ensureLine(fs afero.Fs, path, line string) (bool, error) {
	f, err := fs.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return false, err
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return false, err
	}
	if strings.Contains(string(content), line) {
		return false, nil
	}

	// The read left the offset at end of file, so this write appends.
	if _, err := f.WriteString("\n" + line + "\n"); err != nil {
		return false, err
	}
	return true, nil
}

// CopyFile copies src to dst, creating missing parent directories and keeping
// the source permissions.
func CopyFile(fs afero.Fs, src, dst string) error {
	in, err := fs.Open(src)
	if err != nil {
		return fmt.Errorf("open source failed: %w", err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("stat source failed: %w", err)
	}

	if err := fs.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("mkdir failed: %w", err)
	}

	out, err := fs.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("create target failed: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("copy failed: %w", err)
	}
	return out.Close()
}

// SameContent reports whether two files hold identical bytes.
func SameContent(fs afero.Fs, a, b string) (bool, error) {
	da, err := afero.ReadFile(fs, a)
	if err != nil {
		return false, err
	}
	db, err := afero.ReadFile(fs, b)
	if err != nil {
		return false, err
	}
	return bytes.Equal(da, db), nil
}

// IsDir reports whether path exists and is a directory. Stat errors read as false.
func IsDir(fs afero.Fs, path string) bool {
	ok, err := afero.DirExists(fs, path)
	return err == nil && ok
}

// Exists reports whether path exists. Stat errors read as false.
func Exists(fs afero.Fs, path string) bool {
	ok, err := afero.Exists(fs, path)
	return err == nil && ok
}
