package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/spf13/afero"
)

// Operating system constants
const (
	OSDarwin  = "darwin"
	OSWindows = "windows"
	OSLinux   = "linux"
)

// File permissions
const (
	DefaultDirPermissions = 0755
)

// SoundsDirName is the subdirectory of the data dir holding fetched assets
const SoundsDirName = "sounds"

// UnknownStem is used when a target file name has no usable stem
const UnknownStem = "unknown"

// CandidateExtensions lists the extensions probed, in order, when identifying
// the file an extraction produced.
var CandidateExtensions = []string{"opus", "m4a", "mp3", "wav", "ogg"}

// ErrOutputNotFound is returned when no candidate output file exists
var ErrOutputNotFound = errors.New("file not found")

// CreateDirectoryIfNotExists creates directory if it doesn't exist
func CreateDirectoryIfNotExists(fs afero.Fs, dirPath string) error {
	if _, err := fs.Stat(dirPath); os.IsNotExist(err) {
		return fs.MkdirAll(dirPath, DefaultDirPermissions)
	}
	return nil
}

// FileExists reports whether path exists on fs
func FileExists(fs afero.Fs, path string) bool {
	ok, err := afero.Exists(fs, path)
	return err == nil && ok
}

// SanitizeName trims name and replaces every rune that is neither a letter
// nor a number (including ½ and Ⅻ) with '_'
func SanitizeName(name string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			return r
		}
		return '_'
	}, strings.TrimSpace(name))
}

// FileStem returns the base name of path without its final extension
func FileStem(path string) string {
	base := filepath.Base(path)
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" {
		// dotfile such as ".hidden"
		return base
	}
	return stem
}

// OutputStem computes the output file stem for a task: the stem of the known
// target file name, or the sanitized task name when none is set.
func OutputStem(targetFilename, name string) string {
	if targetFilename != "" {
		if stem := FileStem(targetFilename); stem != "" {
			return stem
		}
		return UnknownStem
	}
	return SanitizeName(name)
}

// FindOutputFile returns the first existing <dir>/<stem>.<ext> over
// CandidateExtensions.
func FindOutputFile(fs afero.Fs, dir, stem string) (string, error) {
	for _, ext := range CandidateExtensions {
		p := filepath.Join(dir, stem+"."+ext)
		if FileExists(fs, p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %s.{%s} in %s", ErrOutputNotFound, stem, strings.Join(CandidateExtensions, ","), dir)
}
