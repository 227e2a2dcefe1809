package discovery

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// TypePattern maps a glob pattern to a FileType for type detection.
// Patterns are matched in order; first match wins.
type TypePattern struct {
	Pattern  string
	FileType FileType
}

// typePatterns are matched against slash-separated paths.
var typePatterns = []TypePattern{
	{"**/catalog.{yaml,yml,json}", FileTypeCatalog},
	{"**/*.catalog.{yaml,yml,json}", FileTypeCatalog},
	{"**/catalogs/**/*.{yaml,yml,json}", FileTypeCatalog},
	{"**/*.{yaml,yml,json}", FileTypeAnswers},
}

// DocumentPattern is the glob used when a directory is given instead of files.
const DocumentPattern = "**/*.{yaml,yml,json}"

// DetectFileType determines the document type from its path.
//
// Files named catalog.yaml, *.catalog.yaml or placed under a catalogs/
// directory are catalogs; any other YAML or JSON file is an answer sheet.
func DetectFileType(path string) (FileType, error) {
	slashed := strings.TrimLeft(filepath.ToSlash(path), "/")

	for _, tp := range typePatterns {
		matched, err := doublestar.Match(tp.Pattern, slashed)
		if err != nil {
			continue
		}
		if matched {
			return tp.FileType, nil
		}
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return FileTypeUnknown, fmt.Errorf(
			"unsupported file: %s has no extension. scorecard reads .yaml, .yml and .json files only", filepath.Base(path))
	}
	return FileTypeUnknown, fmt.Errorf(
		"unsupported file type: %s. scorecard reads .yaml, .yml and .json files only", ext)
}

// ValidateFilePath checks that path names a readable, non-empty text file and
// returns its absolute path.
func ValidateFilePath(path string) (absPath string, err error) {
	absPath, err = filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("invalid path %q: %w", path, err)
	}

	info, err := os.Lstat(absPath) // Lstat to detect symlinks
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("file not found: %s", absPath)
		}
		if os.IsPermission(err) {
			return "", fmt.Errorf("permission denied: %s", absPath)
		}
		return "", fmt.Errorf("cannot access file: %s: %w", absPath, err)
	}

	if info.Mode()&os.ModeSymlink != 0 {
		realPath, evalErr := filepath.EvalSymlinks(absPath)
		if evalErr != nil {
			return "", fmt.Errorf("cannot resolve symlink %s: %w", absPath, evalErr)
		}
		absPath = realPath
		info, err = os.Stat(absPath)
		if err != nil {
			return "", fmt.Errorf("symlink target inaccessible: %s: %w", absPath, err)
		}
	}

	if info.IsDir() {
		return "", fmt.Errorf("path is a directory, not a file: %s", absPath)
	}

	if info.Size() == 0 {
		return "", fmt.Errorf("file is empty: %s", absPath)
	}

	f, err := os.Open(absPath)
	if err != nil {
		return "", fmt.Errorf("cannot read file: %s: %w", absPath, err)
	}
	defer f.Close()

	// Null bytes in the first 512 bytes mark a binary file
	buf := make([]byte, 512)
	n, err := f.Read(buf)
	if err != nil {
		return "", fmt.Errorf("cannot read file: %s: %w", absPath, err)
	}
	if bytes.Contains(buf[:n], []byte{0}) {
		return "", fmt.Errorf("file appears to be binary, not text: %s", absPath)
	}

	return absPath, nil
}

// File represents a discovered file with its metadata
type File struct {
	Path     string
	RelPath  string
	Size     int64
	Type     FileType
	Contents []byte
}

// FileType categorizes discovered files
type FileType int

const (
	FileTypeUnknown FileType = iota
	FileTypeAnswers
	FileTypeCatalog
)

// String returns the human-readable name of the file type.
func (ft FileType) String() string {
	switch ft {
	case FileTypeAnswers:
		return "answers"
	case FileTypeCatalog:
		return "catalog"
	default:
		return "unknown"
	}
}

// ParseFileType converts a string to a FileType.
func ParseFileType(s string) (FileType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "answers", "answer", "sheet":
		return FileTypeAnswers, nil
	case "catalog", "catalogs":
		return FileTypeCatalog, nil
	default:
		return FileTypeUnknown, fmt.Errorf("invalid type %q: valid types are answers, catalog", s)
	}
}

// FileDiscovery manages file discovery operations
type FileDiscovery struct {
	rootPath       string
	followSymlinks bool
}

// NewFileDiscovery creates a new FileDiscovery instance
func NewFileDiscovery(rootPath string, followSymlinks bool) *FileDiscovery {
	if rootPath == "" {
		rootPath = "."
	}
	return &FileDiscovery{
		rootPath:       rootPath,
		followSymlinks: followSymlinks,
	}
}

// Expand resolves command line arguments into files.
//
// Each argument may be a file, a directory (searched with DocumentPattern) or a
// doublestar glob relative to the root. Results are deduplicated and sorted by
// relative path. A plain file that fails ValidateFilePath is an error; files
// matched by a glob or a directory walk are skipped silently when unreadable.
func (fd *FileDiscovery) Expand(args []string) ([]File, error) {
	seen := make(map[string]bool)
	var files []File

	add := func(f File) {
		if seen[f.Path] {
			return
		}
		seen[f.Path] = true
		files = append(files, f)
	}

	for _, arg := range args {
		full := arg
		if !filepath.IsAbs(full) {
			full = filepath.Join(fd.rootPath, arg)
		}

		if info, err := os.Stat(full); err == nil {
			if info.IsDir() {
				found, err := NewFileDiscovery(full, fd.followSymlinks).findFilesByPattern([]string{DocumentPattern})
				if err != nil {
					return nil, err
				}
				for _, f := range found {
					f.RelPath = filepath.ToSlash(filepath.Join(arg, f.RelPath))
					add(f)
				}
				continue
			}
			f, err := fd.readFile(full, arg)
			if err != nil {
				return nil, err
			}
			add(f)
			continue
		}

		if !doublestar.ValidatePattern(filepath.ToSlash(arg)) || !hasMeta(arg) {
			return nil, fmt.Errorf("file not found: %s", arg)
		}
		found, err := fd.findFilesByPattern([]string{filepath.ToSlash(arg)})
		if err != nil {
			return nil, err
		}
		for _, f := range found {
			add(f)
		}
	}

	slices.SortFunc(files, func(a, b File) int {
		return strings.Compare(a.RelPath, b.RelPath)
	})
	return files, nil
}

func hasMeta(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}

// readFile loads an explicitly named file
func (fd *FileDiscovery) readFile(fullPath, relPath string) (File, error) {
	absPath, err := ValidateFilePath(fullPath)
	if err != nil {
		return File{}, err
	}
	contents, err := os.ReadFile(absPath)
	if err != nil {
		return File{}, fmt.Errorf("cannot read file: %s: %w", absPath, err)
	}
	fileType, err := DetectFileType(relPath)
	if err != nil {
		return File{}, err
	}
	return File{
		Path:     absPath,
		RelPath:  filepath.ToSlash(relPath),
		Size:     int64(len(contents)),
		Type:     fileType,
		Contents: contents,
	}, nil
}

// findFilesByPattern finds files matching the given glob patterns
func (fd *FileDiscovery) findFilesByPattern(patterns []string) ([]File, error) {
	var files []File

	for _, pattern := range patterns {
		matches, err := doublestar.Glob(os.DirFS(fd.rootPath), pattern)
		if err != nil {
			return nil, fmt.Errorf("error evaluating pattern %s: %w", pattern, err)
		}

		for _, match := range matches {
			f, ok := fd.processMatch(match)
			if ok {
				files = append(files, f)
			}
		}
	}

	return files, nil
}

// processMatch converts a glob match into a File, returning false if the match should be skipped.
func (fd *FileDiscovery) processMatch(match string) (File, bool) {
	fullPath := filepath.Join(fd.rootPath, match)

	info, err := os.Lstat(fullPath)
	if err != nil {
		return File{}, false
	}

	if info.Mode()&os.ModeSymlink != 0 {
		if !fd.followSymlinks {
			return File{}, false
		}
		info, err = os.Stat(fullPath)
		if err != nil {
			return File{}, false
		}
	}
	if info.IsDir() {
		return File{}, false
	}

	fileType, err := DetectFileType(match)
	if err != nil {
		return File{}, false
	}

	contents, err := os.ReadFile(fullPath)
	if err != nil {
		return File{}, false
	}

	absPath, err := filepath.Abs(fullPath)
	if err != nil {
		absPath = fullPath
	}

	return File{
		Path:     absPath,
		RelPath:  filepath.ToSlash(match),
		Size:     info.Size(),
		Type:     fileType,
		Contents: contents,
	}, true
}
