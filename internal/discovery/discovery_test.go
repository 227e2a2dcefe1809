package discovery

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeFiles creates files relative to root
func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func relPaths(files []File) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.RelPath
	}
	return out
}

// TestFileType_String tests the String method for all FileType constants
func TestFileType_String(t *testing.T) {
	tests := []struct {
		ft   FileType
		want string
	}{
		{FileTypeAnswers, "answers"},
		{FileTypeCatalog, "catalog"},
		{FileTypeUnknown, "unknown"},
		{FileType(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.ft.String(); got != tt.want {
			t.Errorf("FileType(%d).String() = %q, want %q", tt.ft, got, tt.want)
		}
	}
}

func TestParseFileType(t *testing.T) {
	tests := []struct {
		in      string
		want    FileType
		wantErr bool
	}{
		{"answers", FileTypeAnswers, false},
		{" Catalog ", FileTypeCatalog, false},
		{"sheet", FileTypeAnswers, false},
		{"agent", FileTypeUnknown, true},
		{"", FileTypeUnknown, true},
	}
	for _, tt := range tests {
		got, err := ParseFileType(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFileType(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseFileType(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDetectFileType(t *testing.T) {
	tests := []struct {
		path     string
		want     FileType
		errMatch string
	}{
		{"answers.yaml", FileTypeAnswers, ""},
		{"leads/acme.json", FileTypeAnswers, ""},
		{"/tmp/run/sheet.yml", FileTypeAnswers, ""},
		{"catalog.yaml", FileTypeCatalog, ""},
		{"config/catalog.json", FileTypeCatalog, ""},
		{"retail.catalog.yml", FileTypeCatalog, ""},
		{"catalogs/v2.yaml", FileTypeCatalog, ""},
		{"/srv/catalogs/nested/v3.json", FileTypeCatalog, ""},
		{"notes.txt", FileTypeUnknown, "unsupported file type: .txt"},
		{"README", FileTypeUnknown, "has no extension"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := DetectFileType(tt.path)
			if tt.errMatch != "" {
				if err == nil || !strings.Contains(err.Error(), tt.errMatch) {
					t.Errorf("DetectFileType(%q) error = %v, want %q", tt.path, err, tt.errMatch)
				}
				return
			}
			if err != nil {
				t.Fatalf("DetectFileType(%q) error = %v", tt.path, err)
			}
			if got != tt.want {
				t.Errorf("DetectFileType(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestValidateFilePath(t *testing.T) {
	tmpDir := t.TempDir()

	validFile := filepath.Join(tmpDir, "valid.yaml")
	_ = os.WriteFile(validFile, []byte("answers: {q1: 5}\n"), 0644)

	emptyFile := filepath.Join(tmpDir, "empty.yaml")
	_ = os.WriteFile(emptyFile, []byte(""), 0644)

	binaryFile := filepath.Join(tmpDir, "binary.dat")
	_ = os.WriteFile(binaryFile, []byte{0x00, 0x01, 0x02, 0x03}, 0644)

	symlinkFile := filepath.Join(tmpDir, "symlink.yaml")
	_ = os.Symlink(validFile, symlinkFile)

	brokenSymlink := filepath.Join(tmpDir, "broken-symlink.yaml")
	_ = os.Symlink(filepath.Join(tmpDir, "nonexistent"), brokenSymlink)

	dirPath := filepath.Join(tmpDir, "directory")
	_ = os.Mkdir(dirPath, 0755)

	tests := []struct {
		name     string
		path     string
		wantErr  bool
		errMatch string
	}{
		{"valid file", validFile, false, ""},
		{"nonexistent file", filepath.Join(tmpDir, "missing.yaml"), true, "file not found"},
		{"directory", dirPath, true, "path is a directory"},
		{"empty file", emptyFile, true, "file is empty"},
		{"binary file", binaryFile, true, "appears to be binary"},
		{"valid symlink", symlinkFile, false, ""},
		{"broken symlink", brokenSymlink, true, "symlink"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateFilePath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFilePath() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if err != nil && tt.errMatch != "" {
				if !strings.Contains(err.Error(), tt.errMatch) {
					t.Errorf("ValidateFilePath() error = %q, want substring %q", err.Error(), tt.errMatch)
				}
			}
			if !tt.wantErr && !filepath.IsAbs(got) {
				t.Errorf("ValidateFilePath() = %q, want absolute path", got)
			}
		})
	}
}

func TestExpand(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"a.yaml":              "answers: {q1: 5}\n",
		"b.json":              `{"answers": {"q1": 10}}`,
		"notes.txt":           "ignore me",
		"batch/c.yaml":        "answers: {q2: 5}\n",
		"batch/deep/d.yml":    "answers: {q3: 5}\n",
		"catalogs/main.yaml":  "questions: []\n",
		"batch/deep/skip.txt": "ignore me",
	})
	fd := NewFileDiscovery(root, false)

	tests := []struct {
		name    string
		args    []string
		want    []string
		wantErr string
	}{
		{
			name: "explicit files",
			args: []string{"b.json", "a.yaml"},
			want: []string{"a.yaml", "b.json"},
		},
		{
			name: "glob",
			args: []string{"*.{yaml,json}"},
			want: []string{"a.yaml", "b.json"},
		},
		{
			name: "recursive glob",
			args: []string{"batch/**/*.{yaml,yml}"},
			want: []string{"batch/c.yaml", "batch/deep/d.yml"},
		},
		{
			name: "directory",
			args: []string{"batch"},
			want: []string{"batch/c.yaml", "batch/deep/d.yml"},
		},
		{
			name: "duplicates collapse",
			args: []string{"a.yaml", "*.yaml", "a.yaml"},
			want: []string{"a.yaml"},
		},
		{
			name: "glob without matches",
			args: []string{"missing/*.yaml"},
			want: nil,
		},
		{
			name:    "missing file",
			args:    []string{"nope.yaml"},
			wantErr: "file not found",
		},
		{
			name:    "unsupported explicit file",
			args:    []string{"notes.txt"},
			wantErr: "unsupported file type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files, err := fd.Expand(tt.args)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("Expand() error = %v, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Expand() error = %v", err)
			}
			got := relPaths(files)
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("Expand() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExpand_TypesAndContents(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"catalogs/main.yaml": "questions: []\n",
		"sheet.yaml":         "answers: {q1: 5}\n",
	})

	files, err := NewFileDiscovery(root, false).Expand([]string{"**/*.yaml"})
	if err != nil {
		t.Fatalf("Expand() error = %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("Expand() returned %d files, want 2", len(files))
	}

	byPath := map[string]File{}
	for _, f := range files {
		byPath[f.RelPath] = f
	}
	if byPath["catalogs/main.yaml"].Type != FileTypeCatalog {
		t.Errorf("catalogs/main.yaml type = %v, want catalog", byPath["catalogs/main.yaml"].Type)
	}
	sheet := byPath["sheet.yaml"]
	if sheet.Type != FileTypeAnswers {
		t.Errorf("sheet.yaml type = %v, want answers", sheet.Type)
	}
	if string(sheet.Contents) != "answers: {q1: 5}\n" {
		t.Errorf("sheet.yaml contents = %q", sheet.Contents)
	}
	if !filepath.IsAbs(sheet.Path) {
		t.Errorf("Path = %q, want absolute", sheet.Path)
	}
}

func TestExpand_Symlinks(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"real.yaml": "answers: {q1: 5}\n"})
	if err := os.Symlink(filepath.Join(root, "real.yaml"), filepath.Join(root, "link.yaml")); err != nil {
		t.Skip("symlinks not supported")
	}

	files, err := NewFileDiscovery(root, false).Expand([]string{"*.yaml"})
	if err != nil {
		t.Fatal(err)
	}
	if got := relPaths(files); strings.Join(got, ",") != "real.yaml" {
		t.Errorf("without following symlinks got %v, want [real.yaml]", got)
	}

	files, err = NewFileDiscovery(root, true).Expand([]string{"*.yaml"})
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 {
		t.Errorf("following symlinks got %v, want 2 files", relPaths(files))
	}
}
