package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spherical/pdf-transcriber/internal/domain"
)

// ValidatePath checks that a file path is valid and points to a readable PDF.
func ValidatePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return domain.InvalidConfiguration("file path cannot be empty", nil)
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.InvalidConfiguration(fmt.Sprintf("file does not exist: %s", path), err)
		}
		return domain.InvalidConfiguration(fmt.Sprintf("cannot access file: %s", path), err)
	}

	if info.IsDir() {
		return domain.InvalidConfiguration(fmt.Sprintf("path is a directory, not a file: %s", path), nil)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".pdf" {
		return domain.InvalidConfiguration(fmt.Sprintf("file is not a PDF (has extension %s)", ext), nil)
	}

	file, err := os.Open(path)
	if err != nil {
		return domain.InvalidConfiguration(fmt.Sprintf("cannot open file: %s", path), err)
	}
	file.Close()

	return nil
}

// IsPDF reports whether the file name has a .pdf extension, case-insensitive.
func IsPDF(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".pdf")
}
