package ocr

import (
	"errors"
	"net/url"
	"strings"
	"unicode"
)

// ErrInvalidFileName reports a file name that cannot be turned into an image URL.
var ErrInvalidFileName = errors.New("invalid file name")

// maxUnescapes bounds how many layers of percent-encoding are peeled off.
const maxUnescapes = 3

// FileNameError describes why a file name was rejected.
type FileNameError struct {
	Name   string
	Reason string
}

func (e *FileNameError) Error() string {
	return ErrInvalidFileName.Error() + ": " + e.Reason
}

func (e *FileNameError) Unwrap() error {
	return ErrInvalidFileName
}

// ValidateFileName rejects empty names, absolute paths, control characters
// and any ".." path segment. The checks apply to the raw name and to every
// percent-decoded form of it, since the name ends up inside a URL.
func ValidateFileName(name string) error {
	if strings.TrimSpace(name) == "" {
		return &FileNameError{Name: name, Reason: "file name is required"}
	}

	forms := []string{name}
	current := name
	for i := 0; i < maxUnescapes; i++ {
		decoded, err := url.PathUnescape(current)
		if err != nil {
			return &FileNameError{Name: name, Reason: "file name has invalid percent-encoding"}
		}
		if decoded == current {
			break
		}
		forms = append(forms, decoded)
		current = decoded
	}
	if strings.Contains(current, "%") {
		if decoded, err := url.PathUnescape(current); err == nil && decoded != current {
			return &FileNameError{Name: name, Reason: "file name is encoded too many times"}
		}
	}

	for _, form := range forms {
		if reason := checkPath(form); reason != "" {
			return &FileNameError{Name: name, Reason: reason}
		}
	}
	return nil
}

func checkPath(name string) string {
	if strings.HasPrefix(name, "/") || strings.HasPrefix(name, `\`) {
		return "file name must be relative"
	}
	if strings.IndexFunc(name, unicode.IsControl) >= 0 {
		return "file name contains control characters"
	}
	segments := strings.FieldsFunc(name, func(r rune) bool { return r == '/' || r == '\\' })
	for _, seg := range segments {
		if seg == ".." {
			return "file name must not traverse directories"
		}
	}
	return ""
}

// BuildImageURL appends fileName to prefix verbatim.
func BuildImageURL(prefix, fileName string) string {
	return prefix + fileName
}
