package fleet

import (
	"path/filepath"
	"strings"
)

const defaultMIME = "application/pdf"

var extensionMIME = map[string]string{
	".pdf":  "application/pdf",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

var mimeExtension = map[string]string{
	"application/pdf": ".pdf",
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
}

// InferMIME resolves the content type of an upload: the declared type wins,
// then the declared mime, then the filename extension, then the PDF default.
func InferMIME(filename, declaredType, declaredMIME string) string {
	if declaredType != "" {
		return declaredType
	}
	if declaredMIME != "" {
		return declaredMIME
	}
	if mime, ok := extensionMIME[strings.ToLower(filepath.Ext(filename))]; ok {
		return mime
	}
	return defaultMIME
}

// EnsureExtension appends an extension matching the MIME type when the
// filename has none. Some backends reject extensionless uploads.
func EnsureExtension(filename, mime string) string {
	if filepath.Ext(filename) != "" {
		return filename
	}
	if ext, ok := mimeExtension[mime]; ok {
		return filename + ext
	}
	return filename + ".pdf"
}
