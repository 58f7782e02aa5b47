package domain

import "strings"

// allowedImageExtensions are the image types accepted for upload.
var allowedImageExtensions = map[string]struct{}{
	"png":  {},
	"jpeg": {},
	"jpg":  {},
	"gif":  {},
	"webp": {},
}

// ImageExtensionAllowed reports whether ext (without dot, any case) is an
// accepted image type.
func ImageExtensionAllowed(ext string) bool {
	_, ok := allowedImageExtensions[strings.ToLower(ext)]
	return ok
}

// AllowedImageExtensions returns the accepted extensions, for error messages.
func AllowedImageExtensions() []string {
	return []string{"png", "jpeg", "jpg", "gif", "webp"}
}

// PresignedUpload is the result of a presign request: where the browser
// should PUT the bytes, and the key the object will live under.
type PresignedUpload struct {
	UploadURL string
	Key       string
}
