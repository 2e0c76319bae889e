package constants

// MaxUploadSize caps a single featured image file.
const MaxUploadSize = 5 << 20 // 5 MB

// UploadURLPrefix is where stored images are served from; references carrying
// this prefix point at local files, anything else is a remote URL.
const UploadURLPrefix = "/uploads/"

// AllowedImageExtensions lists accepted featured image file extensions
// (lowercase, with dot).
var AllowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}
