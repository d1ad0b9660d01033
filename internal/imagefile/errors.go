package imagefile

import "errors"

// Error kinds callers branch on with errors.Is. Load and Save wrap these with
// the offending path and the underlying cause.
var (
	ErrNotFound          = errors.New("file not found")
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrDecode            = errors.New("image decode failed")
	ErrEncode            = errors.New("image encode failed")
	ErrPermission        = errors.New("write permission denied")
)
