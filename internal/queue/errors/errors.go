// Package errors holds the user-facing error strings published on the
// status queue when a render job fails.
package errors

const (
	ErrDownload = "failed to fetch the source image"
	ErrRender   = "failed to render the image"
	ErrUpload   = "failed to store the rendered image"
)
