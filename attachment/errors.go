package attachment

import "fmt"

// ValidationError reports malformed input. It is raised before any store call.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// UploadError reports a failed object store write. Target names the payload,
// e.g. "thumbnail" or "gallery[2]".
type UploadError struct {
	Target string
	Err    error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("failed to upload %s: %v", e.Target, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// StorageError reports a failed explicit deletion.
type StorageError struct {
	URL string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("failed to delete %s: %v", e.URL, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

type NotFoundError struct {
	URL string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("image %s not found in gallery", e.URL)
}
