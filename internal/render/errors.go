package render

import (
	stderrors "errors"
	"fmt"

	"github.com/cockroachdb/errors"
)

// Failure kinds. Every error returned while building a Context carries
// exactly one of these; test with errors.Is.
var (
	ErrDriverUnavailable             = errors.New("graphics driver unavailable")
	ErrLayerOrExtensionUnsupported   = errors.New("layer or extension unsupported")
	ErrNoDeviceFound                 = errors.New("no physical device found")
	ErrIncompleteQueueFamilies       = errors.New("incomplete queue families")
	ErrDeviceCreationFailed          = errors.New("logical device creation failed")
	ErrSurfaceCreationFailed         = errors.New("surface creation failed")
	ErrSurfaceQueryFailed            = errors.New("surface query failed")
	ErrSwapChainCreationFailed       = errors.New("swap chain creation failed")
	ErrFrameResourceAllocationFailed = errors.New("frame resource allocation failed")
)

var kinds = []error{
	ErrDriverUnavailable,
	ErrLayerOrExtensionUnsupported,
	ErrNoDeviceFound,
	ErrIncompleteQueueFamilies,
	ErrDeviceCreationFailed,
	ErrSurfaceCreationFailed,
	ErrSurfaceQueryFailed,
	ErrSwapChainCreationFailed,
	ErrFrameResourceAllocationFailed,
}

// Kind returns the failure kind carried by err, or nil if err did not
// come out of this package.
func Kind(err error) error {
	if err == nil {
		return nil
	}
	for _, kind := range kinds {
		if stderrors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

// Fail builds an error of the given kind for the named operation. A
// driver-side cause, when present, is kept as the wrapped error so its
// text and stack survive; the kind is still reported by errors.Is.
func Fail(kind error, op string, cause error) error {
	if cause == nil {
		return errors.Wrap(kind, op)
	}
	return &kindError{cause: errors.Wrap(cause, op), kind: kind}
}

// kindError is a driver failure tagged with one of the kinds above. It
// unwraps to the cause and matches the kind.
type kindError struct {
	cause error
	kind  error
}

func (e *kindError) Error() string { return e.cause.Error() }

func (e *kindError) Unwrap() error { return e.cause }

func (e *kindError) Is(target error) bool { return target == e.kind }

func (e *kindError) Format(s fmt.State, verb rune) { errors.FormatError(e, s, verb) }

func (e *kindError) FormatError(p errors.Printer) error {
	if p.Detail() {
		p.Printf("kind: %s", e.kind)
	}
	return e.cause
}

func failf(kind error, format string, args ...interface{}) error {
	return errors.Wrapf(kind, format, args...)
}
