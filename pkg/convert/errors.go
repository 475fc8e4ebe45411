package convert

import "errors"

// Conversion errors. Failures of the conversion itself wrap one of these;
// transport and I/O errors from collaborators are returned wrapped with context.
var (
	// ErrFormat indicates structurally malformed input, such as a string that is
	// not a base64 data URI or an input of the wrong Go type for its source form.
	ErrFormat = errors.New("malformed input")

	// ErrDecode indicates text outside the base64 alphabet or a binary string
	// containing code points above 255.
	ErrDecode = errors.New("decode failed")

	// ErrNotFound indicates a path source that does not exist.
	ErrNotFound = errors.New("file not found")

	// ErrUnsupportedConversion indicates an unrecognized conversion kind.
	// Returned as *UnsupportedConversionError, which names the kind.
	ErrUnsupportedConversion = errors.New("unsupported conversion")

	// ErrPersistence indicates that writing the result to SaveFilePath failed.
	ErrPersistence = errors.New("persist result failed")

	// ErrPayloadTooLarge indicates a payload exceeding the configured maximum size.
	ErrPayloadTooLarge = errors.New("payload exceeds maximum size")
)

// UnsupportedConversionError reports the kind string that could not be dispatched.
type UnsupportedConversionError struct {
	Kind string
}

func (e *UnsupportedConversionError) Error() string {
	return ErrUnsupportedConversion.Error() + ": " + e.Kind
}

func (e *UnsupportedConversionError) Unwrap() error {
	return ErrUnsupportedConversion
}
