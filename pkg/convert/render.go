package convert

import (
	"bytes"
	"encoding/base64"
	"fmt"

	"golang.org/x/text/encoding/charmap"
)

type encoder func(payload []byte, mime string) (any, error)

var encoders = map[TargetForm]encoder{
	TargetBuffer:    encodeBuffer,
	TargetBase64:    encodeBase64,
	TargetBase64URL: encodeDataURI,
	TargetBinary:    encodeBinary,
	TargetStream:    encodeStream,
}

func encodeBuffer(payload []byte, _ string) (any, error) {
	return payload, nil
}

func encodeBase64(payload []byte, _ string) (any, error) {
	return base64.StdEncoding.EncodeToString(payload), nil
}

func encodeDataURI(payload []byte, mime string) (any, error) {
	return DataURI(mime, payload), nil
}

func encodeBinary(payload []byte, _ string) (any, error) {
	b, err := charmap.ISO8859_1.NewDecoder().Bytes(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: latin-1 decode: %v", ErrDecode, err)
	}
	return string(b), nil
}

func encodeStream(payload []byte, _ string) (any, error) {
	return newStream(payload), nil
}

// DataURI renders payload as data:<mime>;base64,<standard base64>.
func DataURI(mime string, payload []byte) string {
	var buf bytes.Buffer
	buf.Grow(len("data:;base64,") + len(mime) + base64.StdEncoding.EncodedLen(len(payload)))
	buf.WriteString("data:")
	buf.WriteString(mime)
	buf.WriteString(";base64,")
	buf.WriteString(base64.StdEncoding.EncodeToString(payload))
	return buf.String()
}
