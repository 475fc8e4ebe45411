package convert

import (
	"slices"
	"strings"
)

// SourceForm identifies the representation a conversion input arrives in.
type SourceForm string

// Source forms. Each maps to exactly one decoder.
const (
	SourceBuffer    SourceForm = "buffer"
	SourceBase64    SourceForm = "base64"
	SourceBase64URL SourceForm = "base64Url"
	SourceBinary    SourceForm = "binary"
	SourcePath      SourceForm = "path"
	SourceStream    SourceForm = "stream"
	SourceURL       SourceForm = "url"

	// SourceAuto resolves to one of the concrete forms from the shape of the input.
	SourceAuto SourceForm = "auto"
)

// TargetForm identifies the representation a conversion renders into.
// There is no path target; persistence is requested through Options.SaveFilePath.
type TargetForm string

// Target forms. Each maps to exactly one encoder.
//
// TargetBase64URL keeps its historical name but renders a standard
// data URI (data:<mime>;base64,<std-base64>), not the RFC 4648 URL-safe alphabet.
const (
	TargetBuffer    TargetForm = "Buffer"
	TargetBase64    TargetForm = "Base64"
	TargetBase64URL TargetForm = "Base64Url"
	TargetBinary    TargetForm = "Binary"
	TargetStream    TargetForm = "Stream"
)

var (
	sourceForms = []SourceForm{
		SourceBuffer, SourceBase64, SourceBase64URL, SourceBinary,
		SourcePath, SourceStream, SourceURL, SourceAuto,
	}
	targetForms = []TargetForm{
		TargetBuffer, TargetBase64, TargetBase64URL, TargetBinary, TargetStream,
	}
)

// Kind is a parsed (source, target) conversion pair.
type Kind struct {
	Source SourceForm
	Target TargetForm
}

// String returns the external name of the kind, e.g. "pathToBase64".
func (k Kind) String() string {
	return string(k.Source) + "To" + string(k.Target)
}

// ParseKind parses an external kind name such as "urlToStream".
// Unrecognized names return an *UnsupportedConversionError.
func ParseKind(name string) (Kind, error) {
	src, dst, ok := strings.Cut(name, "To")
	if !ok {
		return Kind{}, &UnsupportedConversionError{Kind: name}
	}

	kind := Kind{Source: SourceForm(src), Target: TargetForm(dst)}
	if !kind.Source.valid() || !kind.Target.valid() {
		return Kind{}, &UnsupportedConversionError{Kind: name}
	}

	return kind, nil
}

// Kinds returns every recognized kind: the 35 concrete source × target pairs
// followed by the auto-detecting pairs.
func Kinds() []Kind {
	kinds := make([]Kind, 0, len(sourceForms)*len(targetForms))
	for _, src := range sourceForms {
		for _, dst := range targetForms {
			kinds = append(kinds, Kind{Source: src, Target: dst})
		}
	}
	return kinds
}

func (s SourceForm) valid() bool {
	return slices.Contains(sourceForms, s)
}

func (t TargetForm) valid() bool {
	return slices.Contains(targetForms, t)
}
