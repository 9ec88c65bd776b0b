package utils

import (
	"bytes"
	"fmt"
	"io"

	"github.com/alecthomas/chroma/v2/quick"
)

const previewLexer = "c++"

// RenderSource writes source to w highlighted as C++ with the given chroma theme.
func RenderSource(w io.Writer, source string, theme string) error {
	var buf bytes.Buffer
	if err := quick.Highlight(&buf, source, previewLexer, "terminal256", theme); err != nil {
		return fmt.Errorf("error rendering preview: %w", err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}
