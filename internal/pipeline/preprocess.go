package pipeline

import (
	"context"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// MarkdownPreprocessor prepares raw source text for parsing.
type MarkdownPreprocessor interface {
	PreprocessMarkdown(ctx context.Context, content string) string
}

// CommonMarkPreprocessor fixes encoding details that editors leave behind:
// a leading byte order mark, CRLF or CR line endings and decomposed
// characters. Markdown structure is never touched.
type CommonMarkPreprocessor struct{}

var lineEndings = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// PreprocessMarkdown returns content unchanged when ctx is already done.
func (*CommonMarkPreprocessor) PreprocessMarkdown(ctx context.Context, content string) string {
	if ctx.Err() != nil {
		return content
	}
	content = strings.TrimPrefix(content, "\ufeff")
	return norm.NFC.String(lineEndings.Replace(content))
}

var _ MarkdownPreprocessor = (*CommonMarkPreprocessor)(nil)
