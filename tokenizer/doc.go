/*
Package tokenizer splits a document body into an ordered sequence of blocks.

The tokenizer makes a single forward pass over the body and hands out blocks
one at a time:

	tok := tokenizer.New(body, tokenizer.WithLineOffset(5))
	for {
		b, err := tok.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		...
	}

It recognizes

  - ATX headings ("# Title" up to "###### Title"),
  - fenced code blocks (``` or ~~~) with an info string of the form
    `lang title="file.ts" {1,3-5}`,
  - component invocations: a line starting with "<" and an upper case letter,
    e.g. <Attribution author="Jane" date={2023-04-16} avatar={jane}>,
    closed by </Attribution> or self-closed with "/>",
  - paragraphs: runs of other non-blank lines.

Component children are tokenized recursively. Nesting is bounded by
MaxDepth; a deeper invocation fails with ErrExceededNestingDepth. A fence or
component left open at the end of input fails with ErrUnterminatedBlock.
All errors are *model.SourceError values carrying the offending line.
*/
package tokenizer

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'folio.tokenizer'.
func tracer() tracing.Trace {
	return tracing.Select("folio.tokenizer")
}
