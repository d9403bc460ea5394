// Package frontmatter splits YAML front-matter from markdown documents and
// parses it into attribute maps.
package frontmatter

import (
	"bytes"
	"errors"

	"gopkg.in/yaml.v3"
)

// ErrMissingClosingDelimiter indicates the document started with a YAML
// front-matter delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("front-matter start delimiter found but closing delimiter is missing")

// Split separates a `---` delimited YAML front-matter block from the markdown
// body. If the document does not start with a delimiter, had is false and
// body is the full input. Both LF and CRLF documents are handled.
func Split(content []byte) (fm, body []byte, had bool, err error) {
	nl := detectNewline(content)

	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return nil, content, false, nil
	}

	rest := content[len(open):]
	if bytes.HasPrefix(rest, open) {
		// Empty front-matter block.
		return []byte{}, rest[len(open):], true, nil
	}

	closeSeq := []byte(nl + "---" + nl)
	idx := bytes.Index(rest, closeSeq)
	if idx < 0 {
		return nil, nil, false, ErrMissingClosingDelimiter
	}

	fmEnd := idx + len(nl)
	bodyStart := idx + len(closeSeq)
	return rest[:fmEnd], rest[bodyStart:], true, nil
}

// Parse unmarshals raw front-matter (without delimiters) into an attribute
// map. Empty input yields an empty, non-nil map.
func Parse(fm []byte) (map[string]any, error) {
	attrs := map[string]any{}
	if len(fm) == 0 {
		return attrs, nil
	}
	if err := yaml.Unmarshal(fm, &attrs); err != nil {
		return nil, err
	}
	if attrs == nil {
		attrs = map[string]any{}
	}
	return attrs, nil
}

func detectNewline(content []byte) string {
	for i := 0; i+1 < len(content); i++ {
		if content[i] == '\r' && content[i+1] == '\n' {
			return "\r\n"
		}
		if content[i] == '\n' {
			return "\n"
		}
	}
	return "\n"
}
