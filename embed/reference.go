package embed

import (
	"regexp"
	"strings"
)

// Prefix opens every embed placeholder.
const Prefix = "identify-block"

// placeholderPattern matches identify-block:<block-type>:<alias> with an
// optional /<field-path> tail. Alias rules follow document aliases: lower
// case, digits, single hyphen separators.
var placeholderPattern = regexp.MustCompile(`identify-block:([a-z0-9_]+):([a-z0-9]+(?:-[a-z0-9]+)*)((?:/[a-z0-9_][a-z0-9_.-]*)*)`)

// Reference is a parsed embed placeholder.
type Reference struct {
	// EmbedCode is the exact placeholder text as matched.
	EmbedCode string
	// BlockType is the block category the placeholder names.
	BlockType string
	// Alias addresses the document.
	Alias string
	// FieldPath scopes rendering to one nested field. Empty means the whole
	// block.
	FieldPath []string
}

// HasFieldPath reports whether the placeholder addresses a single field.
func (r Reference) HasFieldPath() bool {
	return len(r.FieldPath) > 0
}

// Find scans a body of text and returns every embed placeholder in document
// order. Text outside the placeholder grammar is ignored.
func Find(content string) []Reference {
	matches := placeholderPattern.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return nil
	}

	refs := make([]Reference, 0, len(matches))
	for _, match := range matches {
		refs = append(refs, referenceFromMatch(match))
	}
	return refs
}

// Parse reads a single embed code. The whole input must be one placeholder.
func Parse(code string) (Reference, bool) {
	match := placeholderPattern.FindStringSubmatch(code)
	if match == nil || match[0] != code {
		return Reference{}, false
	}
	return referenceFromMatch(match), true
}

func referenceFromMatch(match []string) Reference {
	ref := Reference{
		EmbedCode: match[0],
		BlockType: match[1],
		Alias:     match[2],
	}
	if tail := match[3]; tail != "" {
		ref.FieldPath = strings.Split(strings.TrimPrefix(tail, "/"), "/")
	}
	return ref
}
