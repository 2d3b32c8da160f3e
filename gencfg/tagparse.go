package gencfg

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Attr is one parsed entry of an attribute-injection list. Attribute lists
// use struct-tag syntax: space-separated `key:"value"` pairs.
type Attr struct {
	Key   string
	Value string
}

type attrListNode struct {
	Entries []attrEntryNode `@@*`
}

type attrEntryNode struct {
	Key   string `@Ident ":"`
	Value string `@String`
}

var attrLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "String", Pattern: `"(\\"|[^"])*"`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_.\-]*`},
	{Name: "Colon", Pattern: `:`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var attrParser = participle.MustBuild[attrListNode](
	participle.Lexer(attrLexer),
	participle.Elide("Whitespace"),
	participle.Unquote("String"),
)

// parseAttrList parses raw attribute-injection text. An empty or
// whitespace-only string is a valid empty list.
func parseAttrList(raw string) ([]Attr, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	node, err := attrParser.ParseString("", raw)
	if err != nil {
		return nil, err
	}
	attrs := make([]Attr, 0, len(node.Entries))
	for _, e := range node.Entries {
		attrs = append(attrs, Attr{Key: e.Key, Value: e.Value})
	}
	return attrs, nil
}
