package styles

import (
	"strings"

	"go.trai.ch/assetpipe/internal/core/domain"
	"go.trai.ch/zerr"
)

type nodeKind uint8

const (
	declNode nodeKind = iota
	ruleNode
	atRuleNode
)

// node is one statement of a stylesheet. Comments are not kept.
type node struct {
	kind nodeKind
	line int

	// declNode: prop and value. A statement without a colon keeps its
	// text in prop and an empty value.
	prop  string
	value string

	// ruleNode: selector.
	selector string

	// atRuleNode: name without "@", params, and whether a block follows.
	name   string
	params string
	block  bool

	children []*node
}

func (n *node) clone() *node {
	c := *n
	c.children = cloneNodes(n.children)
	return &c
}

func cloneNodes(nodes []*node) []*node {
	if nodes == nil {
		return nil
	}
	out := make([]*node, len(nodes))
	for i, n := range nodes {
		out[i] = n.clone()
	}
	return out
}

// parser is a permissive statement-level CSS parser. It understands blocks,
// strings, comments and parentheses, which is enough to restructure
// stylesheets without interpreting values.
type parser struct {
	src  string
	pos  int
	line int
}

func parse(src string) ([]*node, error) {
	p := &parser{src: src, line: 1}
	nodes, closed, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if closed {
		return nil, zerr.With(zerr.With(domain.ErrUnbalancedBlock, "reason", "unexpected '}'"), "line", p.line)
	}
	return nodes, nil
}

// parseBlock reads statements until a closing brace or the end of input.
// closed reports whether a brace ended the block.
func (p *parser) parseBlock() (nodes []*node, closed bool, err error) {
	var buf strings.Builder
	start := p.line
	parens := 0

	flush := func() {
		text := strings.TrimSpace(buf.String())
		buf.Reset()
		if text != "" {
			nodes = append(nodes, statement(text, start))
		}
	}

	for p.pos < len(p.src) {
		c := p.src[p.pos]

		switch {
		case c == '/' && p.pos+1 < len(p.src) && p.src[p.pos+1] == '*':
			end := strings.Index(p.src[p.pos+2:], "*/")
			if end < 0 {
				return nil, false, zerr.With(zerr.With(domain.ErrUnbalancedBlock, "reason", "unterminated comment"), "line", p.line)
			}
			comment := p.src[p.pos : p.pos+2+end+2]
			p.line += strings.Count(comment, "\n")
			p.pos += len(comment)
			continue

		case c == '"' || c == '\'':
			s, err := p.readString(c)
			if err != nil {
				return nil, false, err
			}
			buf.WriteString(s)
			continue

		case c == '(':
			parens++
		case c == ')':
			if parens > 0 {
				parens--
			}

		case c == ';' && parens == 0:
			flush()
			p.pos++
			start = p.line
			continue

		case c == '{' && parens == 0:
			head := strings.TrimSpace(buf.String())
			buf.Reset()
			line := start
			p.pos++
			children, ok, err := p.parseBlock()
			if err != nil {
				return nil, false, err
			}
			if !ok {
				return nil, false, zerr.With(zerr.With(domain.ErrUnbalancedBlock, "reason", "missing '}'"), "line", line)
			}
			nodes = append(nodes, blockStatement(head, children, line))
			start = p.line
			continue

		case c == '}' && parens == 0:
			flush()
			p.pos++
			return nodes, true, nil

		case c == '\n':
			p.line++
			if strings.TrimSpace(buf.String()) == "" {
				start = p.line
			}
		}

		buf.WriteByte(c)
		p.pos++
	}

	flush()
	return nodes, false, nil
}

func (p *parser) readString(quote byte) (string, error) {
	begin := p.pos
	line := p.line
	p.pos++
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch c {
		case '\\':
			p.pos += 2
			continue
		case '\n':
			return "", zerr.With(zerr.With(domain.ErrUnbalancedBlock, "reason", "unterminated string"), "line", line)
		case quote:
			p.pos++
			return p.src[begin:p.pos], nil
		}
		p.pos++
	}
	return "", zerr.With(zerr.With(domain.ErrUnbalancedBlock, "reason", "unterminated string"), "line", line)
}

func statement(text string, line int) *node {
	if name, params, ok := splitAtRule(text); ok {
		return &node{kind: atRuleNode, name: name, params: params, line: line}
	}
	prop, value, ok := strings.Cut(text, ":")
	if !ok {
		return &node{kind: declNode, prop: text, line: line}
	}
	return &node{kind: declNode, prop: strings.TrimSpace(prop), value: strings.TrimSpace(value), line: line}
}

func blockStatement(head string, children []*node, line int) *node {
	if name, params, ok := splitAtRule(head); ok {
		return &node{kind: atRuleNode, name: name, params: params, block: true, children: children, line: line}
	}
	return &node{kind: ruleNode, selector: head, children: children, line: line}
}

func splitAtRule(text string) (name, params string, ok bool) {
	if !strings.HasPrefix(text, "@") {
		return "", "", false
	}
	rest := text[1:]
	end := strings.IndexFunc(rest, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '(' || r == '"' || r == '\''
	})
	if end < 0 {
		return rest, "", true
	}
	return rest[:end], strings.TrimSpace(rest[end:]), true
}

// render prints nodes as indented CSS.
func render(nodes []*node) string {
	var b strings.Builder
	writeNodes(&b, nodes, 0)
	return b.String()
}

func writeNodes(b *strings.Builder, nodes []*node, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, n := range nodes {
		switch n.kind {
		case declNode:
			b.WriteString(indent)
			b.WriteString(n.prop)
			if n.value != "" {
				b.WriteString(": ")
				b.WriteString(n.value)
			}
			b.WriteString(";\n")

		case ruleNode:
			b.WriteString(indent)
			b.WriteString(n.selector)
			b.WriteString(" {\n")
			writeNodes(b, n.children, depth+1)
			b.WriteString(indent)
			b.WriteString("}\n")

		case atRuleNode:
			b.WriteString(indent)
			b.WriteString("@")
			b.WriteString(n.name)
			if n.params != "" {
				b.WriteString(" ")
				b.WriteString(n.params)
			}
			if !n.block {
				b.WriteString(";\n")
				continue
			}
			b.WriteString(" {\n")
			writeNodes(b, n.children, depth+1)
			b.WriteString(indent)
			b.WriteString("}\n")
		}
	}
}

// splitTopLevel splits s on sep outside parentheses, brackets and strings.
// Parts are trimmed; empty parts are dropped.
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	depth := 0
	var quote byte
	last := 0

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '(' || c == '[':
			depth++
		case c == ')' || c == ']':
			if depth > 0 {
				depth--
			}
		case c == sep && depth == 0:
			if part := strings.TrimSpace(s[last:i]); part != "" {
				parts = append(parts, part)
			}
			last = i + 1
		}
	}
	if part := strings.TrimSpace(s[last:]); part != "" {
		parts = append(parts, part)
	}
	return parts
}
