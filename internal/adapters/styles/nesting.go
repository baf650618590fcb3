package styles

import (
	"context"
	"strings"

	"go.trai.ch/assetpipe/internal/core/domain"
)

// Nesting flattens nested rules. A nested selector containing & has it
// replaced by the parent selector; any other nested selector becomes a
// descendant of its parent. Conditional group rules nested in a rule bubble
// up and wrap the parent selector.
type Nesting struct{}

// Name implements Transform.
func (Nesting) Name() string { return "nesting" }

// Apply implements Transform.
func (Nesting) Apply(_ context.Context, _ *domain.Config, asset domain.Asset) (domain.Asset, error) {
	nodes, err := parse(string(asset.Contents))
	if err != nil {
		return asset, err
	}
	asset.Contents = []byte(render(flatten(nodes, nil)))
	return asset, nil
}

// groupRules are at-rules whose body holds rules and which may be nested
// inside a style rule.
var groupRules = map[string]bool{
	"media":     true,
	"supports":  true,
	"container": true,
	"layer":     true,
	"document":  true,
}

// flatten rewrites nodes in the context of the parent selectors. Declarations
// directly under a group rule nested in a style rule are wrapped in a rule for
// the parents.
func flatten(nodes []*node, parents []string) []*node {
	var out []*node
	var loose []*node

	flushLoose := func() {
		if len(loose) == 0 {
			return
		}
		if parents == nil {
			out = append(out, loose...)
		} else {
			out = append(out, &node{kind: ruleNode, selector: strings.Join(parents, ", "), children: loose, line: loose[0].line})
		}
		loose = nil
	}

	for _, n := range nodes {
		switch {
		case n.kind == ruleNode:
			flushLoose()
			out = append(out, flattenRule(n, parents)...)
		case n.kind == atRuleNode && n.block && groupRules[n.name]:
			flushLoose()
			out = append(out, flattenGroup(n, parents))
		case n.kind == atRuleNode && n.block:
			flushLoose()
			out = append(out, n)
		default:
			loose = append(loose, n)
		}
	}
	flushLoose()
	return out
}

func flattenRule(rule *node, parents []string) []*node {
	selectors := resolveSelectors(rule.selector, parents)

	var own, nested []*node
	for _, c := range rule.children {
		switch {
		case c.kind == ruleNode:
			nested = append(nested, flattenRule(c, selectors)...)
		case c.kind == atRuleNode && c.block && groupRules[c.name]:
			nested = append(nested, flattenGroup(c, selectors))
		case c.kind == atRuleNode && c.block:
			nested = append(nested, c)
		default:
			own = append(own, c)
		}
	}

	out := make([]*node, 0, 1+len(nested))
	if len(own) > 0 || len(nested) == 0 {
		out = append(out, &node{kind: ruleNode, selector: strings.Join(selectors, ", "), children: own, line: rule.line})
	}
	return append(out, nested...)
}

func flattenGroup(group *node, parents []string) *node {
	c := *group
	c.children = flatten(group.children, parents)
	return &c
}

// resolveSelectors combines a selector list with the parent selectors.
func resolveSelectors(selector string, parents []string) []string {
	parts := splitTopLevel(selector, ',')
	if parents == nil {
		return parts
	}

	out := make([]string, 0, len(parts)*len(parents))
	for _, parent := range parents {
		for _, part := range parts {
			if strings.Contains(part, "&") {
				out = append(out, strings.ReplaceAll(part, "&", parent))
			} else {
				out = append(out, parent+" "+part)
			}
		}
	}
	return out
}
