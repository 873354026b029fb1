// Package jsdoc models Closure JSDoc comments: parsing user comments,
// merging generated tags and printing them back out.
package jsdoc

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/hashicorp/go-set/v3"
)

// Tag is one JSDoc tag. A Tag with an empty TagName holds free text.
type Tag struct {
	TagName       string
	ParameterName string
	Type          string
	Optional      bool
	RestParam     bool
	Text          string
}

// Comment is a parsed JSDoc comment.
type Comment struct {
	Tags []*Tag
}

// closureTags is the tag vocabulary the downstream compiler understands.
// Anything else is escaped on output.
var closureTags = set.From([]string{
	"abstract", "argument", "author", "const", "constant", "constructor", "copyright",
	"define", "deprecated", "desc", "dict", "enum", "export", "expose", "extends",
	"externs", "fileoverview", "final", "hidden", "idGenerator", "implements",
	"implicitCast", "inheritDoc", "interface", "lends", "license", "link", "meaning",
	"modifies", "noalias", "nocollapse", "nocompile", "nosideeffects", "override",
	"owner", "package", "param", "polymer", "polymerBehavior", "preserve", "private",
	"protected", "public", "record", "requirecss", "return", "see", "struct", "suppress",
	"template", "this", "throws", "type", "typedef", "unrestricted", "version",
})

// conflictTags are generated from the source types. User supplied copies
// are dropped.
var conflictTags = set.From([]string{
	"augments", "class", "constructs", "constructor", "enum", "extends", "field",
	"function", "implements", "interface", "lends", "namespace", "record", "template",
	"this", "type", "typedef",
})

// typedTags carry a type in braces that duplicates the source type.
var typedTags = set.From([]string{"param", "return"})

// oneLineTags print as "/** @tag {T} */" when alone.
var oneLineTags = set.From([]string{"type", "typedef", "nocollapse", "const", "enum", "record"})

// IsClosureTag reports whether name belongs to the Closure tag vocabulary.
func IsClosureTag(name string) bool {
	return closureTags.Contains(name)
}

var tagNamePattern = regexp.MustCompile(`^@([^\s{]+)\s*(.*)$`)

// Parse parses a "/** ... */" comment. It returns nil for other comments.
// Tags that conflict with generated ones are removed and reported in the
// returned warnings.
func Parse(comment string) (*Comment, []string) {
	text, ok := strip(comment)
	if !ok {
		return nil, nil
	}

	var warnings []string
	c := &Comment{}
	var current *Tag
	for _, line := range strings.Split(text, "\n") {
		m := tagNamePattern.FindStringSubmatch(line)
		if m == nil {
			if current == nil {
				if strings.TrimSpace(line) == "" && len(c.Tags) == 0 {
					continue
				}
				current = &Tag{}
				c.Tags = append(c.Tags, current)
				current.Text = line
				continue
			}
			if current.Text == "" {
				current.Text = line
			} else {
				current.Text += "\n" + line
			}
			continue
		}

		name, rest := m[1], m[2]
		if name == "returns" {
			name = "return"
		}
		if conflictTags.Contains(name) {
			warnings = append(warnings, fmt.Sprintf("@%s annotations are redundant with TypeScript equivalents", name))
			current = &Tag{TagName: name}
			continue
		}
		tag := &Tag{TagName: name}
		switch {
		case typedTags.Contains(name):
			if strings.HasPrefix(rest, "{") {
				_, after := splitBraces(rest)
				warnings = append(warnings, fmt.Sprintf("the type annotation on @%s is redundant with its TypeScript type, remove the {...} part", name))
				rest = strings.TrimSpace(after)
			}
			if name == "param" {
				pname, after, _ := strings.Cut(rest, " ")
				tag.ParameterName = pname
				rest = strings.TrimSpace(after)
			}
			tag.Text = rest
		case name == "suppress":
			if strings.HasPrefix(rest, "{") {
				inner, after := splitBraces(rest)
				tag.Type = inner
				rest = strings.TrimSpace(after)
			}
			tag.Text = rest
		default:
			tag.Text = rest
		}
		c.Tags = append(c.Tags, tag)
		current = tag
	}
	trimTrailingBlank(c)
	return c, warnings
}

// strip removes the comment delimiters and leading " * " of each line.
func strip(comment string) (string, bool) {
	comment = strings.TrimSpace(comment)
	if !strings.HasPrefix(comment, "/**") || !strings.HasSuffix(comment, "*/") || len(comment) < 5 {
		return "", false
	}
	body := comment[3 : len(comment)-2]
	lines := strings.Split(body, "\n")
	for i, l := range lines {
		l = strings.TrimSpace(l)
		l = strings.TrimPrefix(l, "*")
		l = strings.TrimPrefix(l, " ")
		lines[i] = strings.TrimRight(l, " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n")), true
}

// splitBraces splits "{T} rest" into "T" and " rest", honoring nesting.
func splitBraces(s string) (string, string) {
	depth := 0
	for i, r := range s {
		switch r {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[1:i], s[i+1:]
			}
		}
	}
	return strings.TrimPrefix(s, "{"), ""
}

func trimTrailingBlank(c *Comment) {
	for _, t := range c.Tags {
		t.Text = strings.TrimRight(t.Text, "\n ")
	}
}

// HasTag reports whether the comment text contains the tag "@name".
func HasTag(comment, name string) bool {
	c, _ := Parse(comment)
	return c != nil && c.Find(name) != nil
}

// Find returns the first tag called name, or nil.
func (c *Comment) Find(name string) *Tag {
	if c == nil {
		return nil
	}
	for _, t := range c.Tags {
		if t.TagName == name {
			return t
		}
	}
	return nil
}

// Remove drops every tag called name.
func (c *Comment) Remove(name string) {
	out := c.Tags[:0]
	for _, t := range c.Tags {
		if t.TagName != name {
			out = append(out, t)
		}
	}
	c.Tags = out
}

// WithoutParams returns the tags other than @param and @return, which are
// regenerated for functions.
func (c *Comment) WithoutParams() []*Tag {
	if c == nil {
		return nil
	}
	var out []*Tag
	for _, t := range c.Tags {
		if t.TagName == "param" || t.TagName == "return" {
			continue
		}
		out = append(out, t)
	}
	return out
}

// String prints the comment.
func (c *Comment) String() string {
	if c == nil {
		return ""
	}
	return ToString(c.Tags, true)
}

// ToString prints tags as a JSDoc comment. When escapeExtraTags is set,
// tags outside the Closure vocabulary are written as "\@tag".
func ToString(tags []*Tag, escapeExtraTags bool) string {
	if len(tags) == 0 {
		return ""
	}
	if len(tags) == 1 {
		t := tags[0]
		if oneLineTags.Contains(t.TagName) && !strings.Contains(t.Text, "\n") {
			return "/** " + tagToString(t, escapeExtraTags) + " */"
		}
	}
	var sb strings.Builder
	sb.WriteString("/**\n")
	for _, t := range tags {
		for _, line := range strings.Split(tagToString(t, escapeExtraTags), "\n") {
			if line == "" {
				sb.WriteString(" *\n")
				continue
			}
			sb.WriteString(" * ")
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}
	sb.WriteString(" */")
	return sb.String()
}

func tagToString(t *Tag, escapeExtraTags bool) string {
	if t.TagName == "" {
		return t.Text
	}
	var sb strings.Builder
	if escapeExtraTags && !IsClosureTag(t.TagName) {
		sb.WriteString(`\@`)
	} else {
		sb.WriteString("@")
	}
	sb.WriteString(t.TagName)
	if t.Type != "" {
		sb.WriteString(" {")
		if t.RestParam {
			sb.WriteString("...")
		}
		sb.WriteString(t.Type)
		if t.Optional {
			sb.WriteString("=")
		}
		sb.WriteString("}")
	}
	if t.ParameterName != "" {
		sb.WriteString(" ")
		sb.WriteString(t.ParameterName)
	}
	if t.Text != "" {
		sb.WriteString(" ")
		sb.WriteString(t.Text)
	}
	return sb.String()
}

// Merge combines the tags describing the same position across overloads.
// Distinct parameter names are joined with "_or_", distinct types form a
// union and distinct texts are joined with " / " (", " for @template).
func Merge(tags []*Tag) (*Tag, error) {
	if len(tags) == 0 {
		return nil, errors.AssertionFailedf("cannot merge an empty tag list")
	}
	name := tags[0].TagName
	var params, types, texts orderedSet
	merged := &Tag{TagName: name}
	for _, t := range tags {
		if t.TagName != name {
			return nil, errors.AssertionFailedf("cannot merge @%s with @%s", name, t.TagName)
		}
		params.add(t.ParameterName)
		for _, member := range unionMembers(t.Type) {
			types.add(member)
		}
		texts.add(t.Text)
		merged.Optional = merged.Optional || t.Optional
		merged.RestParam = merged.RestParam || t.RestParam
	}
	merged.ParameterName = strings.Join(params.items, "_or_")
	merged.Type = strings.Join(types.items, "|")
	if len(types.items) > 1 {
		merged.Type = "(" + merged.Type + ")"
	}
	sep := " / "
	if name == "template" {
		sep = ", "
	}
	merged.Text = strings.Join(texts.items, sep)
	return merged, nil
}

// unionMembers splits a type expression into its top level union
// members, unwrapping one pair of enclosing parentheses.
func unionMembers(typ string) []string {
	typ = strings.TrimSpace(typ)
	if typ == "" {
		return nil
	}
	if inner, ok := unwrapParens(typ); ok {
		typ = inner
	}
	var (
		out   []string
		depth int
		start int
	)
	for i, r := range typ {
		switch r {
		case '(', '<', '{', '[':
			depth++
		case ')', '>', '}', ']':
			depth--
		case '|':
			if depth == 0 {
				out = append(out, strings.TrimSpace(typ[start:i]))
				start = i + 1
			}
		}
	}
	return append(out, strings.TrimSpace(typ[start:]))
}

// unwrapParens strips parentheses that enclose all of typ.
func unwrapParens(typ string) (string, bool) {
	if !strings.HasPrefix(typ, "(") || !strings.HasSuffix(typ, ")") {
		return "", false
	}
	depth := 0
	for i, r := range typ {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 && i != len(typ)-1 {
				return "", false
			}
		}
	}
	return typ[1 : len(typ)-1], true
}

// orderedSet keeps the first occurrence of each non-empty string.
type orderedSet struct {
	seen  *set.Set[string]
	items []string
}

func (o *orderedSet) add(s string) {
	if s == "" {
		return
	}
	if o.seen == nil {
		o.seen = set.New[string](4)
	}
	if o.seen.Insert(s) {
		o.items = append(o.items, s)
	}
}
