package jsdoc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"martianoff/tsclosure/internal/transpiler/jsdoc"
)

func TestParse(t *testing.T) {
	c, warnings := jsdoc.Parse(`/**
 * Adds two numbers.
 * @param {number} a the first
 * @param b the second
 * @returns the sum
 * @deprecated use plus
 */`)
	require.NotNil(t, c)
	require.Len(t, c.Tags, 5)
	assert.Equal(t, "Adds two numbers.", c.Tags[0].Text)
	assert.Equal(t, &jsdoc.Tag{TagName: "param", ParameterName: "a", Text: "the first"}, c.Tags[1])
	assert.Equal(t, &jsdoc.Tag{TagName: "param", ParameterName: "b", Text: "the second"}, c.Tags[2])
	assert.Equal(t, "return", c.Tags[3].TagName)
	assert.Equal(t, "deprecated", c.Tags[4].TagName)
	assert.Equal(t, []string{"the type annotation on @param is redundant with its TypeScript type, remove the {...} part"}, warnings)
}

func TestParseDropsConflictingTags(t *testing.T) {
	c, warnings := jsdoc.Parse("/** @type {string}\n * @export */")
	require.NotNil(t, c)
	require.Len(t, c.Tags, 1)
	assert.Equal(t, "export", c.Tags[0].TagName)
	assert.Equal(t, []string{"@type annotations are redundant with TypeScript equivalents"}, warnings)
}

func TestParseNonJSDoc(t *testing.T) {
	c, _ := jsdoc.Parse("/* plain */")
	assert.Nil(t, c)
	c, _ = jsdoc.Parse("// line")
	assert.Nil(t, c)
}

func TestParseSuppress(t *testing.T) {
	c, _ := jsdoc.Parse("/**\n * @fileoverview Things.\n * @suppress {visibility,checkTypes}\n */")
	require.NotNil(t, c)
	tag := c.Find("suppress")
	require.NotNil(t, tag)
	assert.Equal(t, "visibility,checkTypes", tag.Type)
	assert.Equal(t, "Things.", c.Find("fileoverview").Text)
}

func TestHasTag(t *testing.T) {
	assert.True(t, jsdoc.HasTag("/** @Annotation */", "Annotation"))
	assert.False(t, jsdoc.HasTag("/** Annotation */", "Annotation"))
	assert.False(t, jsdoc.HasTag("", "Annotation"))
}

func TestToString(t *testing.T) {
	tests := []struct {
		name string
		tags []*jsdoc.Tag
		want string
	}{
		{"empty", nil, ""},
		{
			"one line type",
			[]*jsdoc.Tag{{TagName: "type", Type: "number"}},
			"/** @type {number} */",
		},
		{
			"params",
			[]*jsdoc.Tag{
				{TagName: "param", Type: "string", ParameterName: "a"},
				{TagName: "param", Type: "number", ParameterName: "b", Optional: true},
				{TagName: "param", Type: "boolean", ParameterName: "rest", RestParam: true},
				{TagName: "return", Type: "void"},
			},
			"/**\n * @param {string} a\n * @param {number=} b\n * @param {...boolean} rest\n * @return {void}\n */",
		},
		{
			"escaped unknown tag",
			[]*jsdoc.Tag{{Text: "Docs."}, {TagName: "Annotation"}},
			"/**\n * Docs.\n * \\@Annotation\n */",
		},
		{
			"template",
			[]*jsdoc.Tag{{TagName: "template", Text: "T, U"}, {TagName: "extends", Type: "Base<T>"}},
			"/**\n * @template T, U\n * @extends {Base<T>}\n */",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, jsdoc.ToString(tt.tags, true))
		})
	}
}

func TestRoundTrip(t *testing.T) {
	src := "/**\n * Line one.\n *\n * Line two.\n * @deprecated\n */"
	c, warnings := jsdoc.Parse(src)
	assert.Empty(t, warnings)
	assert.Equal(t, src, c.String())
}

func TestMerge(t *testing.T) {
	merged, err := jsdoc.Merge([]*jsdoc.Tag{
		{TagName: "param", ParameterName: "a", Type: "string", Text: "first"},
		{TagName: "param", ParameterName: "b", Type: "number", Text: "second"},
		{TagName: "param", ParameterName: "a", Type: "string", Optional: true},
	})
	require.NoError(t, err)
	assert.Equal(t, &jsdoc.Tag{
		TagName:       "param",
		ParameterName: "a_or_b",
		Type:          "(string|number)",
		Optional:      true,
		Text:          "first / second",
	}, merged)

	single, err := jsdoc.Merge([]*jsdoc.Tag{{TagName: "return", Type: "T"}, {TagName: "return", Type: "T"}})
	require.NoError(t, err)
	assert.Equal(t, "T", single.Type)

	tmpl, err := jsdoc.Merge([]*jsdoc.Tag{{TagName: "template", Text: "T"}, {TagName: "template", Text: "U"}})
	require.NoError(t, err)
	assert.Equal(t, "T, U", tmpl.Text)

	_, err = jsdoc.Merge([]*jsdoc.Tag{{TagName: "param"}, {TagName: "return"}})
	assert.Error(t, err)
	_, err = jsdoc.Merge(nil)
	assert.Error(t, err)
}

func TestMergeFlattensUnions(t *testing.T) {
	tests := []struct {
		name  string
		types []string
		want  string
	}{
		{name: "three overloads", types: []string{"string", "number", "boolean"}, want: "(string|number|boolean)"},
		{name: "union inputs", types: []string{"(string|number)", "boolean", "(number|null)"}, want: "(string|number|boolean|null)"},
		{name: "nested generics kept", types: []string{"!Map<string,(number|null)>", "undefined"}, want: "(!Map<string,(number|null)>|undefined)"},
		{name: "function type kept", types: []string{"function(): (A|B)", "C"}, want: "(function(): (A|B)|C)"},
		{name: "same union twice", types: []string{"(A|B)", "(B|A)"}, want: "(A|B)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tags := make([]*jsdoc.Tag, len(tt.types))
			for i, typ := range tt.types {
				tags[i] = &jsdoc.Tag{TagName: "return", Type: typ}
			}
			merged, err := jsdoc.Merge(tags)
			require.NoError(t, err)
			assert.Equal(t, tt.want, merged.Type)
		})
	}
}

func TestMergeSuppressions(t *testing.T) {
	assert.Equal(t, "checkTypes,const,visibility",
		jsdoc.MergeSuppressions("visibility, checkTypes", []string{"const", "checkTypes"}))
	assert.Equal(t, "checkTypes,const,extraRequire,missingOverride,missingRequire,missingReturn,unusedPrivateMembers,uselessCode",
		jsdoc.MergeSuppressions("", jsdoc.DefaultSuppressions))
	assert.Equal(t, "", jsdoc.MergeSuppressions("", nil))
}
