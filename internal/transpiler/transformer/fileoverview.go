package transformer

import (
	"martianoff/tsclosure/internal/jsast"
	"martianoff/tsclosure/internal/transpiler/jsdoc"
)

const generatedOverview = "added by tsclosure"

// addFileOverview makes sure the leading comments contain a @fileoverview
// comment and merges the default suppressions into it.
func addFileOverview(fc *fileContext, stmts []jsast.Stmt) ([]jsast.Stmt, error) {
	leading := 0
	for leading < len(stmts) {
		c, ok := stmts[leading].(*jsast.CommentStmt)
		if !ok {
			break
		}
		if jsdoc.HasTag(c.Text, "fileoverview") {
			out := append([]jsast.Stmt(nil), stmts...)
			out[leading] = fc.rewriteOverview(c)
			return out, nil
		}
		leading++
	}

	tags := []*jsdoc.Tag{{TagName: "fileoverview", Text: generatedOverview}}
	if fc.opts.GenerateExtraSuppressions {
		tags = append(tags, &jsdoc.Tag{TagName: "suppress", Type: jsdoc.MergeSuppressions("", jsdoc.DefaultSuppressions)})
	}
	overview := &jsast.CommentStmt{Text: jsdoc.ToString(tags, true)}
	fc.synthesized.Insert(overview)

	out := make([]jsast.Stmt, 0, len(stmts)+1)
	out = append(out, stmts[:leading]...)
	out = append(out, overview)
	return append(out, stmts[leading:]...), nil
}

func (fc *fileContext) rewriteOverview(c *jsast.CommentStmt) *jsast.CommentStmt {
	tags := fc.userTags(c, c.Text)
	if fc.opts.GenerateExtraSuppressions {
		var suppress *jsdoc.Tag
		for _, t := range tags {
			if t.TagName == "suppress" {
				suppress = t
				break
			}
		}
		if suppress == nil {
			suppress = &jsdoc.Tag{TagName: "suppress"}
			tags = append(tags, suppress)
		}
		suppress.Type = jsdoc.MergeSuppressions(suppress.Type, jsdoc.DefaultSuppressions)
	}
	nc := &jsast.CommentStmt{Base: c.Base, Text: jsdoc.ToString(tags, true)}
	fc.derive(nc, c)
	return nc
}
