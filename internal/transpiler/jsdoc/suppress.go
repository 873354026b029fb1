package jsdoc

import (
	"cmp"
	"strings"

	"github.com/hashicorp/go-set/v3"
)

// DefaultSuppressions are added to every file overview when extra
// suppressions are enabled.
var DefaultSuppressions = []string{
	"checkTypes",
	"const",
	"extraRequire",
	"missingOverride",
	"missingRequire",
	"missingReturn",
	"unusedPrivateMembers",
	"uselessCode",
}

// MergeSuppressions returns the sorted union of the comma separated
// suppression list existing and extra.
func MergeSuppressions(existing string, extra []string) string {
	all := set.NewTreeSet[string](cmp.Compare[string])
	for _, s := range strings.Split(existing, ",") {
		if s = strings.TrimSpace(s); s != "" {
			all.Insert(s)
		}
	}
	all.InsertSlice(extra)
	return strings.Join(all.Slice(), ",")
}
