// Package join concatenates matched strings.
package join

import (
	"strings"

	"github.com/dl/regexapply/internal/template"
)

// Join wraps every element of matched in prefix and postfix and puts
// separator between the wrapped elements:
//
//	prefix + m0 + postfix + separator + prefix + m1 + postfix ...
//
// The \\, \n and \t escapes in the three strings are resolved first. An
// empty matched yields the empty string.
func Join(matched []string, separator, prefix, postfix string) string {
	if len(matched) == 0 {
		return ""
	}
	separator = template.Unescape(separator)
	prefix = template.Unescape(prefix)
	postfix = template.Unescape(postfix)
	return prefix + strings.Join(matched, postfix+separator+prefix) + postfix
}
