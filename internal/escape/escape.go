// Package escape implements HTML escaping of plain text and the "dressing"
// mechanism that shields literal markup from a blanket escaping pass.
//
// The intended sequence is Dress on the markup, insert it into the text,
// Escape the whole string, then Undress. Angle brackets that came from the
// text stay escaped; the ones that came from the dressed markup come back.
package escape

import "strings"

// Sentinel tokens placed around every dressed angle bracket. They contain no
// character that Escape rewrites, so they survive escaping intact. Both are
// framed by private-use code points (U+E000, U+E001).
const (
	PreSentinel  = sentinelOpen + "regexapply:dress:pre" + sentinelClose
	PostSentinel = sentinelOpen + "regexapply:dress:post" + sentinelClose

	sentinelOpen  = "\uE000"
	sentinelClose = "\uE001"
)

var (
	// Ampersand first: the later rules introduce ampersands of their own.
	escapeReplacer = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
	)
	unescapeReplacer = strings.NewReplacer(
		"&lt;", "<",
		"&gt;", ">",
		"&amp;", "&",
	)
	dressReplacer = strings.NewReplacer(
		"<", PreSentinel+"<"+PostSentinel,
		">", PreSentinel+">"+PostSentinel,
	)
	undressReplacer = strings.NewReplacer(
		PreSentinel+"&lt;"+PostSentinel, "<",
		PreSentinel+"&gt;"+PostSentinel, ">",
	)
	stripReplacer = strings.NewReplacer(
		PreSentinel, "",
		PostSentinel, "",
	)
)

// Escape replaces &, < and > with their HTML entities.
func Escape(s string) string {
	return escapeReplacer.Replace(s)
}

// Unescape reverses Escape. Other entities are left alone.
func Unescape(s string) string {
	return unescapeReplacer.Replace(s)
}

// Dress wraps every < and > in s with PreSentinel and PostSentinel.
func Dress(s string) string {
	return dressReplacer.Replace(s)
}

// Undress turns escaped angle brackets that were dressed before escaping
// back into bare < and >.
func Undress(s string) string {
	return undressReplacer.Replace(s)
}

// StripSentinels removes any sentinel token left in s.
func StripSentinels(s string) string {
	if !strings.Contains(s, sentinelOpen) {
		return s
	}
	return stripReplacer.Replace(s)
}
