// Copyright 2026 Sebastian Rodriguez
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package tagger

import "strings"

// CommentStyle describes how a language writes trailing line comments and how
// its statements continue across physical lines.
type CommentStyle struct {
	// Token is the line-comment introducer, e.g. "//" or "#".
	Token string

	// IsContinuation reports whether a line whose trimmed text is given
	// continues its statement onto the next physical line. The check is
	// heuristic; it never inspects more than one line at a time.
	IsContinuation func(trimmed string) bool
}

// Registry maps file extensions to comment styles. Lookup is case-insensitive
// and ignores a leading dot. Extensions outside the registry are untaggable;
// callers skip those files rather than guessing at comment syntax.
type Registry struct {
	styles map[string]CommentStyle
}

// NewRegistry returns a registry pre-populated with the built-in languages.
func NewRegistry() *Registry {
	r := &Registry{styles: make(map[string]CommentStyle)}

	cStyle := CommentStyle{Token: "//", IsContinuation: cContinuation}
	for _, ext := range []string{"c", "cpp", "h", "hpp", "rs"} {
		r.styles[ext] = cStyle
	}
	r.styles["py"] = CommentStyle{Token: "#", IsContinuation: pythonContinuation}

	adaStyle := CommentStyle{Token: "--", IsContinuation: adaContinuation}
	for _, ext := range []string{"adb", "ads", "ada"} {
		r.styles[ext] = adaStyle
	}

	return r
}

// Register adds or replaces the style for an extension. Custom languages get
// the generic continuation heuristic (trailing operator or open bracket).
func (r *Registry) Register(ext, token string) {
	r.styles[normalizeExt(ext)] = CommentStyle{Token: token, IsContinuation: genericContinuation}
}

// Lookup returns the comment style for a file extension, if one is known.
func (r *Registry) Lookup(ext string) (CommentStyle, bool) {
	style, ok := r.styles[normalizeExt(ext)]
	return style, ok
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// Operators that, at the end of a line, indicate the statement continues.
// Multi-character operators are checked before their single-character
// prefixes so "&&" is not mistaken for a binary "&".
var continuationOperators = []string{
	"&&", "||", "<<", ">>", "+", "-", "*", "/", "%", "=", "<", ">", "&", "|", "^", "?", ",",
}

func endsWithOperator(trimmed string) bool {
	for _, op := range continuationOperators {
		if strings.HasSuffix(trimmed, op) {
			return true
		}
	}
	return false
}

func endsWithOpenBracket(trimmed string) bool {
	return strings.HasSuffix(trimmed, "(") ||
		strings.HasSuffix(trimmed, "[") ||
		strings.HasSuffix(trimmed, "{")
}

// netOpenBrackets counts bracket opens minus closes on a single line. A
// positive balance means the line leaves a bracket unterminated. Brackets
// inside string literals are counted too; this is acceptable noise for a
// line-oriented heuristic.
func netOpenBrackets(trimmed string) int {
	depth := 0
	for _, r := range trimmed {
		switch r {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		}
	}
	return depth
}

func cContinuation(trimmed string) bool {
	if trimmed == "" {
		return false
	}
	return endsWithOperator(trimmed) || endsWithOpenBracket(trimmed) || netOpenBrackets(trimmed) > 0
}

func pythonContinuation(trimmed string) bool {
	if trimmed == "" {
		return false
	}
	if strings.HasSuffix(trimmed, "\\") {
		return true
	}
	return endsWithOperator(trimmed) || endsWithOpenBracket(trimmed) || netOpenBrackets(trimmed) > 0
}

func adaContinuation(trimmed string) bool {
	if trimmed == "" {
		return false
	}
	lower := strings.ToLower(trimmed)
	for _, kw := range []string{" and", " or", " and then", " or else"} {
		if strings.HasSuffix(lower, kw) {
			return true
		}
	}
	return strings.HasSuffix(trimmed, ",") ||
		strings.HasSuffix(trimmed, "&") ||
		strings.HasSuffix(trimmed, "(") ||
		netOpenBrackets(trimmed) > 0
}

func genericContinuation(trimmed string) bool {
	if trimmed == "" {
		return false
	}
	return endsWithOperator(trimmed) || endsWithOpenBracket(trimmed) || netOpenBrackets(trimmed) > 0
}
