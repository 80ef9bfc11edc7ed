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

import (
	"regexp"
	"strings"
)

// DefaultColumn is the column at which an inserted trailing comment starts
// when the code is short enough to allow it.
const DefaultColumn = 80

// tagBlockSearchStart is the earliest column at which a detached trailing tag
// block may begin on a deleted-marker line. Searching from here keeps the
// marker comment itself out of the match.
const tagBlockSearchStart = 40

var (
	tagPattern   = regexp.MustCompile(`^[A-Z]+-[0-9]+$`)
	tagSeparator = regexp.MustCompile(`[,\s]+`)
)

// IsTag reports whether s is an issue identifier such as "SMR-1010".
func IsTag(s string) bool {
	return tagPattern.MatchString(s)
}

// ExtractTags returns the issue identifiers embedded in a comment string, in
// order of appearance. Identifiers glued to a comment token ("//SMR-1010",
// "#SMR-1010", "--SMR-1010") are recognized too.
func ExtractTags(comment string) []string {
	var tags []string
	for _, part := range tagSeparator.Split(comment, -1) {
		cleaned := strings.TrimLeft(part, "/#-")
		if IsTag(cleaned) {
			tags = append(tags, cleaned)
		}
	}
	return tags
}

// IsDeletedMarker reports whether a line is a "deleted" marker comment: the
// comment token immediately followed by the word "deleted", with at most one
// space in between. Such lines memorialize removed code and are the only
// comment-only lines eligible for tagging.
func IsDeletedMarker(line string, style CommentStyle) bool {
	stripped := strings.ToLower(strings.TrimSpace(line))
	token := strings.ToLower(style.Token)
	return strings.HasPrefix(stripped, token+"deleted") ||
		strings.HasPrefix(stripped, token+" deleted")
}

// Compose merges tag into a single line of source text and reports whether
// the line changed. The result is a new string; the input is never mutated.
//
// A line already carrying the tag is returned unchanged, so composing twice
// is byte-identical to composing once. Code lines get their trailing comment
// rebuilt as one comment holding any pre-existing comment text followed by
// the deduplicated tag list, aligned to start at column (single-space
// separated when the code is too long). Deleted-marker lines get the tag
// appended to the marker comment itself rather than a second comment.
func Compose(line string, style CommentStyle, tag string, column int) (string, bool) {
	if column <= 0 {
		column = DefaultColumn
	}
	for _, existing := range ExtractTags(line) {
		if existing == tag {
			return line, false
		}
	}

	if IsDeletedMarker(line, style) {
		return composeMarker(line, style, tag), true
	}

	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, style.Token) {
		// Blank or ordinary comment line: nothing to tag.
		return line, false
	}

	return composeCode(line, style, tag, column), true
}

// composeCode rebuilds a code line's trailing comment with tag merged in. A
// trailing carriage return counts as trailing whitespace; rewritten lines
// come out LF-only.
func composeCode(line string, style CommentStyle, tag string, column int) string {
	line = strings.TrimRight(line, " \t\r")

	code := line
	comment := ""
	if idx := strings.Index(line, style.Token); idx >= 0 {
		code = strings.TrimRight(line[:idx], " \t")
		comment = line[idx:]
	}

	// Split the existing comment into tags and everything else, dropping
	// the comment token itself. Non-tag text survives in front of the tag
	// list so "// units: feet" stays readable.
	var words []string
	tags := []string{}
	for _, part := range tagSeparator.Split(comment, -1) {
		if part == "" || part == style.Token {
			continue
		}
		cleaned := strings.TrimLeft(part, "/#-")
		if IsTag(cleaned) {
			tags = appendTag(tags, cleaned)
			continue
		}
		// Strip a glued comment token ("//note") but keep the word.
		words = append(words, strings.TrimPrefix(part, style.Token))
	}
	tags = appendTag(tags, tag)

	body := strings.Join(words, " ")
	rebuilt := style.Token + " "
	if body != "" {
		rebuilt += body + ", "
	}
	rebuilt += strings.Join(tags, ", ")

	return code + separator(len(code), column) + rebuilt
}

// composeMarker appends the tag list to a deleted-marker comment. Any
// detached tag block left over from an earlier format is folded in first so
// the line ends up with exactly one comment.
func composeMarker(line string, style CommentStyle, tag string) string {
	line = strings.TrimRight(line, " \t\r")

	tags := []string{}
	for _, t := range ExtractTags(line) {
		tags = appendTag(tags, t)
	}
	tags = appendTag(tags, tag)

	marker := trimTrailingTags(line, style)
	return marker + ", " + strings.Join(tags, ", ")
}

// trimTrailingTags removes a detached tag-block comment and any trailing tag
// list from the end of a marker line, leaving only the marker text.
func trimTrailingTags(line string, style CommentStyle) string {
	if len(line) > tagBlockSearchStart {
		if idx := strings.Index(line[tagBlockSearchStart:], style.Token); idx >= 0 {
			line = strings.TrimRight(line[:tagBlockSearchStart+idx], " \t")
		}
	}

	for {
		stripped := strings.TrimRight(line, " \t,")
		cut := strings.LastIndexAny(stripped, " \t,")
		if cut < 0 {
			return line
		}
		last := strings.TrimLeft(stripped[cut+1:], "/#-")
		if !IsTag(last) {
			return line
		}
		line = strings.TrimRight(stripped[:cut], " \t,")
	}
}

// separator returns the spacing between code and its trailing comment: padded
// so the comment starts exactly at column when the code fits, a single space
// otherwise. Code is never truncated or wrapped to make room.
func separator(codeLen, column int) string {
	padding := column - 1 - codeLen
	if padding < 1 {
		return " "
	}
	return strings.Repeat(" ", padding)
}

func appendTag(tags []string, tag string) []string {
	for _, t := range tags {
		if t == tag {
			return tags
		}
	}
	return append(tags, tag)
}
