// Package textscan derives hashtags and mentions from free text.
// Both scans are pure and total: empty or absent text yields an empty result.
package textscan

import (
	"regexp"
	"strings"
)

var (
	hashtagPattern = regexp.MustCompile(`#[A-Za-z0-9_]+`)
	mentionPattern = regexp.MustCompile(`@[A-Za-z0-9_]+`)
)

// Hashtags returns the distinct lowercase tags found in text, in first-occurrence
// order, with the leading marker stripped.
func Hashtags(text string) []string {
	if text == "" {
		return nil
	}
	var tags []string
	seen := make(map[string]struct{})
	for _, m := range hashtagPattern.FindAllString(text, -1) {
		tag := strings.ToLower(m[1:])
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	return tags
}

// Mentions returns the distinct handles found in text, in first-occurrence order.
// Case is preserved as written; duplicates are collapsed case-insensitively, so
// "@Agent1 and @agent1" yields a single entry. Self-mentions are the caller's
// concern, not filtered here.
func Mentions(text string) []string {
	if text == "" {
		return nil
	}
	var handles []string
	seen := make(map[string]struct{})
	for _, m := range mentionPattern.FindAllString(text, -1) {
		handle := m[1:]
		key := strings.ToLower(handle)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		handles = append(handles, handle)
	}
	return handles
}
