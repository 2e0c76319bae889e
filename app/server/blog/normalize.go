package blog

import "strings"

// publishedForms is the full set of accepted truthy literals for the publish
// flag. Checkbox forms send "on", JSON-ish clients send "true" or "1"; any
// other value (including absent) means draft.
var publishedForms = map[string]bool{
	"true": true,
	"1":    true,
	"on":   true,
}

func ParsePublished(v string) bool {
	return publishedForms[v]
}

// NormalizeTags splits a raw comma-separated tag string into trimmed,
// non-empty tags with order preserved.
func NormalizeTags(raw string) []string {
	tags := []string{}
	for _, tag := range strings.Split(raw, ",") {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// JoinTags is the storage form of a normalized tag sequence.
func JoinTags(tags []string) string {
	return strings.Join(tags, ",")
}
