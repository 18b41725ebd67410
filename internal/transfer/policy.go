package transfer

import "strings"

// sourceTag marks descriptions carrying an automatically appended
// source attribution, e.g. "BRCA2 homolog [Source:UniProtKB]".
const sourceTag = "[Source:"

// ShouldReplaceDescription decides whether the description carried
// over from the old database overwrites the one in the new database.
//
// An empty old description never overwrites anything. An empty new
// description is always filled in. When both are set, the old
// description wins only if the new one carries a source attribution
// tag and the old one does not: the tag means the text was appended
// mechanically, while a tag-less description was hand curated.
func ShouldReplaceDescription(oldDesc, newDesc string) bool {
	if oldDesc == "" {
		return false
	}
	if newDesc == "" {
		return true
	}
	return strings.Contains(newDesc, sourceTag) && !strings.Contains(oldDesc, sourceTag)
}
