package matching

// stopWords are ignored when computing required-word coverage of a title.
// Keys are lowercase for case-insensitive matching.
var stopWords = map[string]struct{}{
	"a":    {},
	"an":   {},
	"the":  {},
	"and":  {},
	"or":   {},
	"of":   {},
	"in":   {},
	"on":   {},
	"at":   {},
	"to":   {},
	"for":  {},
	"by":   {},
	"with": {},
	"from": {},
}

// roleWords mark contributor credits that are not authors.
var roleWords = map[string]struct{}{
	"translator":   {},
	"translated":   {},
	"translation":  {},
	"narrator":     {},
	"narrated":     {},
	"editor":       {},
	"edited":       {},
	"illustrator":  {},
	"illustrated":  {},
	"foreword":     {},
	"afterword":    {},
	"introduction": {},
	"contributor":  {},
	"adaptation":   {},
	"adapted":      {},
	"reader":       {},
	"compiler":     {},
	"compiled":     {},
	"preface":      {},
}

// releaseTags are words that commonly trail a title in release names and
// do not extend the title itself.
var releaseTags = map[string]struct{}{
	"audiobook":  {},
	"audiobooks": {},
	"audio":      {},
	"unabridged": {},
	"abridged":   {},
	"m4b":        {},
	"m4a":        {},
	"mp3":        {},
	"flac":       {},
	"aac":        {},
	"ogg":        {},
	"opus":       {},
	"epub":       {},
	"mobi":       {},
	"azw3":       {},
	"pdf":        {},
	"retail":     {},
	"complete":   {},
	"kbps":       {},
}

// IsStopWord reports whether a lowercase word is ignored for coverage.
func IsStopWord(word string) bool {
	_, ok := stopWords[word]
	return ok
}

func isRoleWord(word string) bool {
	_, ok := roleWords[word]
	return ok
}

func isReleaseTag(word string) bool {
	_, ok := releaseTags[word]
	return ok
}

// isYear reports whether a word looks like a publication year (1800-2099).
func isYear(word string) bool {
	if len(word) != 4 {
		return false
	}
	for i := 0; i < 4; i++ {
		if word[i] < '0' || word[i] > '9' {
			return false
		}
	}
	return word[:2] == "18" || word[:2] == "19" || word[:2] == "20"
}
