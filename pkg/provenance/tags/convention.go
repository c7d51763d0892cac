package tags

import (
	"regexp"

	"github.com/matzehuels/stackprov/pkg/provenance"
)

// versionShape splits a tag into a minimal prefix, a core of two or more
// integer groups and whatever follows.
var versionShape = regexp.MustCompile(`^(.*?)([0-9]+(?:[._-][0-9]+)+)(.*)$`)

var coreSeparator = regexp.MustCompile(`[._-]`)

// InferConvention derives the dominant tag spelling from tags. Prefix,
// separator and suffix are voted on independently; the most frequent value
// of each wins. Prefix and suffix ties go to the value seen first; a
// separator tie yields ".".
//
// Tags without a recognizable version shape do not vote. If none has one,
// [provenance.IdentityConvention] is returned.
func InferConvention(tags []provenance.TagRecord) provenance.TagConvention {
	var prefixes, seps, suffixes tally
	for _, t := range tags {
		m := versionShape.FindStringSubmatch(t.Name)
		if m == nil {
			continue
		}
		prefixes.add(m[1])
		seps.add(coreSeparator.FindString(m[2]))
		suffixes.add(m[3])
	}
	if prefixes.empty() {
		return provenance.IdentityConvention
	}
	return provenance.TagConvention{
		Prefix:    prefixes.mode(),
		Separator: seps.modeOr("."),
		Suffix:    suffixes.mode(),
	}
}

// tally counts values while remembering first-seen order.
type tally struct {
	order  []string
	counts map[string]int
}

func (t *tally) add(v string) {
	if t.counts == nil {
		t.counts = make(map[string]int)
	}
	if _, ok := t.counts[v]; !ok {
		t.order = append(t.order, v)
	}
	t.counts[v]++
}

func (t *tally) empty() bool { return len(t.order) == 0 }

// mode returns the most frequent value, the earliest one on a tie.
func (t *tally) mode() string {
	best, bestN := "", -1
	for _, v := range t.order {
		if n := t.counts[v]; n > bestN {
			best, bestN = v, n
		}
	}
	return best
}

// modeOr is the single most frequent value, or def when the top count is
// shared by more than one value.
func (t *tally) modeOr(def string) string {
	best := t.mode()
	for _, v := range t.order {
		if v != best && t.counts[v] == t.counts[best] {
			return def
		}
	}
	return best
}
