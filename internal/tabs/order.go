// Package tabs orders result groups into a tab sequence and renders each
// group's messages.
package tabs

import "strings"

// DefaultPriority surfaces error, failure and warning groups before neutral
// ones such as Comments or Submitted_File.
var DefaultPriority = []string{"Error", "Failure", "Warning"}

// Order partitions ids by priority term: for each term in turn, every id not
// yet placed that contains the term (case-sensitive substring) is appended.
// Ids matching no term follow. Within every partition ids keep their input
// order, so the result is a stable partition-and-concatenate of ids, which is
// left unmodified.
//
// Forward order is deliberate: ["Error_1", "Error_2"] stays in that order.
// The OwlTest front-end found matches scanning backwards and so listed
// Error_2 first; results pages here list groups as the report wrote them.
func Order(ids []string, terms []string) []string {
	out := make([]string, 0, len(ids))
	placed := make([]bool, len(ids))
	for _, term := range terms {
		for i, id := range ids {
			if placed[i] || !strings.Contains(id, term) {
				continue
			}
			placed[i] = true
			out = append(out, id)
		}
	}
	for i, id := range ids {
		if !placed[i] {
			out = append(out, id)
		}
	}
	return out
}
