package merge

import "github.com/mawicks/gaspra/modules/changeset"

// consolidate runs the two-pass conflict consolidation described in
// spec §4.4.2 over the raw merged stream.
func consolidate[T comparable](raw []changeset.Fragment[T]) []changeset.Fragment[T] {
	result := pass2(pass1(raw))
	if len(result) == 0 {
		// merge("", "", "") must still be representable as one empty run.
		return []changeset.Fragment[T]{changeset.CopyFragment[T]{Content: nil, Length: 0}}
	}
	return result
}

// pass1 re-diffs each contiguous run of Conflict fragments against
// itself: it concatenates their Version1 sides into V1 and their
// Version2 sides into V2, then runs FindChangeset(V2, V1) over the two
// conflict sides. Any common substring found there becomes an
// ordinary copy (shrinking the reported conflict); any remaining
// difference becomes a Conflict fragment again. Non-conflict items
// between conflict groups pass through untouched.
func pass1[T comparable](items []changeset.Fragment[T]) []changeset.Fragment[T] {
	var out []changeset.Fragment[T]
	i := 0
	for i < len(items) {
		conflict, ok := items[i].(changeset.ConflictFragment[T])
		if !ok {
			out = append(out, items[i])
			i++
			continue
		}

		var v1, v2 []T
		j := i
		for j < len(items) {
			c, ok := items[j].(changeset.ConflictFragment[T])
			if !ok {
				break
			}
			v1 = append(v1, c.Version1...)
			v2 = append(v2, c.Version2...)
			j++
		}
		_ = conflict

		tree := changeset.FindChangeset(v2, v1)
		for _, frag := range changeset.Fragments(tree, v2) {
			switch f := frag.(type) {
			case changeset.CopyFragment[T]:
				out = append(out, f)
			case changeset.ChangeFragment[T]:
				out = append(out, changeset.ConflictFragment[T]{Version1: f.Insert, Version2: f.Delete})
			}
		}
		i = j
	}
	return out
}

func isAgreed[T comparable](f changeset.Fragment[T]) bool {
	switch f.(type) {
	case changeset.CopyFragment[T], changeset.ChangeFragment[T]:
		return true
	default:
		return false
	}
}

// pass2 collapses any contiguous run of Conflict fragments into one
// Conflict carrying their concatenated sides, and any contiguous run
// of Copy/Change fragments into one token-run carrying their
// concatenated content.
func pass2[T comparable](items []changeset.Fragment[T]) []changeset.Fragment[T] {
	var out []changeset.Fragment[T]
	i := 0
	for i < len(items) {
		if _, ok := items[i].(changeset.ConflictFragment[T]); ok {
			var v1, v2 []T
			j := i
			for j < len(items) {
				c, ok := items[j].(changeset.ConflictFragment[T])
				if !ok {
					break
				}
				v1 = append(v1, c.Version1...)
				v2 = append(v2, c.Version2...)
				j++
			}
			out = append(out, changeset.ConflictFragment[T]{Version1: v1, Version2: v2})
			i = j
			continue
		}

		var content []T
		j := i
		for j < len(items) && isAgreed(items[j]) {
			switch f := items[j].(type) {
			case changeset.CopyFragment[T]:
				content = append(content, f.Content...)
			case changeset.ChangeFragment[T]:
				content = append(content, f.Insert...)
			}
			j++
		}
		out = append(out, changeset.CopyFragment[T]{Content: content, Length: len(content)})
		i = j
	}
	return out
}
