package core

// Tag is an opaque attribute or character-set tag attached to a byte run.
// Its meaning belongs to the caller; the engine only compares tags.
type Tag string

// NoTag marks an untagged run.
const NoTag Tag = ""

// Run is one run-length entry: Len consecutive bytes carrying Tag.
type Run struct {
	Tag Tag
	Len int
}

// Runs is an ordered run-length list covering a byte string.
type Runs []Run

// Len returns the total number of bytes covered.
func (rs Runs) Len() int {
	n := 0
	for _, r := range rs {
		n += r.Len
	}
	return n
}

// Append adds a run, merging it into the last run when the tags match.
// Empty runs are dropped.
func (rs Runs) Append(r Run) Runs {
	if r.Len <= 0 {
		return rs
	}
	if n := len(rs); n > 0 && rs[n-1].Tag == r.Tag {
		rs[n-1].Len += r.Len
		return rs
	}
	return append(rs, r)
}

// Join appends every run of other, merging at the seam.
func (rs Runs) Join(other Runs) Runs {
	for _, r := range other {
		rs = rs.Append(r)
	}
	return rs
}

// Clone returns an independent copy.
func (rs Runs) Clone() Runs {
	if rs == nil {
		return nil
	}
	out := make(Runs, len(rs))
	copy(out, rs)
	return out
}

// TagAt returns the tag covering byte i, or NoTag past the end.
func (rs Runs) TagAt(i int) Tag {
	pos := 0
	for _, r := range rs {
		if i < pos+r.Len {
			return r.Tag
		}
		pos += r.Len
	}
	return NoTag
}

// Widen grows the first and last runs by the given amounts.
// On an empty list the growth becomes untagged runs.
func (rs Runs) Widen(left, right int) Runs {
	if len(rs) == 0 {
		return Runs{}.Append(Run{Len: left + right})
	}
	out := rs.Clone()
	out[0].Len += left
	out[len(out)-1].Len += right
	return out
}
