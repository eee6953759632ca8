package workset

// renumberAfterDelete shifts a set of positional row indexes across a
// deletion: indexes after the deleted position move down by one and the
// deleted index itself is dropped. Edit tracking here is positional, so this
// bookkeeping has to happen on every local removal.
func renumberAfterDelete(indexes []int, deleted int) []int {
	if len(indexes) == 0 {
		return nil
	}
	out := make([]int, 0, len(indexes))
	for _, i := range indexes {
		switch {
		case i == deleted:
			// dropped with the row
		case i > deleted:
			out = append(out, i-1)
		default:
			out = append(out, i)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
