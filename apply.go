package sheetmerge

// Apply returns a deep copy of original with every kept change written at its
// path, in change set order. Discarded changes leave the original value in
// place. Neither argument is modified, so calling Apply again with the same
// inputs yields an identical document.
func Apply(original any, changes *ChangeSet) any {
	final := Clone(original)
	for _, c := range changes.Records() {
		if !c.Keep {
			continue
		}
		final = ParsePath(c.Path).Write(final, Clone(c.NewValue))
	}
	return final
}
