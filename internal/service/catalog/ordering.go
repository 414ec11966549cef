package catalog

// NextOrder returns the default order for a new child: step when the parent
// has no children yet, otherwise max+step. Existing siblings are never renumbered.
func NextOrder(max int, hasSiblings bool, step int) int {
	if !hasSiblings {
		return step
	}
	return max + step
}
