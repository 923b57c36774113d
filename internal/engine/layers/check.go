package layers

// Check runs the analyses in order and returns every diagnostic found.
// Order validation is skipped when a cycle exists; the cycle diagnostic is
// reported last.
func (g *Graph) Check() []Diagnostic {
	diags := g.ValidateExists()

	cycle := g.DetectCycles()
	g.hasCycle = cycle != nil
	if cycle != nil {
		return append(diags, *cycle)
	}
	return append(diags, g.ValidateOrder()...)
}
