package ui

// WindowTitle is base alone, or "base - suffix" when a suffix is given
func WindowTitle(base, suffix string) string {
	if suffix == "" {
		return base
	}
	return base + " - " + suffix
}
