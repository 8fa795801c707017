package config

// Terminal cells approximate an 8x16 pixel glyph.
const (
	pixelsPerColumn = 8
	pixelsPerRow    = 16

	// padding is applied on both sides, so it is counted at half width
	pixelsPerPadding = 10
)

// PanelSize converts the configured window size into terminal cells. The
// UI uses it as the upper bound for the conversation panel.
func (u UIConfig) PanelSize() (cols, rows int) {
	return cellsOf(u.WindowWidth, pixelsPerColumn), cellsOf(u.WindowHeight, pixelsPerRow)
}

// PaddingCells converts the configured padding into horizontal cells.
func (u UIConfig) PaddingCells() int {
	if u.Padding <= 0 {
		return 0
	}
	return cellsOf(u.Padding, pixelsPerPadding)
}

func cellsOf(px, per int) int {
	if px <= 0 {
		return 0
	}
	n := px / per
	if n == 0 {
		n = 1
	}
	return n
}
