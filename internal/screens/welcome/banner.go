package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/parley/internal/ui/theme"
)

const bannerArt = `
 ██████╗  █████╗ ██████╗ ██╗     ███████╗██╗   ██╗
 ██╔══██╗██╔══██╗██╔══██╗██║     ██╔════╝╚██╗ ██╔╝
 ██████╔╝███████║██████╔╝██║     █████╗   ╚████╔╝
 ██╔═══╝ ██╔══██║██╔══██╗██║     ██╔══╝    ╚██╔╝
 ██║     ██║  ██║██║  ██║███████╗███████╗   ██║
 ╚═╝     ╚═╝  ╚═╝╚═╝  ╚═╝╚══════╝╚══════╝   ╚═╝`

const bannerCompact = "P A R L E Y"

// bannerMinWidth is the narrowest terminal that fits bannerArt.
const bannerMinWidth = 52

// RenderBanner returns the PARLEY banner styled in the primary color.
// Narrow terminals get the compact form.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < bannerMinWidth {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
