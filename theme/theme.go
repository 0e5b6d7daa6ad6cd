package theme

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"go-midirecv/midi"
)

type Theme struct {
	Palette *Palette
	Symbols Symbols
}

type Symbols struct {
	ChannelIdle   rune // · no traffic
	ChannelActive rune // ● recent traffic
	ChannelMuted  rune // - filtered out
}

func New(palette *Palette) *Theme {
	return &Theme{
		Palette: palette,
		Symbols: Symbols{
			ChannelIdle:   '·',
			ChannelActive: '●',
			ChannelMuted:  '-',
		},
	}
}

// Color roles mapped to palette positions (0-1)
const (
	RoleMuted   = 0.2
	RoleFG      = 0.6
	RoleAccent  = 0.5
	RoleWarning = 0.8
	RoleSuccess = 1.0
)

func (t *Theme) FG() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleFG))
}

func (t *Theme) Accent() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleAccent))
}

func (t *Theme) Muted() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleMuted))
}

func (t *Theme) Warning() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleWarning))
}

func (t *Theme) Success() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleSuccess))
}

// KindRGB spreads the message kinds over the upper part of the palette
func (t *Theme) KindRGB(k midi.Kind) RGB {
	if k == midi.KindNone {
		return t.Palette.Lookup(RoleMuted)
	}
	norm := 0.3 + 0.7*float64(k-1)/float64(len(midi.Kinds)-1)
	return t.Palette.Lookup(norm)
}

func (t *Theme) Kind(k midi.Kind) lipgloss.Color {
	return rgbToLipgloss(t.KindRGB(k))
}

func rgbToLipgloss(c RGB) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2]))
}
