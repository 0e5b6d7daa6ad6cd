package theme

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"go-midirecv/midi"
)

const gpl = `GIMP Palette
Name: test
Columns: 2
# comment
  0   0   0	black
255 255 255	white
`

func TestParseGPL(t *testing.T) {
	p, err := ParseGPL(strings.NewReader(gpl))
	require.NoError(t, err)
	require.Equal(t, "test", p.Name)
	require.Equal(t, []RGB{{0, 0, 0}, {255, 255, 255}}, p.Colors)

	_, err = ParseGPL(strings.NewReader("GIMP Palette\n"))
	require.Error(t, err)
}

func TestLookup(t *testing.T) {
	p := &Palette{Colors: []RGB{{0, 0, 0}, {200, 100, 50}}}
	require.Equal(t, RGB{0, 0, 0}, p.Lookup(-1))
	require.Equal(t, RGB{200, 100, 50}, p.Lookup(2))
	require.Equal(t, RGB{100, 50, 25}, p.Lookup(0.5))

	single := &Palette{Colors: []RGB{{1, 2, 3}}}
	require.Equal(t, RGB{1, 2, 3}, single.Lookup(0.5))
}

func TestLoadOrDefault(t *testing.T) {
	require.Equal(t, DefaultPalette(), LoadOrDefault(""))
	require.Equal(t, DefaultPalette(), LoadOrDefault("/does/not/exist.gpl"))
}

func TestKindColors(t *testing.T) {
	th := New(DefaultPalette())
	require.NotEqual(t, th.KindRGB(midi.NoteOff), th.KindRGB(midi.PitchBend))
	require.Equal(t, th.Palette.Lookup(RoleMuted), th.KindRGB(midi.KindNone))
	require.True(t, strings.HasPrefix(string(th.Kind(midi.NoteOn)), "#"))
}
