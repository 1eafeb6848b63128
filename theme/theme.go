package theme

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

type Theme struct {
	Palette *Palette
	Symbols Symbols
}

type Symbols struct {
	LEDOn  rune // ● lit
	LEDOff rune // ○ dark
	Held   rune // ▼ footswitch down
	Up     rune // △ footswitch up
}

func New(palette *Palette) *Theme {
	return &Theme{
		Palette: palette,
		Symbols: Symbols{
			LEDOn:  '●',
			LEDOff: '○',
			Held:   '▼',
			Up:     '△',
		},
	}
}

// Color roles mapped to palette entries (see default.gpl)
const (
	RoleBG = iota
	RoleSurface
	RoleUnlit
	RoleLabel
	RolePatch
	RoleLoop
	RoleBank
	RoleMute
	RoleAccent
)

func (t *Theme) BG() lipgloss.Color      { return t.role(RoleBG) }
func (t *Theme) Surface() lipgloss.Color { return t.role(RoleSurface) }
func (t *Theme) Unlit() lipgloss.Color   { return t.role(RoleUnlit) }
func (t *Theme) Label() lipgloss.Color   { return t.role(RoleLabel) }
func (t *Theme) Patch() lipgloss.Color   { return t.role(RolePatch) }
func (t *Theme) Loop() lipgloss.Color    { return t.role(RoleLoop) }
func (t *Theme) Bank() lipgloss.Color    { return t.role(RoleBank) }
func (t *Theme) Mute() lipgloss.Color    { return t.role(RoleMute) }
func (t *Theme) Accent() lipgloss.Color  { return t.role(RoleAccent) }

func (t *Theme) role(i int) lipgloss.Color {
	return rgbToLipgloss(t.Palette.Index(i))
}

func rgbToLipgloss(c RGB) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2]))
}
