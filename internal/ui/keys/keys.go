package keys

import tea "github.com/charmbracelet/bubbletea"

type KeyMap struct {
	Quit         []string
	Help         []string
	Jump         []string
	Up           []string
	Down         []string
	Top          []string
	Bottom       []string
	PageUp       []string
	PageDown     []string
	HalfPageUp   []string
	HalfPageDown []string
	Recenter     []string
	Enter        []string
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit:         []string{"q", "ctrl+c"},
		Help:         []string{"?"},
		Jump:         []string{":"},
		Up:           []string{"k", "up"},
		Down:         []string{"j", "down"},
		Top:          []string{"g", "home"},
		Bottom:       []string{"G", "end"},
		PageUp:       []string{"pgup"},
		PageDown:     []string{"pgdown"},
		HalfPageUp:   []string{"ctrl+u"},
		HalfPageDown: []string{"ctrl+d"},
		Recenter:     []string{"z"},
		Enter:        []string{"enter"},
	}
}

// FromConfigSlices overlays non-empty config bindings onto the defaults.
func FromConfigSlices(quit, help, jump, up, down, top, bottom, pageUp, pageDown, halfUp, halfDown, recenter []string) KeyMap {
	km := DefaultKeyMap()
	overlay := func(dst *[]string, src []string) {
		if len(src) > 0 {
			*dst = src
		}
	}
	overlay(&km.Quit, quit)
	overlay(&km.Help, help)
	overlay(&km.Jump, jump)
	overlay(&km.Up, up)
	overlay(&km.Down, down)
	overlay(&km.Top, top)
	overlay(&km.Bottom, bottom)
	overlay(&km.PageUp, pageUp)
	overlay(&km.PageDown, pageDown)
	overlay(&km.HalfPageUp, halfUp)
	overlay(&km.HalfPageDown, halfDown)
	overlay(&km.Recenter, recenter)
	return km
}

func MatchesKey(msg tea.KeyMsg, keys []string) bool {
	for _, key := range keys {
		if msg.String() == key {
			return true
		}
	}
	return false
}
