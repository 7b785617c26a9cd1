package appstate

import (
	"unicode"

	"golang.org/x/mobile/event/key"

	"github.com/example/scribble/internal/paint"
)

// KeyShortcut describes a keyboard combination that triggers an action.
type KeyShortcut struct {
	Rune      rune
	Code      key.Code
	Modifiers key.Modifiers
}

// KeyboardShortcuts returns the shortcuts associated with an action.
type KeyboardShortcuts interface {
	KeyboardShortcuts() []KeyShortcut
}

// shortcutList is a helper to easily satisfy the KeyboardShortcuts interface.
type shortcutList []KeyShortcut

func (s shortcutList) KeyboardShortcuts() []KeyShortcut { return []KeyShortcut(s) }

// Window actions.
const (
	actionUndo         = "undo"
	actionRedo         = "redo"
	actionSave         = "save"
	actionCopy         = "copy"
	actionPasteText    = "paste-text"
	actionClear        = "clear"
	actionSizeDown     = "size-down"
	actionSizeUp       = "size-up"
	actionZoomIn       = "zoom-in"
	actionZoomOut      = "zoom-out"
	actionZoomReset    = "zoom-reset"
	actionRotateLeft   = "rotate-left"
	actionRotateRight  = "rotate-right"
	actionFlipH        = "flip-h"
	actionFlipV        = "flip-v"
	actionEditText     = "edit-text"
	actionQuit         = "quit"
	actionPanLeft      = "pan-left"
	actionPanRight     = "pan-right"
	actionPanUp        = "pan-up"
	actionPanDown      = "pan-down"
	actionToolPrefix   = "tool:"
	actionPresetPrefix = "preset:"
)

var toolKeys = map[paint.Tool]rune{
	paint.ToolBrush:     'b',
	paint.ToolEraser:    'e',
	paint.ToolLine:      'l',
	paint.ToolRectangle: 'r',
	paint.ToolCircle:    'o',
	paint.ToolPolygon:   'p',
	paint.ToolText:      't',
}

// keymap binds shortcuts to action names.
type keymap map[KeyShortcut]string

func (m keymap) register(action string, keys KeyboardShortcuts) {
	for _, sc := range keys.KeyboardShortcuts() {
		m[sc] = action
	}
}

func defaultKeymap(presets int) keymap {
	m := keymap{}
	ctrl := key.ModControl
	for t, r := range toolKeys {
		m.register(actionToolPrefix+t.String(), shortcutList{{Rune: r}})
	}
	for i := 0; i < presets && i < 9; i++ {
		m.register(actionPresetPrefix+string(rune('1'+i)), shortcutList{{Rune: rune('1' + i)}})
	}
	m.register(actionUndo, shortcutList{{Rune: 'z', Modifiers: ctrl}})
	m.register(actionRedo, shortcutList{{Rune: 'y', Modifiers: ctrl}, {Rune: 'z', Modifiers: ctrl | key.ModShift}})
	m.register(actionSave, shortcutList{{Rune: 's', Modifiers: ctrl}})
	m.register(actionCopy, shortcutList{{Rune: 'c', Modifiers: ctrl}})
	m.register(actionPasteText, shortcutList{{Rune: 'v', Modifiers: ctrl}})
	m.register(actionClear, shortcutList{{Code: key.CodeDeleteForward}, {Code: key.CodeDeleteBackspace, Modifiers: ctrl}})
	m.register(actionSizeDown, shortcutList{{Rune: '['}})
	m.register(actionSizeUp, shortcutList{{Rune: ']'}})
	m.register(actionZoomIn, shortcutList{{Rune: '+'}, {Rune: '='}})
	m.register(actionZoomOut, shortcutList{{Rune: '-'}})
	m.register(actionZoomReset, shortcutList{{Rune: '0'}})
	m.register(actionRotateLeft, shortcutList{{Rune: ','}})
	m.register(actionRotateRight, shortcutList{{Rune: '.'}})
	m.register(actionFlipH, shortcutList{{Rune: 'h'}})
	m.register(actionFlipV, shortcutList{{Rune: 'v'}})
	m.register(actionEditText, shortcutList{{Code: key.CodeReturnEnter}})
	m.register(actionQuit, shortcutList{{Rune: 'q'}, {Rune: 'w', Modifiers: ctrl}})
	m.register(actionPanLeft, shortcutList{{Code: key.CodeLeftArrow}})
	m.register(actionPanRight, shortcutList{{Code: key.CodeRightArrow}})
	m.register(actionPanUp, shortcutList{{Code: key.CodeUpArrow}})
	m.register(actionPanDown, shortcutList{{Code: key.CodeDownArrow}})
	return m
}

// normalize maps a key event onto the form shortcuts are registered in.
// Letters are lower-cased and keep Shift, other runes drop it since the
// rune already reflects it.
func normalize(e key.Event) KeyShortcut {
	mods := e.Modifiers & (key.ModControl | key.ModShift)
	if e.Rune > 0 {
		r := e.Rune
		if mods&key.ModControl != 0 && r < 0x20 {
			r += 'a' - 1
		}
		if unicode.IsLetter(r) {
			r = unicode.ToLower(r)
		} else {
			mods &^= key.ModShift
		}
		return KeyShortcut{Rune: r, Modifiers: mods}
	}
	return KeyShortcut{Code: e.Code, Modifiers: mods}
}

// lookup returns the action bound to e.
func (m keymap) lookup(e key.Event) (string, bool) {
	sc := normalize(e)
	if a, ok := m[sc]; ok {
		return a, true
	}
	// Some drivers report a rune for control keys; fall back to the code.
	if sc.Rune > 0 {
		a, ok := m[KeyShortcut{Code: e.Code, Modifiers: e.Modifiers & (key.ModControl | key.ModShift)}]
		return a, ok
	}
	return "", false
}
