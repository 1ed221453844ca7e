package rowan

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// KeyModifiers is a bitmask of keyboard modifier keys.
type KeyModifiers uint8

const (
	ModShift KeyModifiers = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// KeyEventType distinguishes the three kinds of keyboard events a widget can
// receive.
type KeyEventType uint8

const (
	KeyEventDown KeyEventType = iota // key transitioned to pressed this tick
	KeyEventUp                       // key transitioned to released this tick
	KeyEventChar                     // a typed character (layout-resolved)
)

// KeyEvent is one keyboard event delivered to Frame.Update. The application
// collects the tick's events with ReadKeys and hands the same slice to every
// top-level Frame.
type KeyEvent struct {
	Type KeyEventType
	Key  ebiten.Key
	Rune rune
	Mods KeyModifiers
}

// ReadModifiers reads the current keyboard modifier state.
func ReadModifiers() KeyModifiers {
	var mods KeyModifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) || ebiten.IsKeyPressed(ebiten.KeyShiftLeft) || ebiten.IsKeyPressed(ebiten.KeyShiftRight) {
		mods |= ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyControlLeft) || ebiten.IsKeyPressed(ebiten.KeyControlRight) {
		mods |= ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) || ebiten.IsKeyPressed(ebiten.KeyAltLeft) || ebiten.IsKeyPressed(ebiten.KeyAltRight) {
		mods |= ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) || ebiten.IsKeyPressed(ebiten.KeyMetaLeft) || ebiten.IsKeyPressed(ebiten.KeyMetaRight) {
		mods |= ModMeta
	}
	return mods
}

// keyReadBuf is reused across ticks by ReadKeys. Rowan's input collection is
// single-threaded, like the rest of the toolkit.
var (
	keyReadBuf  []ebiten.Key
	charReadBuf []rune
)

// ReadKeys appends this tick's keyboard events to buf and returns it. Pass
// buf[:0] of a retained slice to avoid per-tick allocations.
func ReadKeys(buf []KeyEvent) []KeyEvent {
	mods := ReadModifiers()
	keyReadBuf = inpututil.AppendJustPressedKeys(keyReadBuf[:0])
	for _, k := range keyReadBuf {
		buf = append(buf, KeyEvent{Type: KeyEventDown, Key: k, Mods: mods})
	}
	keyReadBuf = inpututil.AppendJustReleasedKeys(keyReadBuf[:0])
	for _, k := range keyReadBuf {
		buf = append(buf, KeyEvent{Type: KeyEventUp, Key: k, Mods: mods})
	}
	charReadBuf = ebiten.AppendInputChars(charReadBuf[:0])
	for _, r := range charReadBuf {
		buf = append(buf, KeyEvent{Type: KeyEventChar, Rune: r, Mods: mods})
	}
	return buf
}
