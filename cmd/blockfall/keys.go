package main

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/plus3/blockfall/input"
)

// bindings maps each action to the physical keys that trigger it.
var bindings = map[input.Action][]ebiten.Key{
	input.Left:     {ebiten.KeyArrowLeft, ebiten.KeyA},
	input.Right:    {ebiten.KeyArrowRight, ebiten.KeyD},
	input.SoftDrop: {ebiten.KeyArrowDown, ebiten.KeyS},
	input.Rotate:   {ebiten.KeyArrowUp, ebiten.KeyW},
	input.HardDrop: {ebiten.KeySpace},
	input.Pause:    {ebiten.KeyEscape, ebiten.KeyP},
}

const (
	keyRestart = ebiten.KeyR
	keyCopy    = ebiten.KeyC
)

// snapshot reads the held state of every bound action.
func snapshot(pressed func(ebiten.Key) bool) input.Keys {
	var keys input.Keys
	for action, ks := range bindings {
		for _, k := range ks {
			if pressed(k) {
				keys = keys.With(action)
				break
			}
		}
	}
	return keys
}
