/*
Copyright (c) 2019-2021 Andreas T Jonsson

This software is provided 'as-is', without any express or implied
warranty. In no event will the authors be held liable for any damages
arising from the use of this software.

Permission is granted to anyone to use this software for any purpose,
including commercial applications, and to alter it and redistribute it
freely, subject to the following restrictions:

1. The origin of this software must not be misrepresented; you must not
   claim that you wrote the original software. If you use this software
   in a product, an acknowledgment in the product documentation would be
   appreciated but is not required.
2. Altered source versions must be plainly marked as such, and must not be
   misrepresented as being the original software.
3. This notice may not be removed or altered from any source distribution.
*/

package keyboard

import "github.com/andreas-jonsson/virtualps2/emulator/hid"

// Scancode is a set 2 make code of one or two bytes. A zero second byte is
// unused; extended keys carry the 0xE0 prefix in the first byte.
type Scancode [2]byte

// Bytes returns the make code with the unused byte stripped.
func (s Scancode) Bytes() []byte {
	if s[0] == 0 {
		return nil
	}
	if s[1] == 0 {
		return []byte{s[0]}
	}
	return []byte{s[0], s[1]}
}

const (
	Break    = 0xF0
	Extended = 0xE0
)

var (
	pauseMake        = []byte{0xE1, 0x14, 0x77, 0xE1, 0xF0, 0x14, 0xF0, 0x77}
	printScreenMake  = []byte{0xE0, 0x12, 0xE0, 0x7C}
	printScreenBreak = []byte{0xE0, 0xF0, 0x7C, 0xE0, 0xF0, 0x12}
)

// set2 is indexed by HID usage ID.
var set2 = [256]Scancode{
	hid.KeyA: {0x1C},
	hid.KeyB: {0x32},
	hid.KeyC: {0x21},
	hid.KeyD: {0x23},
	hid.KeyE: {0x24},
	hid.KeyF: {0x2B},
	hid.KeyG: {0x34},
	hid.KeyH: {0x33},
	hid.KeyI: {0x43},
	hid.KeyJ: {0x3B},
	hid.KeyK: {0x42},
	hid.KeyL: {0x4B},
	hid.KeyM: {0x3A},
	hid.KeyN: {0x31},
	hid.KeyO: {0x44},
	hid.KeyP: {0x4D},
	hid.KeyQ: {0x15},
	hid.KeyR: {0x2D},
	hid.KeyS: {0x1B},
	hid.KeyT: {0x2C},
	hid.KeyU: {0x3C},
	hid.KeyV: {0x2A},
	hid.KeyW: {0x1D},
	hid.KeyX: {0x22},
	hid.KeyY: {0x35},
	hid.KeyZ: {0x1A},

	hid.Key1: {0x16},
	hid.Key2: {0x1E},
	hid.Key3: {0x26},
	hid.Key4: {0x25},
	hid.Key5: {0x2E},
	hid.Key6: {0x36},
	hid.Key7: {0x3D},
	hid.Key8: {0x3E},
	hid.Key9: {0x46},
	hid.Key0: {0x45},

	hid.KeyEnter:      {0x5A},
	hid.KeyEscape:     {0x76},
	hid.KeyBackspace:  {0x66},
	hid.KeyTab:        {0x0D},
	hid.KeySpace:      {0x29},
	hid.KeyMinus:      {0x4E},
	hid.KeyEqual:      {0x55},
	hid.KeyLeftBrace:  {0x54},
	hid.KeyRightBrace: {0x5B},
	hid.KeyBackslash:  {0x5D},
	hid.KeyHashTilde:  {0x5D},
	hid.KeySemicolon:  {0x4C},
	hid.KeyApostrophe: {0x52},
	hid.KeyGrave:      {0x0E},
	hid.KeyComma:      {0x41},
	hid.KeyDot:        {0x49},
	hid.KeySlash:      {0x4A},
	hid.KeyCapsLock:   {0x58},

	hid.KeyF1:  {0x05},
	hid.KeyF2:  {0x06},
	hid.KeyF3:  {0x04},
	hid.KeyF4:  {0x0C},
	hid.KeyF5:  {0x03},
	hid.KeyF6:  {0x0B},
	hid.KeyF7:  {0x83},
	hid.KeyF8:  {0x0A},
	hid.KeyF9:  {0x01},
	hid.KeyF10: {0x09},
	hid.KeyF11: {0x78},
	hid.KeyF12: {0x07},

	hid.KeyScrollLock: {0x7E},
	hid.KeyInsert:     {Extended, 0x70},
	hid.KeyHome:       {Extended, 0x6C},
	hid.KeyPageUp:     {Extended, 0x7D},
	hid.KeyDelete:     {Extended, 0x71},
	hid.KeyEnd:        {Extended, 0x69},
	hid.KeyPageDown:   {Extended, 0x7A},
	hid.KeyRight:      {Extended, 0x74},
	hid.KeyLeft:       {Extended, 0x6B},
	hid.KeyDown:       {Extended, 0x72},
	hid.KeyUp:         {Extended, 0x75},

	hid.KeyNumLock:    {0x77},
	hid.KeyKPSlash:    {Extended, 0x4A},
	hid.KeyKPAsterisk: {0x7C},
	hid.KeyKPMinus:    {0x7B},
	hid.KeyKPPlus:     {0x79},
	hid.KeyKPEnter:    {Extended, 0x5A},
	hid.KeyKP1:        {0x69},
	hid.KeyKP2:        {0x72},
	hid.KeyKP3:        {0x7A},
	hid.KeyKP4:        {0x6B},
	hid.KeyKP5:        {0x73},
	hid.KeyKP6:        {0x74},
	hid.KeyKP7:        {0x6C},
	hid.KeyKP8:        {0x75},
	hid.KeyKP9:        {0x7D},
	hid.KeyKP0:        {0x70},
	hid.KeyKPDot:      {0x71},
	hid.Key102ND:      {0x61},
	hid.KeyCompose:    {Extended, 0x2F},
	hid.KeyPower:      {Extended, 0x37},
	hid.KeyKPEqual:    {0x0F},

	hid.KeyF13:      {0x08},
	hid.KeyF13 + 1:  {0x10},
	hid.KeyF13 + 2:  {0x18},
	hid.KeyF13 + 3:  {0x20},
	hid.KeyF13 + 4:  {0x28},
	hid.KeyF13 + 5:  {0x30},
	hid.KeyF13 + 6:  {0x38},
	hid.KeyF13 + 7:  {0x40},
	hid.KeyF13 + 8:  {0x48},
	hid.KeyF13 + 9:  {0x50},
	hid.KeyF13 + 10: {0x57},
	hid.KeyF24:      {0x5F},

	hid.KeyMute:       {Extended, 0x23},
	hid.KeyVolumeUp:   {Extended, 0x32},
	hid.KeyVolumeDown: {Extended, 0x21},
	hid.KeyKPComma:    {0x6D},
	hid.KeyRo:         {0x51},
	hid.KeyKatakana:   {0x13},
	hid.KeyYen:        {0x6A},
	hid.KeyHenkan:     {0x64},
	hid.KeyMuhenkan:   {0x67},

	hid.KeyLeftCtrl:   {0x14},
	hid.KeyLeftShift:  {0x12},
	hid.KeyLeftAlt:    {0x11},
	hid.KeyLeftMeta:   {Extended, 0x1F},
	hid.KeyRightCtrl:  {Extended, 0x14},
	hid.KeyRightShift: {0x59},
	hid.KeyRightAlt:   {Extended, 0x11},
	hid.KeyRightMeta:  {Extended, 0x27},
}

// Lookup returns the set 2 table entry for k.
func Lookup(k hid.Key) Scancode {
	return set2[k]
}

type modifier struct {
	bit       hid.Modifier
	make, brk []byte
}

// modifiers is iterated in increasing bit order.
var modifiers = [...]modifier{
	{hid.ModLeftCtrl, []byte{0x14}, []byte{Break, 0x14}},
	{hid.ModLeftShift, []byte{0x12}, []byte{Break, 0x12}},
	{hid.ModLeftAlt, []byte{0x11}, []byte{Break, 0x11}},
	{hid.ModLeftMeta, []byte{Extended, 0x1F}, []byte{Extended, Break, 0x1F}},
	{hid.ModRightCtrl, []byte{Extended, 0x14}, []byte{Extended, Break, 0x14}},
	{hid.ModRightShift, []byte{0x59}, []byte{Break, 0x59}},
	{hid.ModRightAlt, []byte{Extended, 0x11}, []byte{Extended, Break, 0x11}},
}
