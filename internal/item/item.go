// Package item implements the server-side random item-drop engine:
// PT/PMT/RT data loaders and the drop algorithm for enemies, boxes, and
// rares, plus the 16-byte item representation shared with the client
// inventory shadow and the lobby floor-item queues.
package item

import "encoding/binary"

// Class identifies item[0].byte[0].
type Class uint8

const (
	ClassWeapon Class = iota
	ClassArmor
	ClassShield
	ClassUnit
	ClassMag
	ClassTool
	ClassMeseta
)

// Item is the 16-byte wire representation of any item instance. Field
// interpretation is class-dependent; see the Weapon/Armor/Unit/Tool
// accessor helpers below.
type Item struct {
	Data [16]byte
	// ID is the globally-unique (within the owning team) instance id;
	// always 0x00810000 <= ID < the team's next item id.
	ID uint32
}

// Class returns the item's class from data[0].byte[0].
func (it *Item) Class() Class {
	return Class(it.Data[0])
}

// SetClass sets the class byte.
func (it *Item) SetClass(c Class) {
	it.Data[0] = byte(c)
}

// Dword reads a little-endian uint32 at one of the four 4-byte words.
func (it *Item) Dword(i int) uint32 {
	return binary.LittleEndian.Uint32(it.Data[i*4 : i*4+4])
}

// SetDword writes a little-endian uint32 at word i.
func (it *Item) SetDword(i int, v uint32) {
	binary.LittleEndian.PutUint32(it.Data[i*4:i*4+4], v)
}

// IsStackable reports whether this item class stacks by quantity (tools and
// meseta); weapons/armor/units/mags are always singular instances.
func (it *Item) IsStackable() bool {
	c := it.Class()
	return c == ClassTool || c == ClassMeseta
}

// Quantity returns the stack quantity for stackable classes (byte 5 of the
// tool sub-structure), and 1 for everything else.
func (it *Item) Quantity() int {
	if !it.IsStackable() {
		return 1
	}
	return int(it.Data[5])
}

// SetQuantity sets the stack quantity for stackable classes.
func (it *Item) SetQuantity(n int) {
	if it.IsStackable() {
		it.Data[5] = byte(n)
	}
}

// New16BitItemFloor is the minimum legal floor-item id in a BB team.
const New16BitItemFloor = 0x00810000

// IDCounter generates unique, monotonically increasing item ids for one
// team.
type IDCounter struct {
	next uint32
}

// NewIDCounter returns a counter seeded at New16BitItemFloor.
func NewIDCounter() *IDCounter {
	return &IDCounter{next: New16BitItemFloor}
}

// Next returns the next unique id and advances the counter.
func (c *IDCounter) Next() uint32 {
	id := c.next
	c.next++
	return id
}

// Peek returns the id that Next would return without advancing.
func (c *IDCounter) Peek() uint32 {
	return c.next
}
