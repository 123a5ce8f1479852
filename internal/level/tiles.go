package level

// MaxTile is the highest background tile code the game draws.
const MaxTile = 0x37

// tileSlots maps each background tile code to its 1-based position in the
// tile sheet, which is laid out 10 slots per row.
var tileSlots = [MaxTile + 1]int{
	37, 4, 10, 7, 20, 5, 45, 26, 25, 27, 43, 30, 3, 8, 56, 58,
	59, 17, 19, 15, 18, 49, 47, 55, 44, 40, 13, 9, 33, 22, 23, 24,
	35, 1, 2, 36, 32, 46, 42, 50, 16, 57, 48, 39, 53, 54, 29, 11,
	12, 14, 34, 28, 52, 60, 38, 6,
}

// TileSlot returns the sheet position of a tile code.
func TileSlot(code uint8) (int, bool) {
	if code > MaxTile {
		return 0, false
	}
	return tileSlots[code], true
}

// TileAtSlot returns the tile code drawn at a sheet position. Slots 21, 31,
// 41 and 51 are empty.
func TileAtSlot(slot int) (uint8, bool) {
	for code, s := range tileSlots {
		if s == slot {
			return uint8(code), true
		}
	}
	return 0, false
}
