package level

import (
	"strings"
	"testing"
)

func TestTileSlotsRoundTrip(t *testing.T) {
	seen := make(map[int]bool)
	for code := 0; code <= MaxTile; code++ {
		slot, ok := TileSlot(uint8(code))
		if !ok {
			t.Fatalf("TileSlot(%02X) not found", code)
		}
		if slot < 1 || slot > 60 || slot%10 == 1 && slot > 20 {
			t.Errorf("TileSlot(%02X) = %d, outside the sheet", code, slot)
		}
		if seen[slot] {
			t.Errorf("slot %d used twice", slot)
		}
		seen[slot] = true

		back, ok := TileAtSlot(slot)
		if !ok || back != uint8(code) {
			t.Errorf("TileAtSlot(%d) = %02X, expected %02X", slot, back, code)
		}
	}
}

func TestTileSlotKnownValues(t *testing.T) {
	tests := []struct {
		code uint8
		slot int
	}{
		{TileFloor, 20},
		{0x00, 37},
		{0x21, 1},
		{0x35, 60},
	}
	for _, tc := range tests {
		if got, _ := TileSlot(tc.code); got != tc.slot {
			t.Errorf("TileSlot(%02X) = %d, expected %d", tc.code, got, tc.slot)
		}
	}

	if _, ok := TileSlot(0x38); ok {
		t.Error("expected 0x38 to have no slot")
	}
	for _, slot := range []int{0, 21, 31, 41, 51, 61} {
		if _, ok := TileAtSlot(slot); ok {
			t.Errorf("expected slot %d to be empty", slot)
		}
	}
}

func TestValidateReportsInvalidTiles(t *testing.T) {
	l, err := Unmarshal(minimalLevel())
	if err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	l.FrontTypes = []FrontType{{1, 0, FrontTorch}}
	l.Fronts = []Front{{}}
	l.Grid[0][1] = 0x40

	v := l.Validate()
	if len(v) != 1 || !strings.Contains(v[0].Message, "column 2, row 1") {
		t.Errorf("expected one invalid tile violation, got %v", v)
	}
}
