package leaf

import "testing"

func TestDecodeTable(t *testing.T) {
	cases := []struct {
		center, neighbor byte
		wantFired        byte
		wantCenterOut     byte
		wantNeighborOut   byte
	}{
		{0, 0, 0, 0, 0},
		{1, 0, 0, 1, 0},
		{0, 1, 0, 0, 1},
		{1, 1, 1, 0, 0},
	}
	for _, c := range cases {
		got := Decode(c.center, c.neighbor)
		if got.Fired != c.wantFired || got.CenterOut != c.wantCenterOut || got.NeighborOut != c.wantNeighborOut {
			t.Errorf("Decode(%d,%d) = %+v, want fired=%d center=%d neighbor=%d",
				c.center, c.neighbor, got, c.wantFired, c.wantCenterOut, c.wantNeighborOut)
		}
	}
}

func TestIdempotence(t *testing.T) {
	for center := byte(0); center <= 1; center++ {
		for neighbor := byte(0); neighbor <= 1; neighbor++ {
			if !Idempotent(center, neighbor) {
				t.Errorf("leaf not idempotent for (%d,%d)", center, neighbor)
			}
		}
	}
}
