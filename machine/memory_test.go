package machine

import "testing"

func TestLoadCopiesIntoRAM(t *testing.T) {
	mem := NewMemory()
	mem.Load([]byte{1, 2, 3}, 10)
	if mem.Read(10) != 1 || mem.Read(11) != 2 || mem.Read(12) != 3 {
		t.Fatalf("got %d %d %d, want 1 2 3", mem.Read(10), mem.Read(11), mem.Read(12))
	}
}

func TestLoadStopsAtRAMBoundary(t *testing.T) {
	mem := NewMemory()
	data := make([]byte, 10)
	mem.Load(data, ramEnd-2)
	// must not panic writing past ramEnd; nothing further to assert since
	// bytes beyond the boundary are simply dropped.
}

func TestWriteOutsideRAMIsDropped(t *testing.T) {
	mem := NewMemory()
	mem.Write(pcHiAddr, 0b111111)
	if mem.Read(pcHiAddr) != 0 {
		t.Fatalf("write to pc mirror should be dropped, read back %06b", mem.Read(pcHiAddr))
	}
}

func TestPCMirrorsReadBack(t *testing.T) {
	mem := NewMemory()
	mem.SetPC(0b101010_011001)
	if mem.Read(pcHiAddr) != 0b101010 {
		t.Fatalf("pc hi mirror = %06b, want 101010", mem.Read(pcHiAddr))
	}
	if mem.Read(pcLoAddr) != 0b011001 {
		t.Fatalf("pc lo mirror = %06b, want 011001", mem.Read(pcLoAddr))
	}
}

// invariant 5: rotation map.
func TestRotationPorts(t *testing.T) {
	mem := NewMemory()
	for v := byte(0); v < 64; v++ {
		addr := rotateLeftStart | int(v)
		if got, want := mem.Read(addr), rotateLeft6(v, 1); got != want {
			t.Fatalf("left port(%06b) = %06b, want %06b", v, got, want)
		}
		addr = rotateRightStart | int(v)
		if got, want := mem.Read(addr), rotateRight6(v, 1); got != want {
			t.Fatalf("right port(%06b) = %06b, want %06b", v, got, want)
		}
	}
}

func TestRotate6IsInverseOfItself(t *testing.T) {
	for v := byte(0); v < 64; v++ {
		if rotateRight6(rotateLeft6(v, 1), 1) != v {
			t.Fatalf("rotate left then right did not round trip for %06b", v)
		}
	}
}
