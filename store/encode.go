package store

import (
	"encoding/binary"
	"math"
)

// All multi-byte fields are little-endian, per spec.md §6.2.

func putUint32(b []byte, v uint32) []byte {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	return append(b, tmp[:]...)
}

func getUint32(b []byte, off int) uint32 {
	return binary.LittleEndian.Uint32(b[off : off+4])
}

func putInt32(b []byte, v int32) []byte {
	return putUint32(b, uint32(v))
}

func getInt32(b []byte, off int) int32 {
	return int32(getUint32(b, off))
}

func putFloat32(b []byte, v float32) []byte {
	return putUint32(b, math.Float32bits(v))
}

func getFloat32(b []byte, off int) float32 {
	return math.Float32frombits(getUint32(b, off))
}

func putRef(b []byte, r Ref) []byte {
	return putUint32(b, uint32(r))
}

func getRef(b []byte, off int) Ref {
	return Ref(getUint32(b, off))
}
