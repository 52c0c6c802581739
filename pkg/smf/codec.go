package smf

import "encoding/binary"

const (
	smfAlign = 8

	// smfHeaderSize is the encoded size of Header: 4 + 2 + 2 + 4 + 4 + 8 + 8 + 8.
	smfHeaderSize = 40
	// smfSectionSize is the encoded size of Section: 4 + 4 + 8 + 8.
	smfSectionSize = 24
)

func encodeHeader(buf []byte, h Header) bool {
	if len(buf) < smfHeaderSize {
		return false
	}
	copy(buf[0:4], h.Magic[:])
	binary.LittleEndian.PutUint16(buf[4:6], h.Major)
	binary.LittleEndian.PutUint16(buf[6:8], h.Minor)
	binary.LittleEndian.PutUint32(buf[8:12], h.HeaderSize)
	binary.LittleEndian.PutUint32(buf[12:16], h.SectionCount)
	binary.LittleEndian.PutUint64(buf[16:24], h.SectionDirOffset)
	binary.LittleEndian.PutUint64(buf[24:32], h.FileSize)
	binary.LittleEndian.PutUint64(buf[32:40], h.Flags)
	return true
}

func decodeHeader(buf []byte) (Header, bool) {
	var h Header
	if len(buf) < smfHeaderSize {
		return h, false
	}
	copy(h.Magic[:], buf[0:4])
	h.Major = binary.LittleEndian.Uint16(buf[4:6])
	h.Minor = binary.LittleEndian.Uint16(buf[6:8])
	h.HeaderSize = binary.LittleEndian.Uint32(buf[8:12])
	h.SectionCount = binary.LittleEndian.Uint32(buf[12:16])
	h.SectionDirOffset = binary.LittleEndian.Uint64(buf[16:24])
	h.FileSize = binary.LittleEndian.Uint64(buf[24:32])
	h.Flags = binary.LittleEndian.Uint64(buf[32:40])
	return h, true
}

func encodeSection(buf []byte, s Section) bool {
	if len(buf) < smfSectionSize {
		return false
	}
	binary.LittleEndian.PutUint32(buf[0:4], s.Type)
	binary.LittleEndian.PutUint32(buf[4:8], s.Version)
	binary.LittleEndian.PutUint64(buf[8:16], s.Offset)
	binary.LittleEndian.PutUint64(buf[16:24], s.Size)
	return true
}

func decodeSection(buf []byte) (Section, bool) {
	var s Section
	if len(buf) < smfSectionSize {
		return s, false
	}
	s.Type = binary.LittleEndian.Uint32(buf[0:4])
	s.Version = binary.LittleEndian.Uint32(buf[4:8])
	s.Offset = binary.LittleEndian.Uint64(buf[8:16])
	s.Size = binary.LittleEndian.Uint64(buf[16:24])
	return s, true
}

func rangesOverlap(a0, a1, b0, b1 uint64) bool {
	// half-open ranges [a0,a1) and [b0,b1)
	return a0 < b1 && b0 < a1
}
