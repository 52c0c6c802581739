// Package smfstore provides a typed accessor over pkg/smf, decoding the
// detector-order map, error-to-qubit map, and the two optional auxiliary
// maps named in the predecoder's external interfaces.
package smfstore

import (
	"encoding/binary"
	"errors"

	"github.com/latticeforge/pinball/pkg/smf"
)

var ErrSectionNotFound = errors.New("smfstore: section not found")

// noQubit marks the absent second qubit slot of a single-qubit error.
const noQubit = 0xFFFFFFFF

// QubitPair names the data qubit(s) a single error mechanism flips. Q1 is
// noQubit when the error flips only one data qubit.
type QubitPair struct {
	ErrorID uint32
	Q0, Q1  uint32
}

// DetectorPair names two detectors linked by a shared error mechanism, the
// raw edge consumed by chain-length classification.
type DetectorPair struct {
	A, B uint32
}

// ErrorComponent tags a single error mechanism's spacelike/timelike
// component counts, consumed by error-frequency classification. Spacelike
// ranges over {0,1,2} and Timelike over {0,1}, matching the DEM-edge
// decomposition error_frequency_distribution.py classifies errors by.
type ErrorComponent struct {
	ErrorID   uint32
	Spacelike uint8
	Timelike  uint8
}

// File is an opened, validated smf metadata container.
type File struct {
	file *smf.File
}

// Open loads and validates an smf container at path.
func Open(path string) (*File, error) {
	sf, err := smf.Open(path)
	if err != nil {
		return nil, err
	}
	return &File{file: sf}, nil
}

// Header returns the container's file header.
func (f *File) Header() *smf.Header {
	if f == nil || f.file == nil {
		return nil
	}
	return f.file.Header
}

// Sections returns the container's section directory.
func (f *File) Sections() []smf.Section {
	if f == nil || f.file == nil {
		return nil
	}
	return f.file.Sections
}

// Close releases the underlying mapping.
func (f *File) Close() error {
	if f == nil || f.file == nil {
		return nil
	}
	err := f.file.Close()
	f.file = nil
	return err
}

func (f *File) sectionData(t smf.SectionType) ([]byte, error) {
	if f == nil || f.file == nil {
		return nil, ErrSectionNotFound
	}
	sec := f.file.Section(t)
	if sec == nil {
		return nil, ErrSectionNotFound
	}
	return f.file.SectionData(sec), nil
}

// DetectorOrder returns the canonical detector ordering: a flat list of
// detector ids, 4 bytes little-endian each.
func (f *File) DetectorOrder() ([]uint32, error) {
	data, err := f.sectionData(smf.SectionDetectorOrder)
	if err != nil {
		return nil, err
	}
	return decodeUint32s(data)
}

// ErrorQubitMap returns the error-to-data-qubit map: each entry is 12
// bytes (errorID, q0, q1), little-endian, with q1 == noQubit for
// single-qubit errors.
func (f *File) ErrorQubitMap() ([]QubitPair, error) {
	data, err := f.sectionData(smf.SectionErrorQubitMap)
	if err != nil {
		return nil, err
	}
	if len(data)%12 != 0 {
		return nil, smf.ErrCorruptFile
	}
	out := make([]QubitPair, len(data)/12)
	for i := range out {
		b := data[i*12 : i*12+12]
		out[i] = QubitPair{
			ErrorID: binary.LittleEndian.Uint32(b[0:4]),
			Q0:      binary.LittleEndian.Uint32(b[4:8]),
			Q1:      binary.LittleEndian.Uint32(b[8:12]),
		}
	}
	return out, nil
}

// HasSecondQubit reports whether q.Q1 names a real second data qubit.
func (q QubitPair) HasSecondQubit() bool {
	return q.Q1 != noQubit
}

// ErrorDetectorPairs returns the optional error-to-detector-pair edges used
// by chain-length classification: 8 bytes per edge (A, B), little-endian.
func (f *File) ErrorDetectorPairs() ([]DetectorPair, error) {
	data, err := f.sectionData(smf.SectionErrorDetectorPairs)
	if err != nil {
		return nil, err
	}
	if len(data)%8 != 0 {
		return nil, smf.ErrCorruptFile
	}
	out := make([]DetectorPair, len(data)/8)
	for i := range out {
		b := data[i*8 : i*8+8]
		out[i] = DetectorPair{
			A: binary.LittleEndian.Uint32(b[0:4]),
			B: binary.LittleEndian.Uint32(b[4:8]),
		}
	}
	return out, nil
}

// ErrorComponents returns the optional per-error spacelike/timelike tags
// used by error-frequency classification: 8 bytes per entry (errorID
// uint32, spacelike uint8, timelike uint8, 2 bytes padding).
func (f *File) ErrorComponents() ([]ErrorComponent, error) {
	data, err := f.sectionData(smf.SectionErrorComponents)
	if err != nil {
		return nil, err
	}
	if len(data)%8 != 0 {
		return nil, smf.ErrCorruptFile
	}
	out := make([]ErrorComponent, len(data)/8)
	for i := range out {
		b := data[i*8 : i*8+8]
		out[i] = ErrorComponent{
			ErrorID:   binary.LittleEndian.Uint32(b[0:4]),
			Spacelike: b[4],
			Timelike:  b[5],
		}
	}
	return out, nil
}

func decodeUint32s(data []byte) ([]uint32, error) {
	if len(data)%4 != 0 {
		return nil, smf.ErrCorruptFile
	}
	out := make([]uint32, len(data)/4)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(data[i*4 : i*4+4])
	}
	return out, nil
}

// EncodeUint32s is the inverse of DetectorOrder's decoding, exposed for the
// pack CLI command to build a detector-order section payload.
func EncodeUint32s(vals []uint32) []byte {
	out := make([]byte, len(vals)*4)
	for i, v := range vals {
		binary.LittleEndian.PutUint32(out[i*4:i*4+4], v)
	}
	return out
}

// EncodeQubitPairs is the inverse of ErrorQubitMap's decoding.
func EncodeQubitPairs(pairs []QubitPair) []byte {
	out := make([]byte, len(pairs)*12)
	for i, p := range pairs {
		b := out[i*12 : i*12+12]
		binary.LittleEndian.PutUint32(b[0:4], p.ErrorID)
		binary.LittleEndian.PutUint32(b[4:8], p.Q0)
		binary.LittleEndian.PutUint32(b[8:12], p.Q1)
	}
	return out
}

// EncodeDetectorPairs is the inverse of ErrorDetectorPairs's decoding.
func EncodeDetectorPairs(pairs []DetectorPair) []byte {
	out := make([]byte, len(pairs)*8)
	for i, p := range pairs {
		b := out[i*8 : i*8+8]
		binary.LittleEndian.PutUint32(b[0:4], p.A)
		binary.LittleEndian.PutUint32(b[4:8], p.B)
	}
	return out
}

// EncodeErrorComponents is the inverse of ErrorComponents's decoding.
func EncodeErrorComponents(comps []ErrorComponent) []byte {
	out := make([]byte, len(comps)*8)
	for i, c := range comps {
		b := out[i*8 : i*8+8]
		binary.LittleEndian.PutUint32(b[0:4], c.ErrorID)
		b[4] = c.Spacelike
		b[5] = c.Timelike
	}
	return out
}

// NoQubit is the sentinel second-qubit value for a single-qubit error.
const NoQubit = noQubit
