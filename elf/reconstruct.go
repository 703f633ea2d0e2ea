// #############################################################################
// This file is part of the "elf" package of the "lepton" project.
// It is distributed under the MIT License. Refer to the LICENSE file for more
// information.
// #############################################################################

package elf

// Reconstruct emits the reassembled byte stream: header bytes, then the gap
// between the header and e_phoff filled from the original input, then
// program-header bytes, then the gap between the program header table and
// e_shoff filled from the original input, then section-header bytes, then
// whatever of the input remains. Gaps are always copied from data at their
// original offsets, never synthesized, so program data embedded between the
// tables survives untouched.
//
// The reference implementation this package descends from read the
// e_phoff/e_shoff gap boundaries as little-endian unconditionally. That is a
// bug: on a big-endian input it reads the wrong offsets. This implementation
// uses h's own inferred endianness for that arithmetic, which is the
// corrected behavior.
func Reconstruct(data []byte, h *Header, progHeaders []ProgHeader, sectHeaders []SectHeader) []byte {
	out := make([]byte, 0, len(data))

	out = append(out, h.Bytes()...)
	out = appendGap(out, data, len(out), int(h.EPhoff))

	for _, p := range progHeaders {
		out = append(out, p.Bytes(h.Class, h.Endian)...)
	}
	out = appendGap(out, data, len(out), int(h.EShoff))

	for _, s := range sectHeaders {
		out = append(out, s.Bytes(h.Class, h.Endian)...)
	}
	out = appendGap(out, data, len(out), len(data))

	return out
}

// appendGap copies data[from:to] onto out, provided the range is sane and
// within bounds. A target at or before the current write position, or past
// the end of data, contributes nothing -- this happens when a table
// overlaps where the next one was expected, which this package otherwise
// guards against, but appendGap stays defensive rather than panicking.
func appendGap(out, data []byte, from, to int) []byte {
	if to > len(data) {
		to = len(data)
	}
	if from >= to || from < 0 {
		return out
	}
	return append(out, data[from:to]...)
}
