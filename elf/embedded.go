// #############################################################################
// This file is part of the "elf" package of the "lepton" project.
// It is distributed under the MIT License. Refer to the LICENSE file for more
// information.
// #############################################################################

package elf

import (
	"bytes"

	"github.com/sirupsen/logrus"
)

// EmbeddedELF is one candidate ELF-shaped region nested inside a larger
// carrier buffer. The length of Data is an upper bound: the scanner does not know the
// embedded file's true length, only where the next candidate (or the parent
// buffer's end) begins.
type EmbeddedELF struct {
	Offset int
	Data   []byte
}

// FindEmbedded locates every occurrence of the ELF magic in data other than
// at offset 0 (the parent itself), keeps those whose EI_PAD is all zero and
// whose e_machine matches parentMachine, and slices each accepted offset to
// the next accepted offset (or end of data for the last one).
func FindEmbedded(data []byte, endian Endianness, parentMachine Machine) []EmbeddedELF {
	var offsets []int

	for idx := 0; ; {
		pos := bytes.Index(data[idx:], Magic[:])
		if pos < 0 {
			break
		}
		offset := idx + pos
		idx = offset + 1

		if offset == 0 {
			continue
		}
		if isCandidate(data, offset, endian, parentMachine) {
			offsets = append(offsets, offset)
		}
	}

	result := make([]EmbeddedELF, 0, len(offsets))
	for i, off := range offsets {
		end := len(data)
		if i+1 < len(offsets) {
			end = offsets[i+1]
		}
		result = append(result, EmbeddedELF{Offset: off, Data: data[off:end]})
	}
	return result
}

func isCandidate(data []byte, offset int, endian Endianness, parentMachine Machine) bool {
	identEnd := offset + int(identPad.End)
	if identEnd > len(data) {
		return false
	}
	if !allZero(data[offset+identPad.Start : offset+identPad.End]) {
		logrus.Debugf("could not verify EI_PAD value at offset 0x%x", offset)
		return false
	}

	machineEnd := offset + int(elf32EMachine.End)
	if machineEnd > len(data) {
		return false
	}
	order := byteOrder(endian)
	machine := Machine(order.Uint16(data[offset+elf32EMachine.Start : offset+elf32EMachine.End]))

	if machine != parentMachine {
		logrus.Debugf("could not verify e_machine value at offset 0x%x", offset)
		return false
	}
	return true
}
