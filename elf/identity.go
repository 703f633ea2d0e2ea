// #############################################################################
// This file is part of the "elf" package of the "lepton" project.
// It is distributed under the MIT License. Refer to the LICENSE file for more
// information.
// #############################################################################

package elf

import "encoding/binary"

// MinIdentifiableSize is the shortest buffer Identify can operate on: the
// minimal ELF32 header, per spec.md section 4.1. A buffer shorter than this
// cannot carry even the fields the endianness heuristic needs. Bitness
// inference separately guards its own 64-bit-position read, since a buffer
// between this size and the full ELF64 header doesn't reach that far.
const MinIdentifiableSize = ELF32HeaderSize

// Identity is the result of running the untrusted-header heuristics over a
// raw buffer: the inferred endianness, bitness and machine.
type Identity struct {
	Endian  Endianness
	Bits    Class
	Machine Machine
}

// Identify runs the endianness, bitness and architecture heuristics over
// data in that order, since bitness inference needs the endianness already
// decided and architecture lookup needs both. See spec.md section 4.1.
func Identify(data []byte) (Identity, error) {
	if len(data) < 4 || !hasMagic(data) {
		return Identity{}, newError(InvalidMagic, "first 4 bytes are not 7F 45 4C 46")
	}
	if len(data) < MinIdentifiableSize {
		return Identity{}, newError(InvalidMagic, "buffer too short (%d bytes) to carry an ELF identity", len(data))
	}

	endian, err := inferEndianness(data)
	if err != nil {
		return Identity{}, err
	}

	bits, err := inferBitness(data, endian)
	if err != nil {
		return Identity{}, err
	}

	machine := readMachine(data, endian)

	return Identity{Endian: endian, Bits: bits, Machine: machine}, nil
}

func hasMagic(data []byte) bool {
	return data[0] == Magic[0] && data[1] == Magic[1] && data[2] == Magic[2] && data[3] == Magic[3]
}

// inferEndianness trusts e_version, not EI_DATA: e_version is conforming-
// ELF-invariant 1, so the byte pattern 01 00 00 00 vs 00 00 00 01 is a
// reliable tell, whereas EI_DATA is a single byte that's trivial to corrupt
// or spoof. If EI_DATA disagrees with the e_version test, the e_version test
// wins.
func inferEndianness(data []byte) (Endianness, error) {
	raw := data[elf32EVersion.Start:elf32EVersion.End]

	if binary.LittleEndian.Uint32(raw) == 1 {
		return LittleEndian, nil
	}
	if binary.BigEndian.Uint32(raw) == 1 {
		return BigEndian, nil
	}

	return 0, newError(UndeterminedEndianness, "e_version is 1 under neither byte order")
}

// inferBitness trusts e_phentsize, not EI_CLASS: loaders consult it, so
// it's typically honest even when EI_CLASS has been corrupted or flipped.
func inferBitness(data []byte, endian Endianness) (Class, error) {
	order := byteOrder(endian)

	phentsize32 := order.Uint16(data[elf32EPhentsize.Start:elf32EPhentsize.End])
	if phentsize32 == ProgEntrySize32 {
		return Class32, nil
	}

	if len(data) >= int(elf64EPhentsize.End) {
		phentsize64 := order.Uint16(data[elf64EPhentsize.Start:elf64EPhentsize.End])
		if phentsize64 == ProgEntrySize64 {
			return Class64, nil
		}
	}

	return 0, newError(UndeterminedBitness, "e_phentsize matched neither 32 (ELF32) nor 56 (ELF64)")
}

// readMachine reads e_machine, the one ELF header field this package treats
// as reliable: it is the only value an embedded payload must agree with its
// parent on, and the only value the architecture registry is keyed by.
func readMachine(data []byte, endian Endianness) Machine {
	order := byteOrder(endian)
	return Machine(order.Uint16(data[elf32EMachine.Start:elf32EMachine.End]))
}

func byteOrder(endian Endianness) binary.ByteOrder {
	if endian == BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}
