// #############################################################################
// This file is part of the "elf" package of the "lepton" project.
// It is distributed under the MIT License. Refer to the LICENSE file for more
// information.
// #############################################################################

package elf

import "github.com/sirupsen/logrus"

// Class identifies the word size of an ELF file.
type Class uint8

const (
	ClassNone Class = 0
	Class32   Class = 1
	Class64   Class = 2
)

// Endianness identifies the byte order of an ELF file.
type Endianness uint8

const (
	LittleEndian Endianness = 1
	BigEndian    Endianness = 2
)

// Machine is an e_machine value, decoded in the file's inferred byte order,
// so architecture lookup sees the same number for a little- or big-endian
// file.
type Machine uint16

const (
	MachineI386    Machine = 0x03
	MachineMIPS    Machine = 0x08
	MachinePowerPC Machine = 0x14
	MachineARM     Machine = 0x28
	MachineAMD64   Machine = 0x3E
)

// ArchInfo carries the canonical field values the rebuild-mode header
// builder uses for a given machine. Values mirror lepton's
// arch/{amd64,i386,mips}.py and spec.md section 3.
type ArchInfo struct {
	Class      Class
	Endian     Endianness
	Version    uint8
	OSABI      uint8
	ABIVersion uint8
	EVersion   uint32
	Ehsize     uint16
	Phentsize  uint16
	Shentsize  uint16
	Phoff      uint64
}

// elf32Canonical is the set of canonical field values shared by every
// fixed ELF32-little-endian architecture (i386, ARM).
var elf32Canonical = ArchInfo{
	Class:      Class32,
	Endian:     LittleEndian,
	Version:    1,
	OSABI:      0,
	ABIVersion: 0,
	EVersion:   1,
	Ehsize:     ELF32HeaderSize,
	Phentsize:  ProgEntrySize32,
	Shentsize:  SectEntrySize32,
	Phoff:      ELF32HeaderSize,
}

// elf64Canonical is the set of canonical field values for AMD64.
var elf64Canonical = ArchInfo{
	Class:      Class64,
	Endian:     LittleEndian,
	Version:    1,
	OSABI:      0,
	ABIVersion: 0,
	EVersion:   1,
	Ehsize:     ELF64HeaderSize,
	Phentsize:  ProgEntrySize64,
	Shentsize:  SectEntrySize64,
	Phoff:      ELF64HeaderSize,
}

// ppc32BigEndian is PowerPC's canonical tuple: ELF32, big-endian.
var ppc32BigEndian = ArchInfo{
	Class:      Class32,
	Endian:     BigEndian,
	Version:    1,
	OSABI:      0,
	ABIVersion: 0,
	EVersion:   1,
	Ehsize:     ELF32HeaderSize,
	Phentsize:  ProgEntrySize32,
	Shentsize:  SectEntrySize32,
	Phoff:      ELF32HeaderSize,
}

// mipsArch returns the canonical ArchInfo for MIPS given the previously
// inferred bitness and endianness, since MIPS (unlike the other four
// supported machines) is not pinned to a single class/endian pair.
func mipsArch(bits Class, endian Endianness) ArchInfo {
	if bits == Class32 {
		return ArchInfo{
			Class:      Class32,
			Endian:     endian,
			Version:    1,
			OSABI:      0,
			ABIVersion: 0,
			EVersion:   1,
			Ehsize:     ELF32HeaderSize,
			Phentsize:  ProgEntrySize32,
			Shentsize:  SectEntrySize32,
			Phoff:      ELF32HeaderSize,
		}
	}
	return ArchInfo{
		Class:      Class64,
		Endian:     endian,
		Version:    1,
		OSABI:      0,
		ABIVersion: 0,
		EVersion:   1,
		Ehsize:     ELF64HeaderSize,
		Phentsize:  ProgEntrySize64,
		Shentsize:  SectEntrySize64,
		Phoff:      ELF64HeaderSize,
	}
}

// archInfo looks up the canonical ArchInfo for machine, resolving MIPS's
// (bits, endian)-parameterized descriptor against the identity already
// inferred for the file. Unknown machines report UnsupportedArch.
func archInfo(machine Machine, bits Class, endian Endianness) (ArchInfo, error) {
	switch machine {
	case MachineI386, MachineARM:
		return elf32Canonical, nil
	case MachineAMD64:
		return elf64Canonical, nil
	case MachinePowerPC:
		return ppc32BigEndian, nil
	case MachineMIPS:
		return mipsArch(bits, endian), nil
	default:
		logrus.Errorf("unsupported architecture: e_machine 0x%04x", uint16(machine))
		return ArchInfo{}, newError(UnsupportedArch, "e_machine 0x%04x not in architecture registry", uint16(machine))
	}
}
