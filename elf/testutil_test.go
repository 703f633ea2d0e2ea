// #############################################################################
// This file is part of the "elf" package of the "lepton" project.
// It is distributed under the MIT License. Refer to the LICENSE file for more
// information.
// #############################################################################

package elf

import "encoding/binary"

// No binary fixtures ship with this package; every test builds its ELF
// bytes from scratch with the helpers below, independent of the package
// under test's own serialization, so a round-trip test can't pass merely
// because both sides share a bug.

// buildAMD64 assembles a minimal, fully canonical little-endian ELF64
// executable: one PT_LOAD program header, the .shstrtab contents, and a
// three-entry section header table (the mandatory null entry, a PROGBITS
// .text, and .shstrtab) placed last in the file -- matching how linkers
// usually lay a stripped-of-debug binary out, and satisfying the
// section-table discovery heuristic's exact-fit rule ((filesize - shoff) is
// an exact multiple of entsize). The PROGBITS entry exists so that rebuild
// mode's discovery heuristic has a sample to verify against; a table with
// only a string table would never pass the PROGBITS-plausibility check.
func buildAMD64() []byte {
	const (
		ehsize    = 0x40
		phoff     = 0x40
		phentsize = 0x38
		phnum     = 1
		shentsize = 0x40
		shnum     = 3
		shstrndx  = 2
	)
	strTabOff := phoff + phnum*phentsize // 0x78, no gap after the phdr

	strtab := []byte{0x00}
	textNameOff := len(strtab)
	strtab = append(strtab, []byte(".text")...)
	strtab = append(strtab, 0x00)
	shstrtabNameOff := len(strtab)
	strtab = append(strtab, []byte(".shstrtab")...)
	strtab = append(strtab, 0x00)

	shoff := strTabOff + len(strtab) // section header table is the file's tail
	filesize := shoff + shnum*shentsize
	buf := make([]byte, filesize)

	copy(buf[0:4], Magic[:])
	buf[4] = 2 // ELFCLASS64
	buf[5] = 1 // ELFDATA2LSB
	buf[6] = 1 // EI_VERSION
	// EI_OSABI, EI_ABIVERSION, padding all left zero.

	le := binary.LittleEndian
	le.PutUint16(buf[0x10:], 2)    // e_type = ET_EXEC
	le.PutUint16(buf[0x12:], 0x3E) // e_machine = AMD64
	le.PutUint32(buf[0x14:], 1)    // e_version
	le.PutUint64(buf[0x18:], 0x400000)
	le.PutUint64(buf[0x20:], phoff)
	le.PutUint64(buf[0x28:], uint64(shoff))
	le.PutUint32(buf[0x30:], 0) // e_flags
	le.PutUint16(buf[0x34:], ehsize)
	le.PutUint16(buf[0x36:], phentsize)
	le.PutUint16(buf[0x38:], phnum)
	le.PutUint16(buf[0x3A:], shentsize)
	le.PutUint16(buf[0x3C:], shnum)
	le.PutUint16(buf[0x3E:], shstrndx)

	p := buf[phoff:]
	le.PutUint32(p[0:], 1) // p_type = PT_LOAD
	le.PutUint32(p[4:], 5) // p_flags = R+X
	le.PutUint64(p[8:], 0) // p_offset
	le.PutUint64(p[16:], 0x400000)
	le.PutUint64(p[24:], 0x400000)
	le.PutUint64(p[32:], uint64(filesize))
	le.PutUint64(p[40:], uint64(filesize))
	le.PutUint64(p[48:], 0x1000)

	copy(buf[strTabOff:], strtab)

	// Section 0: the mandatory all-zero null entry; buf is already zeroed.

	s1 := buf[shoff+shentsize:] // .text, PROGBITS
	le.PutUint32(s1[0:], uint32(textNameOff))
	le.PutUint32(s1[4:], shtProgbits)
	le.PutUint64(s1[8:], 6) // sh_flags = ALLOC|EXECINSTR, within the plausible set
	le.PutUint64(s1[24:], uint64(phoff))
	le.PutUint64(s1[32:], phentsize)
	le.PutUint64(s1[48:], 16)

	s2 := buf[shoff+2*shentsize:] // .shstrtab, STRTAB
	le.PutUint32(s2[0:], uint32(shstrtabNameOff))
	le.PutUint32(s2[4:], shtStrtab)
	le.PutUint64(s2[24:], uint64(strTabOff))
	le.PutUint64(s2[32:], uint64(len(strtab)))
	le.PutUint64(s2[48:], 1)

	return buf
}

// buildI386 assembles a minimal canonical little-endian ELF32 relocatable
// file: no program headers, no sections -- just a header that reports
// e_phentsize == 32, enough to exercise bitness inference, with e_phoff at
// the canonical ELF32 value so rebuild mode's overlap guard accepts it.
func buildI386() []byte {
	const ehsize = 0x34

	buf := make([]byte, ehsize)
	copy(buf[0:4], Magic[:])
	buf[4] = 1 // ELFCLASS32
	buf[5] = 1 // ELFDATA2LSB
	buf[6] = 1

	le := binary.LittleEndian
	le.PutUint16(buf[0x10:], 1)    // e_type = ET_REL
	le.PutUint16(buf[0x12:], 0x03) // e_machine = i386
	le.PutUint32(buf[0x14:], 1)
	le.PutUint32(buf[0x1C:], ehsize) // e_phoff
	le.PutUint16(buf[0x28:], ehsize)
	le.PutUint16(buf[0x2A:], 32) // e_phentsize
	le.PutUint16(buf[0x2E:], 40) // e_shentsize

	return buf
}
