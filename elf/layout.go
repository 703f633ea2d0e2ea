// #############################################################################
// This file is part of the "elf" package of the "lepton" project.
// It is distributed under the MIT License. Refer to the LICENSE file for more
// information.
// #############################################################################

package elf

// Byte-offset layouts of the fixed-width ELF records this package reads and
// writes. Offsets are relative to the start of the record they describe
// (the ELF header, or one program/section header entry).

// span is a half-open byte range [Start, End) within a record.
type span struct {
	Start, End int
}

func (s span) Len() int { return s.End - s.Start }

// Magic is the required first four bytes of any ELF file.
var Magic = [4]byte{0x7F, 'E', 'L', 'F'}

// e_ident field offsets, identical for ELF32 and ELF64.
var (
	identMagic      = span{0, 4}
	identClass      = span{4, 5}
	identData       = span{5, 6}
	identVersion    = span{6, 7}
	identOSABI      = span{7, 8}
	identABIVersion = span{8, 9}
	identPad        = span{9, 0x10}
)

// ELF32 header field offsets after e_ident (offset 0x10 onward).
var (
	elf32EType      = span{0x10, 0x12}
	elf32EMachine   = span{0x12, 0x14}
	elf32EVersion   = span{0x14, 0x18}
	elf32EEntry     = span{0x18, 0x1C}
	elf32EPhoff     = span{0x1C, 0x20}
	elf32EShoff     = span{0x20, 0x24}
	elf32EFlags     = span{0x24, 0x28}
	elf32EEhsize    = span{0x28, 0x2A}
	elf32EPhentsize = span{0x2A, 0x2C}
	elf32EPhnum     = span{0x2C, 0x2E}
	elf32EShentsize = span{0x2E, 0x30}
	elf32EShnum     = span{0x30, 0x32}
	elf32EShstrndx  = span{0x32, 0x34}
)

// ELF32HeaderSize is the on-disk size of an ELF32 header.
const ELF32HeaderSize = 0x34

var (
	elf64EType      = span{0x10, 0x12}
	elf64EMachine   = span{0x12, 0x14}
	elf64EVersion   = span{0x14, 0x18}
	elf64EEntry     = span{0x18, 0x20}
	elf64EPhoff     = span{0x20, 0x28}
	elf64EShoff     = span{0x28, 0x30}
	elf64EFlags     = span{0x30, 0x34}
	elf64EEhsize    = span{0x34, 0x36}
	elf64EPhentsize = span{0x36, 0x38}
	elf64EPhnum     = span{0x38, 0x3A}
	elf64EShentsize = span{0x3A, 0x3C}
	elf64EShnum     = span{0x3C, 0x3E}
	elf64EShstrndx  = span{0x3E, 0x40}
)

// ELF64HeaderSize is the on-disk size of an ELF64 header.
const ELF64HeaderSize = 0x40

// Program header entry layouts. Field order differs between ELF32 and
// ELF64; this ordering is part of the external contract (spec.md section 3).
var (
	pEntry32Type   = span{0, 4}
	pEntry32Offset = span{4, 8}
	pEntry32Vaddr  = span{8, 12}
	pEntry32Paddr  = span{12, 16}
	pEntry32Filesz = span{16, 20}
	pEntry32Memsz  = span{20, 24}
	pEntry32Flags  = span{24, 28}
	pEntry32Align  = span{28, 32}
)

// ProgEntrySize32 is the byte size of one ELF32 program header entry.
const ProgEntrySize32 = 32

var (
	pEntry64Type   = span{0, 4}
	pEntry64Flags  = span{4, 8}
	pEntry64Offset = span{8, 16}
	pEntry64Vaddr  = span{16, 24}
	pEntry64Paddr  = span{24, 32}
	pEntry64Filesz = span{32, 40}
	pEntry64Memsz  = span{40, 48}
	pEntry64Align  = span{48, 56}
)

// ProgEntrySize64 is the byte size of one ELF64 program header entry.
const ProgEntrySize64 = 56

// Section header entry layouts. Identical field order for ELF32/ELF64; only
// flags/addr/offset/size/addralign/entsize widen to 8 bytes.
var (
	sEntry32Name      = span{0, 4}
	sEntry32Type      = span{4, 8}
	sEntry32Flags     = span{8, 12}
	sEntry32Addr      = span{12, 16}
	sEntry32Offset    = span{16, 20}
	sEntry32Size      = span{20, 24}
	sEntry32Link      = span{24, 28}
	sEntry32Info      = span{28, 32}
	sEntry32AddrAlign = span{32, 36}
	sEntry32EntSize   = span{36, 40}
)

// SectEntrySize32 is the byte size of one ELF32 section header entry.
const SectEntrySize32 = 40

var (
	sEntry64Name      = span{0, 4}
	sEntry64Type      = span{4, 8}
	sEntry64Flags     = span{8, 16}
	sEntry64Addr      = span{16, 24}
	sEntry64Offset    = span{24, 32}
	sEntry64Size      = span{32, 40}
	sEntry64Link      = span{40, 44}
	sEntry64Info      = span{44, 48}
	sEntry64AddrAlign = span{48, 56}
	sEntry64EntSize   = span{56, 64}
)

// SectEntrySize64 is the byte size of one ELF64 section header entry.
const SectEntrySize64 = 64

// Section types relevant to discovery heuristics.
const (
	shtProgbits = 1
	shtStrtab   = 3
)

// Section flag masks relevant to the PROGBITS plausibility check.
const (
	shfPlausibleMax   = 0x7
	shfProcMaskStart  = 0xF0000000
	shfProcMaskEnd    = 0xF0000007
)

// sectNameStrTabMarker is the literal this implementation looks for inside a
// candidate string-table section to recognize it as the section-name table.
const sectNameStrTabMarker = ".shstrtab"
