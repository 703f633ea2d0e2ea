// #############################################################################
// This file is part of the "elf" package of the "lepton" project.
// It is distributed under the MIT License. Refer to the LICENSE file for more
// information.
// #############################################################################

package elf

import "github.com/sirupsen/logrus"

// Header is the canonically-populated ELF header record. It is constructed
// once, either by cloning the input's fields byte-exact (Clone mode) or by
// rebuilding architecturally-fixed fields from the Architecture Registry
// (Rebuild mode). It is mutated exactly once afterward, by the section
// header table builder operating in rebuild mode, which writes back
// EShnum, EShoff and EShstrndx once the section table has been discovered.
// Ordering of construction (Header, then program headers, then section
// headers) is the caller's contract; see spec.md section 5.
type Header struct {
	Class  Class
	Endian Endianness

	Ident [16]byte

	EType      uint16
	EMachine   uint16
	EVersion   uint32
	EEntry     uint64
	EPhoff     uint64
	EShoff     uint64
	EFlags     uint32
	EEhsize    uint16
	EPhentsize uint16
	EPhnum     uint16
	EShentsize uint16
	EShnum     uint16
	EShstrndx  uint16
}

// Size returns the on-disk byte size of the header for its class.
func (h *Header) Size() int {
	if h.Class == Class32 {
		return ELF32HeaderSize
	}
	return ELF64HeaderSize
}

// Bytes serializes the header in field order: e_ident, e_type, e_machine,
// e_version, e_entry, e_phoff, e_shoff, e_flags, e_ehsize, e_phentsize,
// e_phnum, e_shentsize, e_shnum, e_shstrndx. Variant-width fields are
// written at their class's width, in the header's own endianness.
func (h *Header) Bytes() []byte {
	order := byteOrder(h.Endian)
	buf := make([]byte, h.Size())

	copy(buf[0:16], h.Ident[:])
	order.PutUint16(buf[elf32EType.Start:], h.EType)
	order.PutUint16(buf[elf32EMachine.Start:], h.EMachine)
	order.PutUint32(buf[elf32EVersion.Start:], h.EVersion)

	if h.Class == Class32 {
		order.PutUint32(buf[elf32EEntry.Start:], uint32(h.EEntry))
		order.PutUint32(buf[elf32EPhoff.Start:], uint32(h.EPhoff))
		order.PutUint32(buf[elf32EShoff.Start:], uint32(h.EShoff))
		order.PutUint32(buf[elf32EFlags.Start:], h.EFlags)
		order.PutUint16(buf[elf32EEhsize.Start:], h.EEhsize)
		order.PutUint16(buf[elf32EPhentsize.Start:], h.EPhentsize)
		order.PutUint16(buf[elf32EPhnum.Start:], h.EPhnum)
		order.PutUint16(buf[elf32EShentsize.Start:], h.EShentsize)
		order.PutUint16(buf[elf32EShnum.Start:], h.EShnum)
		order.PutUint16(buf[elf32EShstrndx.Start:], h.EShstrndx)
	} else {
		order.PutUint64(buf[elf64EEntry.Start:], h.EEntry)
		order.PutUint64(buf[elf64EPhoff.Start:], h.EPhoff)
		order.PutUint64(buf[elf64EShoff.Start:], h.EShoff)
		order.PutUint32(buf[elf64EFlags.Start:], h.EFlags)
		order.PutUint16(buf[elf64EEhsize.Start:], h.EEhsize)
		order.PutUint16(buf[elf64EPhentsize.Start:], h.EPhentsize)
		order.PutUint16(buf[elf64EPhnum.Start:], h.EPhnum)
		order.PutUint16(buf[elf64EShentsize.Start:], h.EShentsize)
		order.PutUint16(buf[elf64EShnum.Start:], h.EShnum)
		order.PutUint16(buf[elf64EShstrndx.Start:], h.EShstrndx)
	}

	return buf
}

// BuildHeader constructs the Header record for data given its already
// inferred identity. In clone mode every field is copied byte-exact from
// data's own layout. In rebuild mode the architecturally-fixed fields are
// replaced with the Architecture Registry's canonical values, and the
// caller-visible fields (e_type, e_entry, e_shoff, e_phnum, e_shnum,
// e_shstrndx) are still taken from data since they are not pinned to the
// architecture. Rebuild mode can refuse to produce a header (returning
// HeaderOverlap) if the canonical e_phoff exceeds the file's observed
// e_phoff, since the canonical header would then overwrite the bytes that
// start at the observed e_phoff.
func BuildHeader(data []byte, id Identity, rebuild bool) (*Header, error) {
	if id.Bits == Class64 && len(data) < ELF64HeaderSize {
		return nil, newError(UndeterminedBitness,
			"buffer too short (%d bytes) to carry a full ELF64 header", len(data))
	}

	arch, err := archInfo(id.Machine, id.Bits, id.Endian)
	if err != nil {
		return nil, err
	}

	if rebuild {
		return buildRebuiltHeader(data, id, arch)
	}
	return buildClonedHeader(data, id)
}

func buildClonedHeader(data []byte, id Identity) (*Header, error) {
	order := byteOrder(id.Endian)
	h := &Header{Class: id.Bits, Endian: id.Endian}
	copy(h.Ident[:], data[0:16])

	if id.Bits == Class32 {
		h.EType = order.Uint16(data[elf32EType.Start:elf32EType.End])
		h.EMachine = order.Uint16(data[elf32EMachine.Start:elf32EMachine.End])
		h.EVersion = order.Uint32(data[elf32EVersion.Start:elf32EVersion.End])
		h.EEntry = uint64(order.Uint32(data[elf32EEntry.Start:elf32EEntry.End]))
		h.EPhoff = uint64(order.Uint32(data[elf32EPhoff.Start:elf32EPhoff.End]))
		h.EShoff = uint64(order.Uint32(data[elf32EShoff.Start:elf32EShoff.End]))
		h.EFlags = order.Uint32(data[elf32EFlags.Start:elf32EFlags.End])
		h.EEhsize = order.Uint16(data[elf32EEhsize.Start:elf32EEhsize.End])
		h.EPhentsize = order.Uint16(data[elf32EPhentsize.Start:elf32EPhentsize.End])
		h.EPhnum = order.Uint16(data[elf32EPhnum.Start:elf32EPhnum.End])
		h.EShentsize = order.Uint16(data[elf32EShentsize.Start:elf32EShentsize.End])
		h.EShnum = order.Uint16(data[elf32EShnum.Start:elf32EShnum.End])
		h.EShstrndx = order.Uint16(data[elf32EShstrndx.Start:elf32EShstrndx.End])
		return h, nil
	}

	h.EType = order.Uint16(data[elf64EType.Start:elf64EType.End])
	h.EMachine = order.Uint16(data[elf64EMachine.Start:elf64EMachine.End])
	h.EVersion = order.Uint32(data[elf64EVersion.Start:elf64EVersion.End])
	h.EEntry = order.Uint64(data[elf64EEntry.Start:elf64EEntry.End])
	h.EPhoff = order.Uint64(data[elf64EPhoff.Start:elf64EPhoff.End])
	h.EShoff = order.Uint64(data[elf64EShoff.Start:elf64EShoff.End])
	h.EFlags = order.Uint32(data[elf64EFlags.Start:elf64EFlags.End])
	h.EEhsize = order.Uint16(data[elf64EEhsize.Start:elf64EEhsize.End])
	h.EPhentsize = order.Uint16(data[elf64EPhentsize.Start:elf64EPhentsize.End])
	h.EPhnum = order.Uint16(data[elf64EPhnum.Start:elf64EPhnum.End])
	h.EShentsize = order.Uint16(data[elf64EShentsize.Start:elf64EShentsize.End])
	h.EShnum = order.Uint16(data[elf64EShnum.Start:elf64EShnum.End])
	h.EShstrndx = order.Uint16(data[elf64EShstrndx.Start:elf64EShstrndx.End])
	return h, nil
}

func buildRebuiltHeader(data []byte, id Identity, arch ArchInfo) (*Header, error) {
	order := byteOrder(id.Endian)

	var observedPhoff uint64
	if id.Bits == Class32 {
		observedPhoff = uint64(order.Uint32(data[elf32EPhoff.Start:elf32EPhoff.End]))
	} else {
		observedPhoff = order.Uint64(data[elf64EPhoff.Start:elf64EPhoff.End])
	}

	if observedPhoff < arch.Phoff {
		logrus.Infof("likely ELF header and program header overlap: observed e_phoff 0x%x < canonical 0x%x",
			observedPhoff, arch.Phoff)
		return nil, newError(HeaderOverlap,
			"observed e_phoff 0x%x is less than canonical e_phoff 0x%x for this architecture",
			observedPhoff, arch.Phoff)
	}

	h := &Header{Class: id.Bits, Endian: id.Endian}
	h.Ident[0], h.Ident[1], h.Ident[2], h.Ident[3] = Magic[0], Magic[1], Magic[2], Magic[3]
	h.Ident[identClass.Start] = byte(arch.Class)
	h.Ident[identData.Start] = byte(arch.Endian)
	h.Ident[identVersion.Start] = arch.Version
	h.Ident[identOSABI.Start] = arch.OSABI
	h.Ident[identABIVersion.Start] = arch.ABIVersion
	// identPad is left zero, matching the 7 bytes of zero padding the
	// Architecture descriptor specifies.

	h.EMachine = uint16(id.Machine)
	h.EVersion = arch.EVersion
	h.EEhsize = arch.Ehsize
	h.EPhentsize = arch.Phentsize
	h.EShentsize = arch.Shentsize
	h.EPhoff = arch.Phoff
	h.EFlags = 0

	if id.Bits == Class32 {
		h.EType = order.Uint16(data[elf32EType.Start:elf32EType.End])
		h.EEntry = uint64(order.Uint32(data[elf32EEntry.Start:elf32EEntry.End]))
		h.EShoff = uint64(order.Uint32(data[elf32EShoff.Start:elf32EShoff.End]))
		h.EPhnum = order.Uint16(data[elf32EPhnum.Start:elf32EPhnum.End])
		h.EShnum = order.Uint16(data[elf32EShnum.Start:elf32EShnum.End])
		h.EShstrndx = order.Uint16(data[elf32EShstrndx.Start:elf32EShstrndx.End])
	} else {
		h.EType = order.Uint16(data[elf64EType.Start:elf64EType.End])
		h.EEntry = order.Uint64(data[elf64EEntry.Start:elf64EEntry.End])
		h.EShoff = order.Uint64(data[elf64EShoff.Start:elf64EShoff.End])
		h.EPhnum = order.Uint16(data[elf64EPhnum.Start:elf64EPhnum.End])
		h.EShnum = order.Uint16(data[elf64EShnum.Start:elf64EShnum.End])
		h.EShstrndx = order.Uint16(data[elf64EShstrndx.Start:elf64EShstrndx.End])
	}

	return h, nil
}
