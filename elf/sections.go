// #############################################################################
// This file is part of the "elf" package of the "lepton" project.
// It is distributed under the MIT License. Refer to the LICENSE file for more
// information.
// #############################################################################

package elf

import "bytes"

// SectHeader is one entry of the section header table.
type SectHeader struct {
	Name      uint32
	Type      uint32
	Flags     uint64
	Addr      uint64
	Offset    uint64
	Size      uint64
	Link      uint32
	Info      uint32
	AddrAlign uint64
	EntSize   uint64
}

// Bytes serializes one section header entry in the given class and
// endianness.
func (s SectHeader) Bytes(class Class, endian Endianness) []byte {
	order := byteOrder(endian)

	if class == Class32 {
		buf := make([]byte, SectEntrySize32)
		order.PutUint32(buf[sEntry32Name.Start:], s.Name)
		order.PutUint32(buf[sEntry32Type.Start:], s.Type)
		order.PutUint32(buf[sEntry32Flags.Start:], uint32(s.Flags))
		order.PutUint32(buf[sEntry32Addr.Start:], uint32(s.Addr))
		order.PutUint32(buf[sEntry32Offset.Start:], uint32(s.Offset))
		order.PutUint32(buf[sEntry32Size.Start:], uint32(s.Size))
		order.PutUint32(buf[sEntry32Link.Start:], s.Link)
		order.PutUint32(buf[sEntry32Info.Start:], s.Info)
		order.PutUint32(buf[sEntry32AddrAlign.Start:], uint32(s.AddrAlign))
		order.PutUint32(buf[sEntry32EntSize.Start:], uint32(s.EntSize))
		return buf
	}

	buf := make([]byte, SectEntrySize64)
	order.PutUint32(buf[sEntry64Name.Start:], s.Name)
	order.PutUint32(buf[sEntry64Type.Start:], s.Type)
	order.PutUint64(buf[sEntry64Flags.Start:], s.Flags)
	order.PutUint64(buf[sEntry64Addr.Start:], s.Addr)
	order.PutUint64(buf[sEntry64Offset.Start:], s.Offset)
	order.PutUint64(buf[sEntry64Size.Start:], s.Size)
	order.PutUint32(buf[sEntry64Link.Start:], s.Link)
	order.PutUint32(buf[sEntry64Info.Start:], s.Info)
	order.PutUint64(buf[sEntry64AddrAlign.Start:], s.AddrAlign)
	order.PutUint64(buf[sEntry64EntSize.Start:], s.EntSize)
	return buf
}

func sectEntrySize(class Class) int {
	if class == Class32 {
		return SectEntrySize32
	}
	return SectEntrySize64
}

func decodeSectHeader(entry []byte, class Class, endian Endianness) SectHeader {
	order := byteOrder(endian)

	if class == Class32 {
		return SectHeader{
			Name:      order.Uint32(entry[sEntry32Name.Start:sEntry32Name.End]),
			Type:      order.Uint32(entry[sEntry32Type.Start:sEntry32Type.End]),
			Flags:     uint64(order.Uint32(entry[sEntry32Flags.Start:sEntry32Flags.End])),
			Addr:      uint64(order.Uint32(entry[sEntry32Addr.Start:sEntry32Addr.End])),
			Offset:    uint64(order.Uint32(entry[sEntry32Offset.Start:sEntry32Offset.End])),
			Size:      uint64(order.Uint32(entry[sEntry32Size.Start:sEntry32Size.End])),
			Link:      order.Uint32(entry[sEntry32Link.Start:sEntry32Link.End]),
			Info:      order.Uint32(entry[sEntry32Info.Start:sEntry32Info.End]),
			AddrAlign: uint64(order.Uint32(entry[sEntry32AddrAlign.Start:sEntry32AddrAlign.End])),
			EntSize:   uint64(order.Uint32(entry[sEntry32EntSize.Start:sEntry32EntSize.End])),
		}
	}

	return SectHeader{
		Name:      order.Uint32(entry[sEntry64Name.Start:sEntry64Name.End]),
		Type:      order.Uint32(entry[sEntry64Type.Start:sEntry64Type.End]),
		Flags:     order.Uint64(entry[sEntry64Flags.Start:sEntry64Flags.End]),
		Addr:      order.Uint64(entry[sEntry64Addr.Start:sEntry64Addr.End]),
		Offset:    order.Uint64(entry[sEntry64Offset.Start:sEntry64Offset.End]),
		Size:      order.Uint64(entry[sEntry64Size.Start:sEntry64Size.End]),
		Link:      order.Uint32(entry[sEntry64Link.Start:sEntry64Link.End]),
		Info:      order.Uint32(entry[sEntry64Info.Start:sEntry64Info.End]),
		AddrAlign: order.Uint64(entry[sEntry64AddrAlign.Start:sEntry64AddrAlign.End]),
		EntSize:   order.Uint64(entry[sEntry64EntSize.Start:sEntry64EntSize.End]),
	}
}

// BuildSectHeaders reads the section header table. In clone mode it trusts
// h.EShoff/h.EShnum outright. In rebuild mode those fields (plus
// h.EShstrndx) are untrustworthy, so the table is located first via
// discoverSectionTable and written back into h -- the one post-construction
// mutation this package performs. Either way, decoding then proceeds
// identically: per-entry bounds failures are skipped rather than aborting
// the whole table, since the goal is to salvage what's usable.
func BuildSectHeaders(data []byte, h *Header, rebuild bool) []SectHeader {
	if rebuild {
		shoff, shnum, shstrndx := discoverSectionTable(data, h.Class, h.Endian)
		h.EShoff = shoff
		h.EShnum = shnum
		h.EShstrndx = shstrndx
	}

	entsize := sectEntrySize(h.Class)
	entries := make([]SectHeader, 0, h.EShnum)
	for i := 0; i < int(h.EShnum); i++ {
		start := int(h.EShoff) + i*entsize
		end := start + entsize
		if start < 0 || end > len(data) {
			continue
		}
		entries = append(entries, decodeSectHeader(data[start:end], h.Class, h.Endian))
	}
	return entries
}

// discoverSectionTable implements the backward zero-entry scan, PROGBITS
// plausibility verification, shnum discovery, and shstrndx marker search of
// spec.md section 4.4. It returns (0, 0, 0) -- an empty table, not an error
// -- when no candidate verifies.
func discoverSectionTable(data []byte, class Class, endian Endianness) (uint64, uint16, uint16) {
	entsize := sectEntrySize(class)

	for pos := len(data) - entsize; pos >= 0; pos-- {
		if !allZero(data[pos : pos+entsize]) {
			continue
		}
		if !verifyProgbitsSamples(data, pos, entsize, class, endian) {
			continue
		}

		shoff := uint64(pos)
		shnum := findShnum(data, shoff, entsize)
		shstrndx := findShstrndx(data, shoff, shnum, entsize, class, endian)
		return shoff, shnum, shstrndx
	}

	return 0, 0, 0
}

func allZero(b []byte) bool {
	for _, c := range b {
		if c != 0 {
			return false
		}
	}
	return true
}

// verifyProgbitsSamples checks up to 5 entries following the candidate
// zero-entry. A PROGBITS sample with implausible flags disqualifies the
// whole candidate; a non-PROGBITS sample is skipped but still consumes
// budget. The candidate passes if at least one PROGBITS sample was seen and
// none disqualified it.
func verifyProgbitsSamples(data []byte, zeroPos, entsize int, class Class, endian Endianness) bool {
	order := byteOrder(endian)
	passed := false

	for i, pos := 0, zeroPos+entsize; i < 5; i, pos = i+1, pos+entsize {
		if pos+entsize > len(data) {
			break
		}
		entry := data[pos : pos+entsize]

		var shType uint32
		var flags uint64
		if class == Class32 {
			shType = order.Uint32(entry[sEntry32Type.Start:sEntry32Type.End])
			flags = uint64(order.Uint32(entry[sEntry32Flags.Start:sEntry32Flags.End]))
		} else {
			shType = order.Uint32(entry[sEntry64Type.Start:sEntry64Type.End])
			flags = order.Uint64(entry[sEntry64Flags.Start:sEntry64Flags.End])
		}

		if shType != shtProgbits {
			continue
		}
		if !plausibleFlags(flags) {
			return false
		}
		passed = true
	}

	return passed
}

func plausibleFlags(flags uint64) bool {
	return flags <= shfPlausibleMax || (flags >= shfProcMaskStart && flags <= shfProcMaskEnd)
}

// findShnum prefers the exact-fit rule (filesize - shoff divisible by
// entsize); failing that it scans forward from shoff for the next all-zero
// entry and takes its index as shnum; failing that, shnum is 0.
func findShnum(data []byte, shoff uint64, entsize int) uint16 {
	filesize := len(data)

	if int(shoff) <= filesize && (filesize-int(shoff))%entsize == 0 {
		return uint16((filesize - int(shoff)) / entsize)
	}

	for idx := 1; ; idx++ {
		pos := int(shoff) + idx*entsize
		if pos+entsize > filesize {
			return 0
		}
		if allZero(data[pos : pos+entsize]) {
			return uint16(idx)
		}
	}
}

// findShstrndx looks for the first SHT_STRTAB entry whose section contents
// contain the literal ".shstrtab", by convention the section-name string
// table's own name.
func findShstrndx(data []byte, shoff uint64, shnum uint16, entsize int, class Class, endian Endianness) uint16 {
	order := byteOrder(endian)

	for num := 0; num < int(shnum); num++ {
		pos := int(shoff) + num*entsize
		if pos+entsize > len(data) {
			continue
		}
		entry := data[pos : pos+entsize]

		var shType uint32
		var shOffset, shSize uint64
		if class == Class32 {
			shType = order.Uint32(entry[sEntry32Type.Start:sEntry32Type.End])
			shOffset = uint64(order.Uint32(entry[sEntry32Offset.Start:sEntry32Offset.End]))
			shSize = uint64(order.Uint32(entry[sEntry32Size.Start:sEntry32Size.End]))
		} else {
			shType = order.Uint32(entry[sEntry64Type.Start:sEntry64Type.End])
			shOffset = order.Uint64(entry[sEntry64Offset.Start:sEntry64Offset.End])
			shSize = order.Uint64(entry[sEntry64Size.Start:sEntry64Size.End])
		}

		if shType != shtStrtab {
			continue
		}
		if shOffset+shSize > uint64(len(data)) {
			continue
		}

		if bytes.Contains(data[shOffset:shOffset+shSize], []byte(sectNameStrTabMarker)) {
			return uint16(num)
		}
	}

	return 0
}
