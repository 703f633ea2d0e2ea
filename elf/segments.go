// #############################################################################
// This file is part of the "elf" package of the "lepton" project.
// It is distributed under the MIT License. Refer to the LICENSE file for more
// information.
// #############################################################################

package elf

// ProgHeader is one entry of the program header table. Offset, address, size
// and alignment fields are widened to uint64 regardless of class; Bytes
// reproduces the class's native width and field order on serialization.
type ProgHeader struct {
	Type   uint32
	Flags  uint32
	Offset uint64
	Vaddr  uint64
	Paddr  uint64
	Filesz uint64
	Memsz  uint64
	Align  uint64
}

// Bytes serializes one program header entry in the given class and
// endianness.
func (p ProgHeader) Bytes(class Class, endian Endianness) []byte {
	order := byteOrder(endian)

	if class == Class32 {
		buf := make([]byte, ProgEntrySize32)
		order.PutUint32(buf[pEntry32Type.Start:], p.Type)
		order.PutUint32(buf[pEntry32Offset.Start:], uint32(p.Offset))
		order.PutUint32(buf[pEntry32Vaddr.Start:], uint32(p.Vaddr))
		order.PutUint32(buf[pEntry32Paddr.Start:], uint32(p.Paddr))
		order.PutUint32(buf[pEntry32Filesz.Start:], uint32(p.Filesz))
		order.PutUint32(buf[pEntry32Memsz.Start:], uint32(p.Memsz))
		order.PutUint32(buf[pEntry32Flags.Start:], p.Flags)
		order.PutUint32(buf[pEntry32Align.Start:], uint32(p.Align))
		return buf
	}

	buf := make([]byte, ProgEntrySize64)
	order.PutUint32(buf[pEntry64Type.Start:], p.Type)
	order.PutUint32(buf[pEntry64Flags.Start:], p.Flags)
	order.PutUint64(buf[pEntry64Offset.Start:], p.Offset)
	order.PutUint64(buf[pEntry64Vaddr.Start:], p.Vaddr)
	order.PutUint64(buf[pEntry64Paddr.Start:], p.Paddr)
	order.PutUint64(buf[pEntry64Filesz.Start:], p.Filesz)
	order.PutUint64(buf[pEntry64Memsz.Start:], p.Memsz)
	order.PutUint64(buf[pEntry64Align.Start:], p.Align)
	return buf
}

func decodeProgHeader(entry []byte, class Class, endian Endianness) ProgHeader {
	order := byteOrder(endian)

	if class == Class32 {
		return ProgHeader{
			Type:   order.Uint32(entry[pEntry32Type.Start:pEntry32Type.End]),
			Offset: uint64(order.Uint32(entry[pEntry32Offset.Start:pEntry32Offset.End])),
			Vaddr:  uint64(order.Uint32(entry[pEntry32Vaddr.Start:pEntry32Vaddr.End])),
			Paddr:  uint64(order.Uint32(entry[pEntry32Paddr.Start:pEntry32Paddr.End])),
			Filesz: uint64(order.Uint32(entry[pEntry32Filesz.Start:pEntry32Filesz.End])),
			Memsz:  uint64(order.Uint32(entry[pEntry32Memsz.Start:pEntry32Memsz.End])),
			Flags:  order.Uint32(entry[pEntry32Flags.Start:pEntry32Flags.End]),
			Align:  uint64(order.Uint32(entry[pEntry32Align.Start:pEntry32Align.End])),
		}
	}

	return ProgHeader{
		Type:   order.Uint32(entry[pEntry64Type.Start:pEntry64Type.End]),
		Flags:  order.Uint32(entry[pEntry64Flags.Start:pEntry64Flags.End]),
		Offset: order.Uint64(entry[pEntry64Offset.Start:pEntry64Offset.End]),
		Vaddr:  order.Uint64(entry[pEntry64Vaddr.Start:pEntry64Vaddr.End]),
		Paddr:  order.Uint64(entry[pEntry64Paddr.Start:pEntry64Paddr.End]),
		Filesz: order.Uint64(entry[pEntry64Filesz.Start:pEntry64Filesz.End]),
		Memsz:  order.Uint64(entry[pEntry64Memsz.Start:pEntry64Memsz.End]),
		Align:  order.Uint64(entry[pEntry64Align.Start:pEntry64Align.End]),
	}
}

// progEntrySize returns the on-disk size of one program header entry for class.
func progEntrySize(class Class) int {
	if class == Class32 {
		return ProgEntrySize32
	}
	return ProgEntrySize64
}

// BuildProgHeaders reads h.EPhnum entries starting at h.EPhoff. Clone mode
// and rebuild mode read identically: unlike the section header table, the
// program header table's location and count are never in doubt once the
// header is built, so there is nothing to discover. The only difference
// rebuild mode makes is that h's own fields (phoff, phentsize) already carry
// canonical values by the time this runs. Entries that don't fit inside data
// are dropped rather than causing the whole table to fail, matching the
// per-entry tolerance spec.md asks for elsewhere in this package.
func BuildProgHeaders(data []byte, h *Header) []ProgHeader {
	entrySize := progEntrySize(h.Class)
	entries := make([]ProgHeader, 0, h.EPhnum)

	for i := 0; i < int(h.EPhnum); i++ {
		start := int(h.EPhoff) + i*entrySize
		end := start + entrySize
		if start < 0 || end > len(data) {
			break
		}
		entries = append(entries, decodeProgHeader(data[start:end], h.Class, h.Endian))
	}

	return entries
}
