// #############################################################################
// This file is part of the "elf" package of the "lepton" project.
// It is distributed under the MIT License. Refer to the LICENSE file for more
// information.
// #############################################################################

// Package elf infers, reconstructs and scans ELF files whose own header
// fields may be damaged, stripped, or adversarially crafted. It is built to
// read binaries that conventional ELF tooling refuses to load.
package elf

// File is the result of a successful Open: the inferred identity, the
// (possibly rebuilt) header, program and section header tables, and any
// embedded ELF candidates found in the buffer.
type File struct {
	data []byte

	identity    Identity
	header      *Header
	progHeaders []ProgHeader
	sectHeaders []SectHeader
	embedded    []EmbeddedELF
}

// Open runs the full pipeline over data in the order the rest of this
// package requires: Identity Inference, then the Header Builder, then the
// Program and Section Header Table Builders (which may mutate the header's
// section-table fields), then the Embedded-ELF Scanner. rebuild selects
// rebuild mode (canonical fields, discovered section table) over clone mode
// (byte-exact fields, trusted section table). A HeaderOverlap failure in
// rebuild mode aborts the whole file, matching spec.md's unreconstructable
// condition.
func Open(data []byte, rebuild bool) (*File, error) {
	id, err := Identify(data)
	if err != nil {
		return nil, err
	}

	header, err := BuildHeader(data, id, rebuild)
	if err != nil {
		return nil, err
	}

	progHeaders := BuildProgHeaders(data, header)
	sectHeaders := BuildSectHeaders(data, header, rebuild)
	embedded := FindEmbedded(data, id.Endian, id.Machine)

	return &File{
		data:        data,
		identity:    id,
		header:      header,
		progHeaders: progHeaders,
		sectHeaders: sectHeaders,
		embedded:    embedded,
	}, nil
}

// Identity returns the endianness, bitness and machine inferred for the
// file.
func (f *File) Identity() Identity { return f.identity }

// Header returns the header record. Its EShoff/EShnum/EShstrndx fields may
// have been rewritten by the section header table builder; this is the one
// post-construction mutation the package makes.
func (f *File) Header() *Header { return f.header }

// ProgHeaders returns the program header table entries.
func (f *File) ProgHeaders() []ProgHeader { return f.progHeaders }

// SectHeaders returns the section header table entries.
func (f *File) SectHeaders() []SectHeader { return f.sectHeaders }

// Embedded returns every ELF-shaped region found nested inside the file,
// sorted by ascending offset.
func (f *File) Embedded() []EmbeddedELF { return f.embedded }

// Reconstruct emits the reassembled byte stream for this file.
func (f *File) Reconstruct() []byte {
	return Reconstruct(f.data, f.header, f.progHeaders, f.sectHeaders)
}
