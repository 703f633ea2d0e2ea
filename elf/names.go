// #############################################################################
// This file is part of the "elf" package of the "lepton" project.
// It is distributed under the MIT License. Refer to the LICENSE file for more
// information.
// #############################################################################

package elf

import (
	"bytes"

	"github.com/nikhilh-20/lepton/utils"
)

// SectionName resolves a section's sh_name index into a string by reading
// the null-terminated string starting at that byte offset inside the
// section-name string table (sectHeaders[shstrndx]). It reports false if
// shstrndx is out of range or the name offset falls outside that section's
// bytes.
func SectionName(data []byte, sectHeaders []SectHeader, shstrndx uint16, nameOffset uint32) (string, bool) {
	if int(shstrndx) >= len(sectHeaders) {
		return "", false
	}
	strTab := sectHeaders[shstrndx]

	start := strTab.Offset + uint64(nameOffset)
	if start >= strTab.Offset+strTab.Size || start >= uint64(len(data)) {
		return "", false
	}

	r := bytes.NewReader(data[start:])
	name, err := utils.ReadCString(r)
	if err != nil {
		return "", false
	}
	return name, true
}
