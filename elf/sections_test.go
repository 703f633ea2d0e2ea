// #############################################################################
// This file is part of the "elf" package of the "lepton" project.
// It is distributed under the MIT License. Refer to the LICENSE file for more
// information.
// #############################################################################

package elf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSectHeadersCloneMode(t *testing.T) {
	data := buildAMD64()
	id, err := Identify(data)
	require.NoError(t, err)
	h, err := BuildHeader(data, id, false)
	require.NoError(t, err)

	entries := BuildSectHeaders(data, h, false)
	require.Len(t, entries, 3)
	assert.EqualValues(t, 0, entries[0].Type) // mandatory null entry
	assert.EqualValues(t, shtProgbits, entries[1].Type)
	assert.EqualValues(t, shtStrtab, entries[2].Type)

	name, ok := SectionName(data, entries, h.EShstrndx, entries[1].Name)
	require.True(t, ok)
	assert.Equal(t, ".text", name)

	name, ok = SectionName(data, entries, h.EShstrndx, entries[2].Name)
	require.True(t, ok)
	assert.Equal(t, ".shstrtab", name)
}

// Scenario 4: a stripped file (e_shoff/e_shnum/e_shstrndx zeroed) is
// rediscovered in rebuild mode, and the discovered table's first entry is
// all zero.
func TestBuildSectHeadersRebuildDiscoversStrippedTable(t *testing.T) {
	data := buildAMD64()
	id, err := Identify(data)
	require.NoError(t, err)
	h, err := BuildHeader(data, id, false)
	require.NoError(t, err)

	// Strip the header's own pointers to the table -- the table bytes
	// themselves remain in the file, only the header forgot about them.
	h.EShoff, h.EShnum, h.EShstrndx = 0, 0, 0

	entries := BuildSectHeaders(data, h, true)
	require.NotEmpty(t, entries)
	assert.EqualValues(t, 0, entries[0].Type)
	assert.NotZero(t, h.EShoff)
	assert.EqualValues(t, 2, h.EShstrndx)
}

func TestFindShnumExactFitRule(t *testing.T) {
	data := make([]byte, 64+2*SectEntrySize64) // shoff=64, exactly 2 entries to EOF
	shnum := findShnum(data, 64, SectEntrySize64)
	assert.EqualValues(t, 2, shnum)
}

// Invariant 6: discovery returns (shoff, shnum) within file bounds whenever
// shnum > 0.
func TestDiscoverSectionTableWithinBounds(t *testing.T) {
	data := buildAMD64()
	shoff, shnum, _ := discoverSectionTable(data, Class64, LittleEndian)
	require.Greater(t, int(shnum), 0)
	assert.LessOrEqual(t, shoff+uint64(shnum)*SectEntrySize64, uint64(len(data)))
}

func TestDiscoverSectionTableNoCandidateIsEmpty(t *testing.T) {
	data := buildI386() // no section header table anywhere in this buffer
	shoff, shnum, shstrndx := discoverSectionTable(data, Class32, LittleEndian)
	assert.EqualValues(t, 0, shoff)
	assert.EqualValues(t, 0, shnum)
	assert.EqualValues(t, 0, shstrndx)
}

func TestPlausibleFlags(t *testing.T) {
	assert.True(t, plausibleFlags(0))
	assert.True(t, plausibleFlags(shfPlausibleMax))
	assert.True(t, plausibleFlags(shfProcMaskStart))
	assert.True(t, plausibleFlags(shfProcMaskEnd))
	assert.False(t, plausibleFlags(shfPlausibleMax+1))
	assert.False(t, plausibleFlags(shfProcMaskEnd+1))
}
