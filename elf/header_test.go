// #############################################################################
// This file is part of the "elf" package of the "lepton" project.
// It is distributed under the MIT License. Refer to the LICENSE file for more
// information.
// #############################################################################

package elf

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildHeaderCloneRoundTripsBytes(t *testing.T) {
	data := buildAMD64()
	id, err := Identify(data)
	require.NoError(t, err)

	h, err := BuildHeader(data, id, false)
	require.NoError(t, err)
	assert.Equal(t, data[:ELF64HeaderSize], h.Bytes())
}

// Scenario 1: rebuild mode on an already-canonical file yields identical
// header bytes.
func TestBuildHeaderRebuildMatchesCanonicalInput(t *testing.T) {
	data := buildAMD64()
	id, err := Identify(data)
	require.NoError(t, err)

	h, err := BuildHeader(data, id, true)
	require.NoError(t, err)
	assert.Equal(t, data[:ELF64HeaderSize], h.Bytes())
}

// Scenario 2: a forged EI_DATA is corrected to match the inferred
// endianness once the header is rebuilt.
func TestBuildHeaderRebuildCorrectsForgedEIData(t *testing.T) {
	data := buildAMD64()
	data[5] = 2 // forged ELFDATA2MSB

	id, err := Identify(data)
	require.NoError(t, err)
	require.Equal(t, LittleEndian, id.Endian)

	h, err := BuildHeader(data, id, true)
	require.NoError(t, err)
	assert.Equal(t, byte(1), h.Bytes()[5], "rebuilt EI_DATA must read ELFDATA2LSB")
}

// Scenario 3: a forged EI_CLASS is corrected and the ELF32 header size is
// used once the header is rebuilt.
func TestBuildHeaderRebuildCorrectsForgedEIClass(t *testing.T) {
	data := buildI386()
	data[4] = 2 // forged ELFCLASS64

	id, err := Identify(data)
	require.NoError(t, err)
	require.Equal(t, Class32, id.Bits)

	h, err := BuildHeader(data, id, true)
	require.NoError(t, err)
	assert.Equal(t, ELF32HeaderSize, h.Size())
	assert.Equal(t, byte(1), h.Bytes()[4], "rebuilt EI_CLASS must read ELFCLASS32")
}

// Scenario 5: observed e_phoff less than the canonical value yields no
// header record, reported as HeaderOverlap.
func TestBuildHeaderRebuildOverlapAborts(t *testing.T) {
	data := buildAMD64()
	// Move e_phoff earlier than the canonical ELF64 header size (0x40),
	// simulating a program header table that overlaps the header region.
	binary.LittleEndian.PutUint64(data[0x20:], 0x20)

	id, err := Identify(data)
	require.NoError(t, err)

	h, err := BuildHeader(data, id, true)
	require.Nil(t, h)
	require.Error(t, err)
	assert.True(t, IsKind(err, HeaderOverlap))
}
