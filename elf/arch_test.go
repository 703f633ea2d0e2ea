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

func TestArchInfoKnownMachines(t *testing.T) {
	cases := []struct {
		name    string
		machine Machine
		bits    Class
		endian  Endianness
		want    ArchInfo
	}{
		{"i386", MachineI386, Class32, LittleEndian, elf32Canonical},
		{"arm", MachineARM, Class32, LittleEndian, elf32Canonical},
		{"amd64", MachineAMD64, Class64, LittleEndian, elf64Canonical},
		{"ppc", MachinePowerPC, Class32, BigEndian, ppc32BigEndian},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := archInfo(c.machine, c.bits, c.endian)
			require.NoError(t, err)
			assert.Equal(t, c.want, got)
		})
	}
}

func TestArchInfoMipsVariants(t *testing.T) {
	got, err := archInfo(MachineMIPS, Class32, LittleEndian)
	require.NoError(t, err)
	assert.Equal(t, Class32, got.Class)
	assert.Equal(t, LittleEndian, got.Endian)
	assert.Equal(t, uint16(ELF32HeaderSize), got.Ehsize)

	got, err = archInfo(MachineMIPS, Class64, BigEndian)
	require.NoError(t, err)
	assert.Equal(t, Class64, got.Class)
	assert.Equal(t, BigEndian, got.Endian)
	assert.Equal(t, uint16(ELF64HeaderSize), got.Ehsize)
}

// Invariant 5: architecture lookup is total on registry keys and fails
// cleanly on others.
func TestArchInfoUnknownMachine(t *testing.T) {
	_, err := archInfo(Machine(0x9999), Class32, LittleEndian)
	require.Error(t, err)
	assert.True(t, IsKind(err, UnsupportedArch))
}
