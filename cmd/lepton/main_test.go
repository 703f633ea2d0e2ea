// #############################################################################
// This file is part of the "lepton" project.
// It is distributed under the MIT License. Refer to the LICENSE file for more
// information.
// #############################################################################

package main

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikhilh-20/lepton/elf"
)

// buildMinimalI386 assembles the same minimal canonical ELF32 header the elf
// package's own tests use, independent of that package's internals, so run()
// can be exercised end to end against real ELF bytes.
func buildMinimalI386() []byte {
	const ehsize = 0x34

	buf := make([]byte, ehsize)
	copy(buf[0:4], elf.Magic[:])
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

func TestRunMissingRequiredFlag(t *testing.T) {
	code := run([]string{"lepton"})
	assert.Equal(t, exitUsageError, code)
}

func TestRunUnreadableFile(t *testing.T) {
	dir := t.TempDir()
	code := run([]string{"lepton", "-in", filepath.Join(dir, "does-not-exist")})
	assert.Equal(t, exitUsageError, code)
}

func TestRunParseError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.elf")
	require.NoError(t, os.WriteFile(path, []byte("not an elf file"), 0644))

	code := run([]string{"lepton", "-in", path})
	assert.Equal(t, exitParseError, code)
}

func TestRunSuccessWritesReconstructedFile(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "in.elf")
	outPath := filepath.Join(dir, "out.elf")
	require.NoError(t, os.WriteFile(inPath, buildMinimalI386(), 0644))

	code := run([]string{"lepton", "-in", inPath, "-out", outPath})
	assert.Equal(t, exitOK, code)
	assert.FileExists(t, outPath)
}
