// Copyright 2025 The PIMHAL Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package hal

import (
	"encoding/binary"

	"github.com/memflow/pimhal"
)

// Serialized executable container ("pim-isr-fb"), little-endian:
//
//	[0:4)   magic "PIMX"
//	[4:6)   format version, currently 1
//	[6:8)   reserved, zero
//	[8:12)  entry point count
//	[12:16) command word count
//	[16:..) entry point names: per name, uint32 length then bytes
//	        ...padding to an 8-byte boundary...
//	        command words, 8 bytes each
//
// The 16-byte header is the minimum footprint. Verification walks every
// section with bounds checks before any field is trusted.

const (
	defMagic      = "PIMX"
	defVersion    = 1
	defHeaderSize = 16
)

// ExecutableDef is the decoded content of a serialized executable.
type ExecutableDef struct {
	// EntryPoints are the named operations the executable exposes.
	// Every name is non-empty in a verified container.
	EntryPoints []string
	// CommandWords is the compiled command blob. The first word is the
	// operation selector; an empty blob marks a no-op executable.
	CommandWords []uint64
}

// VerifyExecutableDef checks the structure of a serialized executable
// without trusting any of its fields. It returns InvalidArgument for a
// missing or malformed payload and FailedPrecondition when the encoded
// entry-point count differs from the count the caller established through
// its pipeline layouts.
//
// A zero-length command blob passes verification: dispatch treats such an
// executable as "no device work" rather than an error.
func VerifyExecutableDef(data []byte, expectedEntryPoints int) error {
	_, err := parseExecutableDef(data, expectedEntryPoints)
	return err
}

// ParseExecutableDef verifies and decodes a serialized executable. It
// fails exactly where VerifyExecutableDef fails.
func ParseExecutableDef(data []byte, expectedEntryPoints int) (*ExecutableDef, error) {
	return parseExecutableDef(data, expectedEntryPoints)
}

func parseExecutableDef(data []byte, expectedEntryPoints int) (*ExecutableDef, error) {
	if len(data) < defHeaderSize {
		return nil, pimhal.Errorf(pimhal.InvalidArgument,
			"executable data is not present or less than %d bytes (%d total)", defHeaderSize, len(data))
	}
	if string(data[0:4]) != defMagic {
		return nil, pimhal.Errorf(pimhal.InvalidArgument, "executable container has wrong magic")
	}
	if version := binary.LittleEndian.Uint16(data[4:6]); version != defVersion {
		return nil, pimhal.Errorf(pimhal.InvalidArgument,
			"executable container version %d not supported", version)
	}
	entryPointCount := int(binary.LittleEndian.Uint32(data[8:12]))
	commandWordCount := int(binary.LittleEndian.Uint32(data[12:16]))

	if entryPointCount != expectedEntryPoints {
		return nil, pimhal.Errorf(pimhal.FailedPrecondition,
			"executable provides %d entry points but caller provided %d; must match",
			entryPointCount, expectedEntryPoints)
	}

	offset := defHeaderSize
	entryPoints := make([]string, 0, entryPointCount)
	for i := 0; i < entryPointCount; i++ {
		if offset+4 > len(data) {
			return nil, pimhal.Errorf(pimhal.InvalidArgument,
				"executable entry point %d is out of bounds", i)
		}
		nameLen := int(binary.LittleEndian.Uint32(data[offset : offset+4]))
		offset += 4
		if nameLen == 0 {
			return nil, pimhal.Errorf(pimhal.InvalidArgument,
				"executable entry point %d has no name", i)
		}
		if offset+nameLen > len(data) {
			return nil, pimhal.Errorf(pimhal.InvalidArgument,
				"executable entry point %d name is out of bounds", i)
		}
		entryPoints = append(entryPoints, string(data[offset:offset+nameLen]))
		offset += nameLen
	}

	if rem := offset % 8; rem != 0 {
		offset += 8 - rem
	}
	if offset+commandWordCount*8 > len(data) {
		return nil, pimhal.Errorf(pimhal.InvalidArgument,
			"executable command blob of %d words is out of bounds", commandWordCount)
	}
	commandWords := make([]uint64, commandWordCount)
	for i := range commandWords {
		commandWords[i] = binary.LittleEndian.Uint64(data[offset+i*8:])
	}

	return &ExecutableDef{EntryPoints: entryPoints, CommandWords: commandWords}, nil
}

// MarshalExecutableDef serializes def into the container format. It is the
// producer-side counterpart of VerifyExecutableDef, used by tooling and
// tests; the compiler emits the same layout.
func MarshalExecutableDef(def *ExecutableDef) []byte {
	size := defHeaderSize
	for _, name := range def.EntryPoints {
		size += 4 + len(name)
	}
	if rem := size % 8; rem != 0 {
		size += 8 - rem
	}
	size += len(def.CommandWords) * 8

	data := make([]byte, size)
	copy(data[0:4], defMagic)
	binary.LittleEndian.PutUint16(data[4:6], defVersion)
	binary.LittleEndian.PutUint32(data[8:12], uint32(len(def.EntryPoints)))
	binary.LittleEndian.PutUint32(data[12:16], uint32(len(def.CommandWords)))

	offset := defHeaderSize
	for _, name := range def.EntryPoints {
		binary.LittleEndian.PutUint32(data[offset:], uint32(len(name)))
		offset += 4
		copy(data[offset:], name)
		offset += len(name)
	}
	if rem := offset % 8; rem != 0 {
		offset += 8 - rem
	}
	for _, word := range def.CommandWords {
		binary.LittleEndian.PutUint64(data[offset:], word)
		offset += 8
	}
	return data
}
