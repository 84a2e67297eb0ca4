// Package script decodes the opcode streams of scripted worldmap events.
package script

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// InstructionSize is one opcode: signed 16-bit code and two u8 parameters
const InstructionSize = 4

// ErrOffsetRange reports an entity offset outside its section
var ErrOffsetRange = errors.New("entity offset outside section")

// Opcode is one decoded instruction
type Opcode struct {
	Code     int16  `json:"code"`
	Mnemonic string `json:"mnemonic"`
	Param1   uint8  `json:"param1"`
	Param2   uint8  `json:"param2"`
}

func (o Opcode) String() string {
	return fmt.Sprintf("%s(%d) %d %d", o.Mnemonic, o.Code, o.Param1, o.Param2)
}

// Entity is one scripted event made of sub-scripts
type Entity struct {
	Offset     int        `json:"offset"`
	SubScripts [][]Opcode `json:"subScripts"`
}

// Unknown counts the instructions with no known mnemonic
func (e Entity) Unknown() int {
	n := 0
	for _, sub := range e.SubScripts {
		for _, op := range sub {
			if op.Mnemonic == Unknown {
				n++
			}
		}
	}
	return n
}

// Len counts every instruction in the entity
func (e Entity) Len() int {
	n := 0
	for _, sub := range e.SubScripts {
		n += len(sub)
	}
	return n
}

// DecodeEntity scans instructions from offset, relative to the section start,
// until a zero opcode or the end of the section. A SubScriptStart opcode
// closes the current sub-script; empty sub-scripts are dropped.
func DecodeEntity(section []byte, offset int) (Entity, error) {
	e := Entity{Offset: offset, SubScripts: [][]Opcode{}}
	if offset < 0 || offset >= len(section) {
		return e, fmt.Errorf("%w: offset %d, section size %d", ErrOffsetRange, offset, len(section))
	}

	var current []Opcode
	flush := func() {
		if len(current) > 0 {
			e.SubScripts = append(e.SubScripts, current)
			current = nil
		}
	}

	for p := offset; p+2 <= len(section); p += InstructionSize {
		code := int16(binary.LittleEndian.Uint16(section[p:]))
		if code == 0 {
			break
		}
		if p+InstructionSize > len(section) {
			break
		}
		if code == SubScriptStart {
			flush()
			continue
		}
		current = append(current, Opcode{
			Code:     code,
			Mnemonic: Mnemonic(code),
			Param1:   section[p+2],
			Param2:   section[p+3],
		})
	}
	flush()

	return e, nil
}
