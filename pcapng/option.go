// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package pcapng

import "encoding/binary"

// Option is a single pcapng block option: its Code tells the type of option,
// while the meaning of its Value octets depends on the type.
type Option struct {
	Code  uint16
	Value []byte
}

// Option codes common to all blocks, as well as those specific to section
// header blocks.
const (
	OptEndofOpt    = uint16(0) // end of the option list
	OptComment     = uint16(1) // UTF-8 comment
	OptSHBHardware = uint16(2) // UTF-8 description of the capture hardware
	OptSHBOS       = uint16(3) // UTF-8 name of the capture operating system
	OptSHBUserAppl = uint16(4) // UTF-8 name of the capture application
)

// optionHeaderLen is the length of an option's code and length fields.
const optionHeaderLen = 4

// aligned returns n rounded up to the next 32bit boundary.
func aligned(n uint) uint {
	return (n + 3) &^ 3
}

// NewOption decodes the option at the beginning of buff using the specified
// byte order. It additionally returns the number of octets taken by the
// option including its padding, so the caller knows where the next option
// starts. The end-of-options option decodes as nil. Truncated options decode
// as nil, too, skipping the remaining buffer.
func NewOption(buff []byte, endian binary.ByteOrder) (*Option, uint) {
	if len(buff) < optionHeaderLen {
		return nil, uint(len(buff))
	}
	code := endian.Uint16(buff[0:2])
	length := uint(endian.Uint16(buff[2:4]))
	skip := aligned(optionHeaderLen + length)
	if code == OptEndofOpt && length == 0 {
		return nil, skip
	}
	if optionHeaderLen+length > uint(len(buff)) {
		return nil, uint(len(buff))
	}
	return &Option{
		Code:  code,
		Value: buff[optionHeaderLen : optionHeaderLen+length],
	}, skip
}

// String returns the option value interpreted as an UTF-8 string.
func (o *Option) String() string {
	return string(o.Value)
}

// Bytes returns the encoded option, padded to 32 bits, using the specified
// byte order. A nil option encodes as the end-of-options option.
func (o *Option) Bytes(endian binary.ByteOrder) []byte {
	if o == nil {
		return make([]byte, optionHeaderLen)
	}
	b := make([]byte, aligned(optionHeaderLen+uint(len(o.Value))))
	endian.PutUint16(b[0:2], o.Code)
	endian.PutUint16(b[2:4], uint16(len(o.Value)))
	copy(b[optionHeaderLen:], o.Value)
	return b
}

// encodeOptions returns the encoded options, terminated by an end-of-options
// option.
func encodeOptions(options []*Option, endian binary.ByteOrder) []byte {
	var b []byte
	for _, opt := range options {
		b = append(b, opt.Bytes(endian)...)
	}
	return append(b, (*Option)(nil).Bytes(endian)...)
}
