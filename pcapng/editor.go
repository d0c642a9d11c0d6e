// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package pcapng

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"regexp"
	"strings"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// targetmarker starts the YAML document with the capture target information
// inside an SHB comment.
const targetmarker = "---\n# capture target information\n"

var (
	// markerstart matches the start of the capture target YAML document.
	markerstart = regexp.MustCompile(`(?s)(^|\n)` + targetmarker)
	// markerend matches the start of any YAML document following the capture
	// target YAML document. This isn't a full YAML parser, but good enough
	// for comments written by capture tools.
	markerend = regexp.MustCompile(`(?s)\n---($|\n)`)
)

// Section header block layout.
const (
	shbType      = 0x0a0d0d0a
	byteOrderMag = 0x1a2b3c4d
	// octets needed to find out the byte order and SHB length.
	shbPrologueLen = 12
	// octets of the fixed SHB fields up to the options.
	shbFixedLen = 24
	// octets of an SHB without any options.
	shbMinLen = shbFixedLen + 4
)

// Target describes where a packet capture stream comes from. Runtime names
// the container engine, such as "docker".
type Target struct {
	Pod       string
	Namespace string
	Container string
	Runtime   string
	Node      string
	Interface string
}

// TargetInfo is the capture target information as it gets stored in YAML
// format in the first comment of the first section header block.
type TargetInfo struct {
	PodName       string `yaml:"pod-name,omitempty"`
	Namespace     string `yaml:"namespace,omitempty"`
	ContainerName string `yaml:"container-name"`
	ContainerType string `yaml:"container-type"`
	NodeName      string `yaml:"node-name"`
	Interface     string `yaml:"network-interface,omitempty"`
	CaptureFilter string `yaml:"capture-filter,omitempty"`
	NoProm        bool   `yaml:"no-promiscuous-mode,omitempty"`
}

// StreamEditor annotates a pcapng packet capture stream with capture target
// information. It holds back the stream until it has seen the first section
// header block (SHB), rewrites the SHB's comment, and from then on passes the
// stream through. Streams that aren't pcapng, such as classic pcap streams,
// are passed through unchanged.
type StreamEditor struct {
	// Byte order of the first section, once known.
	Endian binary.ByteOrder

	sink     io.Writer
	info     TargetInfo
	pending  []byte // octets held back until the SHB is complete.
	shbLen   uint32 // zero until known.
	passThru bool
}

// NewStreamEditor returns a new pcapng stream editor writing the (edited)
// stream to sink. The annotation consists of the target together with the
// capture filter and promiscuous mode setting.
func NewStreamEditor(sink io.Writer, target *Target, captureFilter string, noProm bool) *StreamEditor {
	if target == nil {
		target = &Target{}
	}
	return &StreamEditor{
		sink: sink,
		info: TargetInfo{
			PodName:       target.Pod,
			Namespace:     target.Namespace,
			ContainerName: target.Container,
			ContainerType: target.Runtime,
			NodeName:      target.Node,
			Interface:     target.Interface,
			CaptureFilter: captureFilter,
			NoProm:        noProm,
		},
	}
}

// Write accepts more octets of the packet capture stream. It always reports
// the full length of b as written unless the sink fails, even while still
// holding back octets of an incomplete SHB.
func (e *StreamEditor) Write(b []byte) (int, error) {
	out := e.edit(b)
	if len(out) == 0 {
		return len(b), nil
	}
	if _, err := e.sink.Write(out); err != nil {
		log.Debugf("pcapng stream broken: %s", err.Error())
		return 0, err
	}
	return len(b), nil
}

// Flush writes any octets held back while waiting for a complete section
// header block as they are, for streams ending prematurely.
func (e *StreamEditor) Flush() error {
	if e.passThru || len(e.pending) == 0 {
		return nil
	}
	_, err := e.sink.Write(e.release())
	return err
}

// edit returns the octets that can be handed down to the sink.
func (e *StreamEditor) edit(b []byte) []byte {
	if e.passThru {
		return b
	}
	e.pending = append(e.pending, b...)
	if e.shbLen == 0 {
		if len(e.pending) < shbPrologueLen {
			return nil
		}
		if !e.prologue() {
			return e.release()
		}
	}
	if uint32(len(e.pending)) < e.shbLen {
		return nil
	}
	shb := e.annotate(e.pending[:e.shbLen])
	return append(shb, e.release()[e.shbLen:]...)
}

// release switches into pass-through mode and returns the octets held back
// so far.
func (e *StreamEditor) release() []byte {
	pending := e.pending
	e.pending = nil
	e.passThru = true
	return pending
}

// prologue checks that the stream starts with a section header block and
// determines the byte order and length of the block. It returns false for
// any other stream format.
func (e *StreamEditor) prologue() bool {
	if binary.BigEndian.Uint32(e.pending[0:4]) != shbType {
		if isPcap(e.pending[0:4]) {
			log.Debug("classic pcap stream, nothing to annotate")
		} else {
			log.Warn("unknown packet capture stream format, not annotating")
		}
		return false
	}
	switch {
	case binary.BigEndian.Uint32(e.pending[8:12]) == byteOrderMag:
		e.Endian = binary.BigEndian
	case binary.LittleEndian.Uint32(e.pending[8:12]) == byteOrderMag:
		e.Endian = binary.LittleEndian
	default:
		log.Warn("invalid pcapng byte-order magic, not annotating")
		return false
	}
	e.shbLen = e.Endian.Uint32(e.pending[4:8])
	if e.shbLen < shbMinLen || e.shbLen&3 != 0 {
		log.Warnf("invalid pcapng section header block length %d, not annotating", e.shbLen)
		return false
	}
	log.Debugf("section header block of %d octets, %s", e.shbLen, e.Endian)
	return true
}

// annotate returns a new section header block with the capture target
// information stored in its first comment, keeping all other options.
func (e *StreamEditor) annotate(shb []byte) []byte {
	major := e.Endian.Uint16(shb[12:14])
	minor := e.Endian.Uint16(shb[14:16])
	log.Debugf("section header block: version %d.%d", major, minor)

	var comment string
	commented := false
	options := []*Option{}
	for offset := uint(shbFixedLen); offset < uint(len(shb))-4; {
		opt, skip := NewOption(shb[offset:len(shb)-4], e.Endian)
		if opt == nil {
			break
		}
		offset += skip
		if opt.Code == OptComment && !commented {
			comment = opt.String()
			commented = true
			continue
		}
		options = append(options, opt)
	}

	comment = withoutTargetInfo(comment)
	if comment != "" && !strings.HasSuffix(comment, "\n") {
		comment += "\n"
	}
	comment += targetmarker
	if y, err := yaml.Marshal(e.info); err == nil {
		comment += string(y)
	} else {
		log.Errorf("cannot create capture target YAML meta data: %s", err.Error())
	}
	if len(comment) > math.MaxUint16 {
		log.Warnf("SHB comment of %d octets too long, not annotating", len(comment))
		return append([]byte{}, shb...)
	}
	opts := encodeOptions(
		append([]*Option{{Code: OptComment, Value: []byte(comment)}}, options...),
		e.Endian)

	length := uint32(shbFixedLen + len(opts) + 4)
	var b bytes.Buffer
	b.Grow(int(length))
	// The section length becomes unknown, as the SHB changes its size.
	for _, v := range []interface{}{
		uint32(shbType), length, uint32(byteOrderMag), major, minor, ^uint64(0),
	} {
		_ = binary.Write(&b, e.Endian, v)
	}
	b.Write(opts)
	_ = binary.Write(&b, e.Endian, length)
	return b.Bytes()
}

// withoutTargetInfo returns the comment with any capture target YAML document
// removed, but keeping any other YAML documents.
func withoutTargetInfo(comment string) string {
	start := markerstart.FindStringIndex(comment)
	if start == nil {
		return comment
	}
	if comment[start[0]] == '\n' {
		start[0]++
	}
	end := markerend.FindStringIndex(comment[start[1]:])
	if end == nil {
		return comment[:start[0]]
	}
	// Keep the following document, including its separator.
	return comment[:start[0]] + comment[start[1]+end[0]+1:]
}

// isPcap returns true if magic is one of the classic pcap file magics, in
// either byte order and with either micro or nano second resolution.
func isPcap(magic []byte) bool {
	for _, m := range []uint32{0xa1b2c3d4, 0xa1b23c4d} {
		if binary.BigEndian.Uint32(magic) == m || binary.LittleEndian.Uint32(magic) == m {
			return true
		}
	}
	return false
}
