// Package packager writes minimal, uncompressed ZIP containers for Office packages.
//
// Every entry is written with the "stored" method, so the output is a plain
// concatenation of local headers and file bytes followed by the central
// directory and a single end-of-central-directory record. No ZIP64 support:
// packages produced here are small.
package packager

import (
	"bytes"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"unicode/utf8"
)

// ZIP record signatures.
const (
	sigLocalHeader   = 0x04034b50
	sigCentralHeader = 0x02014b50
	sigEndOfCentral  = 0x06054b50
)

const (
	versionNeeded = 20
	versionMadeBy = 20
	methodStored  = 0
	flagUTF8      = 1 << 11

	// 1980-01-01 00:00:00 in MS-DOS format.
	dosDate = 0x0021
	dosTime = 0x0000

	localHeaderLen   = 30
	centralHeaderLen = 46
	endOfCentralLen  = 22
)

// ErrAlreadyBuilt is returned when Build is called more than once.
var ErrAlreadyBuilt = errors.New("packager: already built")

// Entry is one packaged file.
type Entry struct {
	// Path is the entry name inside the container.
	Path string
	// Size is the uncompressed (and stored) byte count.
	Size uint32
	// CRC32 is the IEEE checksum of the entry bytes.
	CRC32 uint32
	// Offset is where the entry's local header starts in the output.
	Offset uint32

	flags uint16
}

// Packager assembles named byte blobs into a ZIP container.
// A Packager is single-use: Build may be called once.
type Packager struct {
	buf     bytes.Buffer
	entries []Entry
	built   bool
}

// New returns an empty Packager.
func New() *Packager {
	return &Packager{}
}

// AddFile appends one entry. It is a no-op after Build.
func (p *Packager) AddFile(path string, data []byte) {
	if p.built {
		return
	}

	e := Entry{
		Path:   path,
		Size:   uint32(len(data)),
		CRC32:  crc32.ChecksumIEEE(data),
		Offset: uint32(p.buf.Len()),
	}
	if !isASCII(path) && utf8.ValidString(path) {
		e.flags |= flagUTF8
	}

	var h [localHeaderLen]byte
	le := binary.LittleEndian
	le.PutUint32(h[0:], sigLocalHeader)
	le.PutUint16(h[4:], versionNeeded)
	le.PutUint16(h[6:], e.flags)
	le.PutUint16(h[8:], methodStored)
	le.PutUint16(h[10:], dosTime)
	le.PutUint16(h[12:], dosDate)
	le.PutUint32(h[14:], e.CRC32)
	le.PutUint32(h[18:], e.Size) // compressed size
	le.PutUint32(h[22:], e.Size) // uncompressed size
	le.PutUint16(h[26:], uint16(len(path)))
	le.PutUint16(h[28:], 0) // extra field length

	p.buf.Write(h[:])
	p.buf.WriteString(path)
	p.buf.Write(data)
	p.entries = append(p.entries, e)
}

// AddText appends one entry holding the UTF-8 bytes of text.
func (p *Packager) AddText(path, text string) {
	p.AddFile(path, []byte(text))
}

// Entries returns the entries added so far.
func (p *Packager) Entries() []Entry {
	out := make([]Entry, len(p.entries))
	copy(out, p.entries)
	return out
}

// Len returns the number of entries added so far.
func (p *Packager) Len() int {
	return len(p.entries)
}

// Build appends the central directory and end record and returns the container.
func (p *Packager) Build() ([]byte, error) {
	if p.built {
		return nil, ErrAlreadyBuilt
	}
	p.built = true

	le := binary.LittleEndian
	cdOffset := uint32(p.buf.Len())

	for _, e := range p.entries {
		var h [centralHeaderLen]byte
		le.PutUint32(h[0:], sigCentralHeader)
		le.PutUint16(h[4:], versionMadeBy)
		le.PutUint16(h[6:], versionNeeded)
		le.PutUint16(h[8:], e.flags)
		le.PutUint16(h[10:], methodStored)
		le.PutUint16(h[12:], dosTime)
		le.PutUint16(h[14:], dosDate)
		le.PutUint32(h[16:], e.CRC32)
		le.PutUint32(h[20:], e.Size)
		le.PutUint32(h[24:], e.Size)
		le.PutUint16(h[28:], uint16(len(e.Path)))
		le.PutUint16(h[30:], 0) // extra field length
		le.PutUint16(h[32:], 0) // comment length
		le.PutUint16(h[34:], 0) // disk number start
		le.PutUint16(h[36:], 0) // internal attributes
		le.PutUint32(h[38:], 0) // external attributes
		le.PutUint32(h[42:], e.Offset)

		p.buf.Write(h[:])
		p.buf.WriteString(e.Path)
	}

	cdSize := uint32(p.buf.Len()) - cdOffset
	count := uint16(len(p.entries))

	var end [endOfCentralLen]byte
	le.PutUint32(end[0:], sigEndOfCentral)
	le.PutUint16(end[4:], 0) // this disk
	le.PutUint16(end[6:], 0) // disk with central directory
	le.PutUint16(end[8:], count)
	le.PutUint16(end[10:], count)
	le.PutUint32(end[12:], cdSize)
	le.PutUint32(end[16:], cdOffset)
	le.PutUint16(end[20:], 0) // comment length
	p.buf.Write(end[:])

	out := p.buf.Bytes()
	p.buf = bytes.Buffer{}
	return out, nil
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
