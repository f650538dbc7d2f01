/*package restart contains functions for writing and reading restart files.
A restart file holds every field of one body along with the simulation clock,
so that a run can be resumed exactly.

A file consists of a magic number, a version number, a fixed-width header,
the names and categories of every field, and then each field's data as
byte-column zstd blocks of 64-bit words. Floats are stored as their raw bits,
so nothing is lost.*/
package restart

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/phil-mansfield/multiphase/lib/particles"
)

const (
	// MagicNumber is an arbitrary number at the start of all restart files
	// which helps identify when the code is run on something else by
	// accident.
	MagicNumber = 0x5ba4f11e
	// ReverseMagicNumber is the magic number if read on a machine with
	// flipped endianness.
	ReverseMagicNumber = 0x1ef1a45b
	Version            = 1
)

// ErrFormat is returned (wrapped) when a file isn't a valid restart file.
var ErrFormat = errors.New("restart: invalid file format")

// FixedWidthHeader is the part of the header which has the same size in every
// file.
type FixedWidthHeader struct {
	Iterations   int64
	PhysicalTime float64
	N            int64
}

// Header describes the contents of a restart file.
type Header struct {
	FixedWidthHeader
	Names      []string
	Categories []particles.Category
}

// NewHeader returns the header of a file storing every field of p.
func NewHeader(iterations int, physicalTime float64, p *particles.Particles) *Header {
	hd := &Header{FixedWidthHeader: FixedWidthHeader{
		int64(iterations), physicalTime, int64(p.Len()),
	}}
	for cat := particles.Category(0); cat < particles.NumCategories; cat++ {
		for _, name := range p.Names(cat) {
			hd.Names = append(hd.Names, name)
			hd.Categories = append(hd.Categories, cat)
		}
	}
	return hd
}

func (hd *Header) write(wr io.Writer, order binary.ByteOrder) error {
	if err := binary.Write(wr, order, uint32(MagicNumber)); err != nil {
		return err
	}
	if err := binary.Write(wr, order, uint32(Version)); err != nil {
		return err
	}
	if err := binary.Write(wr, order, &hd.FixedWidthHeader); err != nil {
		return err
	}

	nFields := uint32(len(hd.Names))
	if err := binary.Write(wr, order, nFields); err != nil {
		return err
	}

	nNames := make([]uint32, nFields)
	cats := make([]uint8, nFields)
	for i := range nNames {
		nNames[i], cats[i] = uint32(len(hd.Names[i])), uint8(hd.Categories[i])
	}
	if err := binary.Write(wr, order, nNames); err != nil {
		return err
	}
	for i := range hd.Names {
		if _, err := wr.Write([]byte(hd.Names[i])); err != nil {
			return err
		}
	}
	return binary.Write(wr, order, cats)
}

// readHeader reads the magic number, version and header of a restart file and
// returns the byte order the file was written in.
func readHeader(rd io.Reader) (*Header, binary.ByteOrder, error) {
	var magicNumber, version uint32

	order := binary.ByteOrder(binary.LittleEndian)
	if err := binary.Read(rd, order, &magicNumber); err != nil {
		return nil, nil, err
	}
	switch magicNumber {
	case MagicNumber:
	case ReverseMagicNumber:
		order = binary.BigEndian
	default:
		return nil, nil, fmt.Errorf("%w: restart files begin with the "+
			"32-bit integer %x or %x, but this file begins with %x",
			ErrFormat, MagicNumber, ReverseMagicNumber, magicNumber)
	}

	if err := binary.Read(rd, order, &version); err != nil {
		return nil, nil, err
	} else if version > Version {
		return nil, nil, fmt.Errorf("%w: the file was written with restart "+
			"version %d, but this code only reads versions up to %d",
			ErrFormat, version, Version)
	}

	hd := &Header{}
	if err := binary.Read(rd, order, &hd.FixedWidthHeader); err != nil {
		return nil, nil, err
	} else if hd.N < 0 {
		return nil, nil, fmt.Errorf("%w: negative particle count %d",
			ErrFormat, hd.N)
	}

	var nFields uint32
	if err := binary.Read(rd, order, &nFields); err != nil {
		return nil, nil, err
	}
	nNames := make([]uint32, nFields)
	if err := binary.Read(rd, order, nNames); err != nil {
		return nil, nil, err
	}

	hd.Names = make([]string, nFields)
	for i := range hd.Names {
		b := make([]byte, nNames[i])
		if _, err := io.ReadFull(rd, b); err != nil {
			return nil, nil, err
		}
		hd.Names[i] = string(b)
	}

	cats := make([]uint8, nFields)
	if err := binary.Read(rd, order, cats); err != nil {
		return nil, nil, err
	}
	hd.Categories = make([]particles.Category, nFields)
	for i := range cats {
		hd.Categories[i] = particles.Category(cats[i])
		if hd.Categories[i] >= particles.NumCategories {
			return nil, nil, fmt.Errorf("%w: field '%s' has unknown "+
				"category %d", ErrFormat, hd.Names[i], cats[i])
		}
	}

	return hd, order, nil
}

// ReadHeader reads only the header of a restart file.
func ReadHeader(rd io.Reader) (*Header, error) {
	hd, _, err := readHeader(rd)
	return hd, err
}

// Write writes every field of p to wr, along with the simulation clock.
func Write(wr io.Writer, iterations int, physicalTime float64, p *particles.Particles) error {
	p.Check()
	order := binary.LittleEndian
	hd := NewHeader(iterations, physicalTime, p)
	if err := hd.write(wr, order); err != nil {
		return err
	}

	var b, buf []byte
	words := []uint64{}
	for i, name := range hd.Names {
		data, err := p.Data(name)
		if err != nil {
			return err
		}

		n := p.Len() * wordsPerParticle(hd.Categories[i])
		if cap(words) < n {
			words = make([]uint64, n)
		}
		words = words[:n]
		toWords(data, words)

		b, buf, err = writeColumns(words, b, buf, wr, order)
		if err != nil {
			return fmt.Errorf("writing field '%s': %w", name, err)
		}
	}
	return nil
}

// Read reads a restart file into p and returns its header. p is resized to
// the file's particle count. Fields missing from p are registered, and
// fields in p but not in the file are left unchanged. It is an error for a
// field to have a different category in the file and in p. p is only
// modified once the whole file has been decoded, so it is left untouched
// if Read returns an error.
func Read(rd io.Reader, p *particles.Particles) (*Header, error) {
	hd, order, err := readHeader(rd)
	if err != nil {
		return nil, err
	}

	for i, name := range hd.Names {
		if cat, ok := p.Category(name); ok && cat != hd.Categories[i] {
			return nil, fmt.Errorf("%w: field '%s' is a %s field in the "+
				"file, but a %s field in memory", ErrFormat, name,
				hd.Categories[i], cat)
		}
	}

	var b, buf []byte
	words := make([][]uint64, len(hd.Names))
	for i, name := range hd.Names {
		words[i] = make([]uint64, int(hd.N)*wordsPerParticle(hd.Categories[i]))
		b, buf, err = readColumns(rd, b, buf, words[i], order)
		if err != nil {
			return nil, fmt.Errorf("reading field '%s': %w", name, err)
		}
	}

	p.Resize(int(hd.N))
	for i, name := range hd.Names {
		register(p, name, hd.Categories[i])
		data, err := p.Data(name)
		if err != nil {
			return nil, err
		}
		fromWords(words[i], data)
	}

	return hd, nil
}

func register(p *particles.Particles, name string, cat particles.Category) {
	switch cat {
	case particles.ScalarCategory:
		p.AddScalar(name)
	case particles.VectorCategory:
		p.AddVector(name)
	case particles.TensorCategory:
		p.AddTensor(name)
	case particles.IntegerCategory:
		p.AddInteger(name)
	}
}
