package restart

/* This file contains functions for compressing arrays of 64-bit words. Each
word is split into eight byte columns, and each column is compressed
separately with zstd, so that slowly varying high bytes compress to almost
nothing. */

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/DataDog/zstd"

	"github.com/phil-mansfield/multiphase/lib/geom"
	"github.com/phil-mansfield/multiphase/lib/particles"
)

// zstdLevel is the zstd compression level used for every column.
const zstdLevel = 1

// wordsPerParticle returns the number of 64-bit words used to store one
// particle's value in a field of the given category.
func wordsPerParticle(cat particles.Category) int {
	switch cat {
	case particles.VectorCategory:
		return 3
	case particles.TensorCategory:
		return 9
	}
	return 1
}

// toWords flattens a field array into words, which must have the right
// length.
func toWords(data interface{}, words []uint64) {
	switch x := data.(type) {
	case []float64:
		for i := range x {
			words[i] = math.Float64bits(x[i])
		}
	case []int:
		for i := range x {
			words[i] = uint64(int64(x[i]))
		}
	case []geom.Vec:
		for i := range x {
			words[3*i] = math.Float64bits(x[i].X)
			words[3*i+1] = math.Float64bits(x[i].Y)
			words[3*i+2] = math.Float64bits(x[i].Z)
		}
	case []geom.Mat:
		for i := range x {
			for r := 0; r < 3; r++ {
				for c := 0; c < 3; c++ {
					words[9*i+3*r+c] = math.Float64bits(x[i][r][c])
				}
			}
		}
	default:
		panic(fmt.Sprintf("Internal error: field array of type %T given "+
			"to toWords().", data))
	}
}

// fromWords is the inverse of toWords.
func fromWords(words []uint64, data interface{}) {
	switch x := data.(type) {
	case []float64:
		for i := range x {
			x[i] = math.Float64frombits(words[i])
		}
	case []int:
		for i := range x {
			x[i] = int(int64(words[i]))
		}
	case []geom.Vec:
		for i := range x {
			x[i] = geom.Vec{
				X: math.Float64frombits(words[3*i]),
				Y: math.Float64frombits(words[3*i+1]),
				Z: math.Float64frombits(words[3*i+2]),
			}
		}
	case []geom.Mat:
		for i := range x {
			for r := 0; r < 3; r++ {
				for c := 0; c < 3; c++ {
					x[i][r][c] = math.Float64frombits(words[9*i+3*r+c])
				}
			}
		}
	default:
		panic(fmt.Sprintf("Internal error: field array of type %T given "+
			"to fromWords().", data))
	}
}

// wordToByte transfers a one-byte "column" from words to b. Bytes are indexed
// from least to most significant.
func wordToByte(words []uint64, b []byte, col int) {
	for i := range words {
		b[i] = byte(words[i] >> (8 * col))
	}
}

// byteToWord adds a one-byte column to words.
func byteToWord(b []byte, words []uint64, col int) {
	for i := range words {
		words[i] |= uint64(b[i]) << (8 * col)
	}
}

// resizeBytes resizes a byte buffer to have length n.
func resizeBytes(b []byte, n int) []byte {
	if cap(b) >= n {
		return b[:n]
	}
	b = b[:cap(b)]
	return append(b, make([]byte, n-len(b))...)
}

// writeColumns writes words to wr as eight zstd blocks, one per byte column.
// b and buf are internal buffers which are resized as needed and returned.
func writeColumns(
	words []uint64, b, buf []byte, wr io.Writer, order binary.ByteOrder,
) (bOut, bufOut []byte, err error) {
	if len(words) == 0 {
		return b, buf, nil
	}
	b = resizeBytes(b, len(words))

	for col := 0; col < 8; col++ {
		wordToByte(words, b, col)

		buf, err = zstd.CompressLevel(buf[:cap(buf)], b, zstdLevel)
		if err != nil {
			return nil, nil, err
		}

		if err = binary.Write(wr, order, int64(len(buf))); err != nil {
			return nil, nil, err
		}
		if _, err = wr.Write(buf); err != nil {
			return nil, nil, err
		}
	}

	return b[:0], buf[:0], nil
}

// readColumns reads words written by writeColumns. b and buf are internal
// buffers which are resized as needed and returned.
func readColumns(
	rd io.Reader, b, buf []byte, words []uint64, order binary.ByteOrder,
) (bOut, bufOut []byte, err error) {
	for i := range words {
		words[i] = 0
	}
	if len(words) == 0 {
		return b, buf, nil
	}

	for col := 0; col < 8; col++ {
		nBuf := int64(0)
		if err = binary.Read(rd, order, &nBuf); err != nil {
			return nil, nil, err
		}
		if nBuf < 0 {
			return nil, nil, fmt.Errorf("%w: negative column length %d",
				ErrFormat, nBuf)
		}

		buf = resizeBytes(buf, int(nBuf))
		if _, err = io.ReadFull(rd, buf); err != nil {
			return nil, nil, err
		}

		b, err = zstd.Decompress(resizeBytes(b, len(words)), buf)
		if err != nil {
			return nil, nil, err
		} else if len(b) != len(words) {
			return nil, nil, fmt.Errorf("%w: column decompressed to %d "+
				"bytes, but %d were expected", ErrFormat, len(b), len(words))
		}

		byteToWord(b, words, col)
	}

	return b[:0], buf[:0], nil
}
