// Package wire frames the one-shot messages exchanged between a coordinator and
// its workers: a gob-encoded value, compressed, and protected by a checksum.
//
// A frame is laid out as
//
//	[1 byte compression][8 bytes xxhash64 of payload, big endian][payload]
package wire

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4"
)

// Compression identifies the algorithm used to compress a frame's payload
type Compression byte

const (
	// LZ4 favours speed, and is the default
	LZ4 Compression = iota + 1
	// Zstd favours ratio, for large partial results
	Zstd
)

const headerSize = 9

// ErrChecksum indicates that a frame was corrupted in transit
var ErrChecksum = errors.New("wire: frame checksum mismatch")

var (
	zstdOnce    sync.Once
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
	zstdErr     error
)

func zstdCodec() (*zstd.Encoder, *zstd.Decoder, error) {
	zstdOnce.Do(func() {
		zstdEncoder, zstdErr = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
		if zstdErr != nil {
			return
		}
		zstdDecoder, zstdErr = zstd.NewReader(nil)
	})
	return zstdEncoder, zstdDecoder, zstdErr
}

// Encode frames v using LZ4 compression. v is typically a pointer to a struct.
func Encode(v interface{}) ([]byte, error) {
	return EncodeWith(LZ4, v)
}

// EncodeWith frames v using the given Compression
func EncodeWith(c Compression, v interface{}) ([]byte, error) {
	raw := new(bytes.Buffer)
	if err := gob.NewEncoder(raw).Encode(v); err != nil {
		return nil, fmt.Errorf("wire: unable to encode %T: %w", v, err)
	}
	payload, err := compress(c, raw.Bytes())
	if err != nil {
		return nil, err
	}
	frame := make([]byte, headerSize, headerSize+len(payload))
	frame[0] = byte(c)
	binary.BigEndian.PutUint64(frame[1:headerSize], xxhash.Sum64(payload))
	return append(frame, payload...), nil
}

// Decode unframes buf into v, which must be a pointer
func Decode(buf []byte, v interface{}) error {
	if len(buf) < headerSize {
		return fmt.Errorf("wire: frame of %d bytes is too short", len(buf))
	}
	payload := buf[headerSize:]
	if binary.BigEndian.Uint64(buf[1:headerSize]) != xxhash.Sum64(payload) {
		return ErrChecksum
	}
	raw, err := decompress(Compression(buf[0]), payload)
	if err != nil {
		return err
	}
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(v); err != nil {
		return fmt.Errorf("wire: unable to decode %T: %w", v, err)
	}
	return nil
}

func compress(c Compression, raw []byte) ([]byte, error) {
	switch c {
	case LZ4:
		out := new(bytes.Buffer)
		zw := lz4.NewWriter(out)
		if _, err := zw.Write(raw); err != nil {
			return nil, fmt.Errorf("wire: lz4: %w", err)
		}
		if err := zw.Close(); err != nil {
			return nil, fmt.Errorf("wire: lz4: %w", err)
		}
		return out.Bytes(), nil
	case Zstd:
		enc, _, err := zstdCodec()
		if err != nil {
			return nil, fmt.Errorf("wire: zstd: %w", err)
		}
		return enc.EncodeAll(raw, nil), nil
	default:
		return nil, fmt.Errorf("wire: unknown compression %d", c)
	}
}

func decompress(c Compression, payload []byte) ([]byte, error) {
	switch c {
	case LZ4:
		raw, err := io.ReadAll(lz4.NewReader(bytes.NewReader(payload)))
		if err != nil {
			return nil, fmt.Errorf("wire: lz4: %w", err)
		}
		return raw, nil
	case Zstd:
		_, dec, err := zstdCodec()
		if err != nil {
			return nil, fmt.Errorf("wire: zstd: %w", err)
		}
		raw, err := dec.DecodeAll(payload, nil)
		if err != nil {
			return nil, fmt.Errorf("wire: zstd: %w", err)
		}
		return raw, nil
	default:
		return nil, fmt.Errorf("wire: unknown compression %d", c)
	}
}
