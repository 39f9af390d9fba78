package output

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"

	"github.com/df07/go-stratified-raytracer/pkg/core"
	"github.com/df07/go-stratified-raytracer/pkg/renderer"
)

// Archives keep the linear float colors of a render so it can be tone mapped
// again later. Layout: magic "RTFB", version, codec, width and height as
// little-endian uint32, then the compressed pixels as little-endian float64 RGB.

var archiveMagic = [4]byte{'R', 'T', 'F', 'B'}

const archiveVersion = 1

// maxArchivePixels bounds the allocation made for a decoded archive
const maxArchivePixels = 1 << 26

// ErrInvalidArchive is returned when an archive header is malformed
var ErrInvalidArchive = errors.New("invalid framebuffer archive")

// Codec selects the compression of an archive
type Codec byte

const (
	CodecZstd   Codec = 1
	CodecSnappy Codec = 2
)

func (c Codec) String() string {
	switch c {
	case CodecZstd:
		return "zstd"
	case CodecSnappy:
		return "snappy"
	default:
		return fmt.Sprintf("codec(%d)", byte(c))
	}
}

// Extension returns the file extension conventionally used for the codec
func (c Codec) Extension() string {
	if c == CodecSnappy {
		return ".rtfb.sz"
	}
	return ".rtfb.zst"
}

// ParseCodec maps "zstd" or "snappy" to a codec
func ParseCodec(name string) (Codec, error) {
	switch strings.ToLower(name) {
	case "zstd", "zst":
		return CodecZstd, nil
	case "snappy", "sz":
		return CodecSnappy, nil
	default:
		return 0, fmt.Errorf("unknown archive codec %q", name)
	}
}

type archiveHeader struct {
	Magic   [4]byte
	Version uint8
	Codec   Codec
	Width   uint32
	Height  uint32
}

// WriteArchive writes fb to w compressed with codec
func WriteArchive(w io.Writer, fb *renderer.Framebuffer, codec Codec) error {
	header := archiveHeader{
		Magic:   archiveMagic,
		Version: archiveVersion,
		Codec:   codec,
		Width:   uint32(fb.Width),
		Height:  uint32(fb.Height),
	}
	if err := binary.Write(w, binary.LittleEndian, header); err != nil {
		return fmt.Errorf("failed to write archive header: %w", err)
	}

	payload := make([]byte, 0, len(fb.Pixels)*24)
	for _, c := range fb.Pixels {
		payload = binary.LittleEndian.AppendUint64(payload, math.Float64bits(c.X))
		payload = binary.LittleEndian.AppendUint64(payload, math.Float64bits(c.Y))
		payload = binary.LittleEndian.AppendUint64(payload, math.Float64bits(c.Z))
	}

	switch codec {
	case CodecZstd:
		encoder, err := zstd.NewWriter(w)
		if err != nil {
			return fmt.Errorf("failed to create zstd encoder: %w", err)
		}
		if _, err := encoder.Write(payload); err != nil {
			encoder.Close()
			return fmt.Errorf("failed to compress archive: %w", err)
		}
		return encoder.Close()
	case CodecSnappy:
		stream := snappy.NewBufferedWriter(w)
		if _, err := stream.Write(payload); err != nil {
			stream.Close()
			return fmt.Errorf("failed to compress archive: %w", err)
		}
		return stream.Close()
	default:
		return fmt.Errorf("unsupported codec %v", codec)
	}
}

// ReadArchive decodes an archive written by WriteArchive
func ReadArchive(r io.Reader) (*renderer.Framebuffer, error) {
	var header archiveHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read archive header: %w", err)
	}
	if header.Magic != archiveMagic {
		return nil, fmt.Errorf("bad magic %q: %w", header.Magic[:], ErrInvalidArchive)
	}
	if header.Version != archiveVersion {
		return nil, fmt.Errorf("unsupported version %d: %w", header.Version, ErrInvalidArchive)
	}
	pixels := uint64(header.Width) * uint64(header.Height)
	if pixels > maxArchivePixels {
		return nil, fmt.Errorf("%dx%d exceeds size limit: %w", header.Width, header.Height, ErrInvalidArchive)
	}

	var stream io.Reader
	switch header.Codec {
	case CodecZstd:
		decoder, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
		}
		defer decoder.Close()
		stream = decoder
	case CodecSnappy:
		stream = snappy.NewReader(r)
	default:
		return nil, fmt.Errorf("unknown codec %d: %w", byte(header.Codec), ErrInvalidArchive)
	}

	payload := make([]byte, pixels*24)
	if _, err := io.ReadFull(stream, payload); err != nil {
		return nil, fmt.Errorf("failed to decompress archive: %w", err)
	}

	fb := renderer.NewFramebuffer(int(header.Width), int(header.Height))
	for i := range fb.Pixels {
		offset := i * 24
		fb.Pixels[i] = core.NewVec3(
			math.Float64frombits(binary.LittleEndian.Uint64(payload[offset:])),
			math.Float64frombits(binary.LittleEndian.Uint64(payload[offset+8:])),
			math.Float64frombits(binary.LittleEndian.Uint64(payload[offset+16:])),
		)
	}
	return fb, nil
}

// EncodeArchive returns the archive of fb as a byte slice
func EncodeArchive(fb *renderer.Framebuffer, codec Codec) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteArchive(&buf, fb, codec); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
