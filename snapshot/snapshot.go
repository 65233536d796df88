package snapshot

import (
	"bufio"
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/hupe1980/primstore/codec"
	"github.com/hupe1980/primstore/hashmap"
	"github.com/hupe1980/primstore/internal/conv"
	"github.com/hupe1980/primstore/internal/hash"
	"github.com/hupe1980/primstore/internal/scalar"
	"github.com/hupe1980/primstore/metrics"
	"github.com/hupe1980/primstore/resource"
)

const (
	// Magic identifies snapshot files.
	Magic = "PSNP"
	// Version is the current container version.
	Version uint16 = 1

	maxDescriptorSize = 1 << 20
)

// Descriptor is the codec-encoded metadata block of a snapshot.
type Descriptor struct {
	KeyKind    string  `json:"key_kind"`
	ValueKind  string  `json:"value_kind"`
	Entries    int     `json:"entries"`
	Capacity   int     `json:"capacity"`
	LoadFactor float32 `json:"load_factor"`
}

// Header is everything in front of the body.
type Header struct {
	Version     uint16
	Compression Compression
	Codec       string
	Descriptor  Descriptor
	BodyLength  uint64
	BodyCRC     uint32
}

// Write encodes m as a snapshot to w and returns the number of bytes
// written.
func Write[K, V hashmap.Scalar](ctx context.Context, w io.Writer, m *hashmap.Map[K, V], opts ...Option) (n int64, err error) {
	o := buildOptions(opts)
	if !o.compression.valid() {
		return 0, fmt.Errorf("%w: %d", ErrUnknownCompression, uint8(o.compression))
	}

	start := time.Now()
	defer func() {
		o.metrics.RecordSnapshot(metrics.SnapshotWrite, n, time.Since(start), err)
	}()

	if err := o.controller.AcquireBackground(ctx); err != nil {
		return 0, err
	}
	defer o.controller.ReleaseBackground()

	var raw bytes.Buffer
	if _, err := m.WriteTo(&raw); err != nil {
		return 0, fmt.Errorf("snapshot: encode map: %w", err)
	}
	body, err := compress(o.compression, raw.Bytes())
	if err != nil {
		return 0, err
	}

	desc, err := o.codec.Marshal(Descriptor{
		KeyKind:    scalar.Kind[K](),
		ValueKind:  scalar.Kind[V](),
		Entries:    m.Len(),
		Capacity:   m.Capacity(),
		LoadFactor: m.LoadFactor(),
	})
	if err != nil {
		return 0, fmt.Errorf("snapshot: encode descriptor: %w", err)
	}

	header, err := appendHeader(nil, o.compression, o.codec.Name(), desc, body)
	if err != nil {
		return 0, err
	}

	out := resource.NewRateLimitedWriter(ctx, w, o.controller)
	hn, err := out.Write(header)
	n += int64(hn)
	if err != nil {
		return n, err
	}
	bn, err := out.Write(body)
	n += int64(bn)
	if err != nil {
		return n, err
	}

	o.logger.Debug("snapshot written",
		"entries", m.Len(),
		"raw_bytes", raw.Len(),
		"bytes", n,
		"compression", o.compression.String(),
		"codec", o.codec.Name(),
	)
	return n, nil
}

func appendHeader(dst []byte, c Compression, codecName string, desc, body []byte) ([]byte, error) {
	if len(codecName) == 0 || len(codecName) > math.MaxUint8 {
		return nil, fmt.Errorf("snapshot: invalid codec name %q", codecName)
	}
	descLen, err := conv.IntToUint32(len(desc))
	if err != nil || descLen > maxDescriptorSize {
		return nil, fmt.Errorf("snapshot: descriptor of %d bytes is too large", len(desc))
	}

	dst = append(dst, Magic...)
	dst = binary.LittleEndian.AppendUint16(dst, Version)
	dst = append(dst, byte(c), byte(len(codecName)))
	dst = append(dst, codecName...)
	dst = binary.LittleEndian.AppendUint32(dst, descLen)
	dst = append(dst, desc...)
	dst = binary.LittleEndian.AppendUint64(dst, uint64(len(body)))
	dst = binary.LittleEndian.AppendUint32(dst, hash.CRC32C(body))
	return dst, nil
}

// readFull is io.ReadFull with truncation reported as ErrCorrupt.
func readFull(r io.Reader, buf []byte, what string) error {
	if _, err := io.ReadFull(r, buf); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return fmt.Errorf("%w: truncated %s", ErrCorrupt, what)
		}
		return err
	}
	return nil
}

func readHeader(r io.Reader) (Header, error) {
	var h Header

	var fixed [8]byte
	if err := readFull(r, fixed[:], "header"); err != nil {
		return h, err
	}
	if string(fixed[:4]) != Magic {
		return h, fmt.Errorf("%w: bad magic %q", ErrCorrupt, fixed[:4])
	}
	h.Version = binary.LittleEndian.Uint16(fixed[4:])
	if h.Version != Version {
		return h, fmt.Errorf("%w: unsupported version %d", ErrCorrupt, h.Version)
	}
	h.Compression = Compression(fixed[6])
	if !h.Compression.valid() {
		return h, fmt.Errorf("%w: %d", ErrUnknownCompression, fixed[6])
	}

	name := make([]byte, fixed[7])
	if err := readFull(r, name, "codec name"); err != nil {
		return h, err
	}
	h.Codec = string(name)
	c, ok := codec.ByName(h.Codec)
	if !ok {
		return h, fmt.Errorf("%w: %q", ErrUnknownCodec, h.Codec)
	}

	var lenBuf [4]byte
	if err := readFull(r, lenBuf[:], "descriptor length"); err != nil {
		return h, err
	}
	descLen := binary.LittleEndian.Uint32(lenBuf[:])
	if descLen > maxDescriptorSize {
		return h, fmt.Errorf("%w: descriptor length %d", ErrCorrupt, descLen)
	}
	desc := make([]byte, descLen)
	if err := readFull(r, desc, "descriptor"); err != nil {
		return h, err
	}
	if err := c.Unmarshal(desc, &h.Descriptor); err != nil {
		return h, fmt.Errorf("%w: descriptor: %w", ErrCorrupt, err)
	}

	var tail [12]byte
	if err := readFull(r, tail[:], "body header"); err != nil {
		return h, err
	}
	h.BodyLength = binary.LittleEndian.Uint64(tail[:])
	h.BodyCRC = binary.LittleEndian.Uint32(tail[8:])
	return h, nil
}

// Inspect reads and validates a snapshot header without reading the body.
func Inspect(r io.Reader) (Header, error) {
	return readHeader(r)
}

// Read decodes a snapshot from r into a new Map. The body is verified against
// its checksum before anything is decoded.
func Read[K, V hashmap.Scalar](ctx context.Context, r io.Reader, opts ...Option) (m *hashmap.Map[K, V], err error) {
	o := buildOptions(opts)

	start := time.Now()
	var n int64
	defer func() {
		o.metrics.RecordSnapshot(metrics.SnapshotRead, n, time.Since(start), err)
	}()

	if err := o.controller.AcquireBackground(ctx); err != nil {
		return nil, err
	}
	defer o.controller.ReleaseBackground()

	cr := &countingReader{r: bufio.NewReader(resource.NewRateLimitedReader(ctx, r, o.controller))}
	defer func() { n = cr.n }()

	h, err := readHeader(cr)
	if err != nil {
		return nil, err
	}
	if want, got := scalar.Kind[K](), h.Descriptor.KeyKind; want != got {
		return nil, fmt.Errorf("%w: key kind is %s, want %s", ErrKindMismatch, got, want)
	}
	if want, got := scalar.Kind[V](), h.Descriptor.ValueKind; want != got {
		return nil, fmt.Errorf("%w: value kind is %s, want %s", ErrKindMismatch, got, want)
	}

	if h.BodyLength > math.MaxInt64 {
		return nil, fmt.Errorf("%w: body length %d", ErrCorrupt, h.BodyLength)
	}
	var body bytes.Buffer
	if _, err := io.CopyN(&body, cr, int64(h.BodyLength)); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: truncated body", ErrCorrupt)
		}
		return nil, err
	}
	if err := hash.Verify(body.Bytes(), h.BodyCRC); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}

	raw, err := decompress(h.Compression, body.Bytes())
	if err != nil {
		return nil, err
	}

	m, err = hashmap.New[K, V](o.mapOpts...)
	if err != nil {
		return nil, err
	}
	read, err := m.ReadFrom(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	if read != int64(len(raw)) {
		return nil, fmt.Errorf("%w: %d trailing bytes after entries", ErrCorrupt, int64(len(raw))-read)
	}
	if m.Len() != h.Descriptor.Entries {
		return nil, fmt.Errorf("%w: %d entries, descriptor says %d", ErrCorrupt, m.Len(), h.Descriptor.Entries)
	}

	o.logger.Debug("snapshot read",
		"entries", m.Len(),
		"bytes", cr.n,
		"compression", h.Compression.String(),
		"codec", h.Codec,
	)
	return m, nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
