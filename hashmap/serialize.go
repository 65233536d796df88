package hashmap

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/hupe1980/primstore/internal/scalar"
)

// flatVersion is the first byte of every flat dump.
const flatVersion = 0

// maxPresize bounds the capacity ReadFrom allocates up front from an untrusted
// entry count. Larger tables grow as entries arrive.
const maxPresize = 1 << 20

// WriteTo writes the flat dump of m: version, load factor, sentinels, entry
// count and the entries in reverse slot order, all big-endian.
func (m *Map[K, V]) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	bw := bufio.NewWriter(cw)

	buf := make([]byte, 0, 64)
	buf = append(buf, flatVersion)
	buf = binary.BigEndian.AppendUint32(buf, math.Float32bits(m.loadFactor))
	buf = scalar.AppendBigEndian(buf, m.noEntryKey)
	buf = scalar.AppendBigEndian(buf, m.noEntryValue)
	buf = binary.BigEndian.AppendUint32(buf, uint32(m.size)) //nolint:gosec // size <= capacity <= MaxInt32
	if _, err := bw.Write(buf); err != nil {
		return cw.n, err
	}

	for i := len(m.states) - 1; i >= 0; i-- {
		if m.states[i] != stateFull {
			continue
		}
		buf = scalar.AppendBigEndian(buf[:0], m.keys[i])
		buf = scalar.AppendBigEndian(buf, m.values[i])
		if _, err := bw.Write(buf); err != nil {
			return cw.n, err
		}
	}

	err := bw.Flush()
	return cw.n, err
}

// ReadFrom replaces the contents of m with a flat dump written by WriteTo.
// The load factor and sentinels are taken from the dump. On error m is left
// unchanged.
func (m *Map[K, V]) ReadFrom(r io.Reader) (int64, error) {
	cr := &countingReader{r: bufio.NewReader(r)}

	ks, vs := scalar.Size[K](), scalar.Size[V]()
	header := make([]byte, 1+4+ks+vs+4)
	if _, err := io.ReadFull(cr, header); err != nil {
		return cr.n, fmt.Errorf("%w: header: %w", ErrCorrupt, err)
	}
	if header[0] != flatVersion {
		return cr.n, fmt.Errorf("%w: unknown version %d", ErrCorrupt, header[0])
	}

	lf := math.Float32frombits(binary.BigEndian.Uint32(header[1:]))
	if !(lf > 0 && lf <= 1) {
		return cr.n, fmt.Errorf("%w: load factor %v", ErrCorrupt, lf)
	}
	off := 5
	noEntryKey := scalar.BigEndian[K](header[off:])
	off += ks
	noEntryValue := scalar.BigEndian[V](header[off:])
	off += vs
	count := int32(binary.BigEndian.Uint32(header[off:])) //nolint:gosec // sign checked below
	if count < 0 {
		return cr.n, fmt.Errorf("%w: negative entry count %d", ErrCorrupt, count)
	}

	fresh := &Map[K, V]{
		loadFactor:       lf,
		noEntryKey:       noEntryKey,
		noEntryValue:     noEntryValue,
		compactionFactor: m.compactionFactor,
		logger:           m.logger,
		metrics:          m.metrics,
	}
	fresh.setUp(capacityFor(min(int(count), maxPresize), lf))

	pair := make([]byte, ks+vs)
	for i := int32(0); i < count; i++ {
		if _, err := io.ReadFull(cr, pair); err != nil {
			return cr.n, fmt.Errorf("%w: entry %d of %d: %w", ErrCorrupt, i, count, err)
		}
		fresh.Put(scalar.BigEndian[K](pair), scalar.BigEndian[V](pair[ks:]))
	}

	fresh.compactionPaused = m.compactionPaused
	*m = *fresh
	return cr.n, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
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
