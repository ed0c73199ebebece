package intern_test

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/SaracenOne/bitwire/bitio"
	"github.com/SaracenOne/bitwire/intern"
	"github.com/SaracenOne/bitwire/pebblestore"
	"github.com/stretchr/testify/require"
)

func stringCodec() intern.Codec[string] {
	return intern.Codec[string]{
		Write: func(out *bitio.Writer, v string) error {
			if err := out.Write(uint64(len(v)), 32); err != nil {
				return err
			}
			for i := 0; i < len(v); i++ {
				if err := out.Write(uint64(v[i]), 8); err != nil {
					return err
				}
			}
			return nil
		},
		Read: func(in *bitio.Reader) (string, error) {
			n, err := in.Read(32)
			if err != nil {
				return "", err
			}
			buf := make([]byte, n)
			for i := range buf {
				b, err := in.Read(8)
				if err != nil {
					return "", err
				}
				buf[i] = byte(b)
			}
			return string(buf), nil
		},
		KeyOf:  hashKeyOf,
		IsZero: func(v string) bool { return v == "" },
	}
}

func hashKeyOf(v string) uint64 { return intern.HashKey([]byte(v)) }

func TestInterningRepeatsUseCompactID(t *testing.T) {
	codec := stringCodec()
	codec.KeyOf = hashKeyOf
	rep := intern.New(codec)

	var buf bytes.Buffer
	w := bitio.NewWriter(&buf)
	require.NoError(t, rep.Write(w, "alpha"))
	require.NoError(t, rep.Write(w, "beta"))
	require.NoError(t, rep.Write(w, "alpha")) // already interned
	require.NoError(t, w.Flush())

	rep.PersistTransientWrite(rep.GetAndResetTransientWrite())

	rrep := intern.New(codec)
	r := bitio.NewReader(bytes.NewReader(buf.Bytes()))

	v1, err := rrep.Read(r)
	require.NoError(t, err)
	require.Equal(t, "alpha", v1)

	v2, err := rrep.Read(r)
	require.NoError(t, err)
	require.Equal(t, "beta", v2)

	v3, err := rrep.Read(r)
	require.NoError(t, err)
	require.Equal(t, "alpha", v3)

	rrep.PersistTransientRead(rrep.GetAndResetTransientRead())
}

func TestNullValueShortCircuits(t *testing.T) {
	codec := stringCodec()
	codec.KeyOf = hashKeyOf
	rep := intern.New(codec)

	var buf bytes.Buffer
	w := bitio.NewWriter(&buf)
	require.NoError(t, rep.Write(w, ""))
	require.NoError(t, w.Flush())
	require.Len(t, buf.Bytes(), 1)

	rrep := intern.New(codec)
	r := bitio.NewReader(bytes.NewReader(buf.Bytes()))
	v, err := rrep.Read(r)
	require.NoError(t, err)
	require.Equal(t, "", v)
}

func TestSetStorePersistsAcrossRestart(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "store")
	store, err := pebblestore.Open(dir, pebblestore.Options{})
	require.NoError(t, err)
	defer store.Close()

	codec := stringCodec()
	codec.KeyOf = hashKeyOf

	rep := intern.New(codec)
	require.NoError(t, rep.SetStore(store.Table("strings")))

	var buf bytes.Buffer
	w := bitio.NewWriter(&buf)
	require.NoError(t, rep.Write(w, "alpha"))
	require.NoError(t, rep.Write(w, "beta"))
	require.NoError(t, w.Flush())
	require.NoError(t, rep.PersistTransientWrite(rep.GetAndResetTransientWrite()))

	// A fresh table over the same store, as a restarted process would build,
	// comes back already knowing "alpha" and "beta" and continues issuing
	// ids after them rather than colliding.
	restarted := intern.New(codec)
	require.NoError(t, restarted.SetStore(store.Table("strings")))

	var buf2 bytes.Buffer
	w2 := bitio.NewWriter(&buf2)
	require.NoError(t, restarted.Write(w2, "alpha")) // already known, emits a known id
	require.NoError(t, restarted.Write(w2, "gamma")) // new, gets a fresh id past alpha/beta
	require.NoError(t, w2.Flush())

	r2 := bitio.NewReader(bytes.NewReader(buf2.Bytes()))
	v1, err := restarted.Read(r2)
	require.NoError(t, err)
	require.Equal(t, "alpha", v1)
	v2, err := restarted.Read(r2)
	require.NoError(t, err)
	require.Equal(t, "gamma", v2)
}
