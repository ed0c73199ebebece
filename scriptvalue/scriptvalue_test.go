package scriptvalue_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/SaracenOne/bitwire/bitio"
	"github.com/SaracenOne/bitwire/classreg"
	"github.com/SaracenOne/bitwire/schema"
	"github.com/SaracenOne/bitwire/scriptvalue"
	"github.com/SaracenOne/bitwire/wire"
	"github.com/stretchr/testify/require"
)

func roundTripFull(t *testing.T, v *scriptvalue.Value) *scriptvalue.Value {
	var buf bytes.Buffer
	w := bitio.NewWriter(&buf)
	require.NoError(t, v.Write(w, wire.Default, classreg.Default, schema.MetadataNone))
	require.NoError(t, w.Flush())

	r := bitio.NewReader(bytes.NewReader(buf.Bytes()))
	got, err := scriptvalue.Read(r, wire.Default, classreg.Default, schema.MetadataNone)
	require.NoError(t, err)
	return got
}

func TestPrimitiveRoundTrip(t *testing.T) {
	require.True(t, roundTripFull(t, scriptvalue.NewBool(true)).ToBool())
	require.InDelta(t, 3.5, roundTripFull(t, scriptvalue.NewNumber(3.5)).ToNumber(), 1e-9)
	require.Equal(t, "hi", roundTripFull(t, scriptvalue.NewString("hi")).ToString())
	require.True(t, roundTripFull(t, scriptvalue.NewNull()).IsNull())
	require.True(t, roundTripFull(t, scriptvalue.NewUndefined()).IsUndefined())
}

func TestArrayRoundTrip(t *testing.T) {
	arr := scriptvalue.NewArray([]*scriptvalue.Value{
		scriptvalue.NewNumber(1),
		scriptvalue.NewString("x"),
		scriptvalue.NewBool(false),
	})
	got := roundTripFull(t, arr)
	require.True(t, got.IsArray())
	require.Len(t, got.ToArray(), 3)
	require.Equal(t, "x", got.ToArray()[1].ToString())
}

func TestVariantRoundTrip(t *testing.T) {
	v := scriptvalue.NewVariant(wire.Int64(), int64(99))
	got := roundTripFull(t, v)
	require.True(t, got.IsVariant())
	_, val := got.ToVariant()
	require.EqualValues(t, 99, val)
}

func TestObjectRecordDelta(t *testing.T) {
	ref := scriptvalue.NewObjectRecord(map[string]*scriptvalue.Value{
		"a": scriptvalue.NewNumber(1),
		"b": scriptvalue.NewString("keep"),
	})
	v := scriptvalue.NewObjectRecord(map[string]*scriptvalue.Value{
		"a": scriptvalue.NewNumber(2), // changed
		"b": scriptvalue.NewString("keep"), // unchanged
		"c": scriptvalue.NewBool(true), // added
	})

	var buf bytes.Buffer
	w := bitio.NewWriter(&buf)
	require.NoError(t, v.WriteDelta(w, ref, wire.Default, classreg.Default, schema.MetadataNone))
	require.NoError(t, w.Flush())

	r := bitio.NewReader(bytes.NewReader(buf.Bytes()))
	got, err := scriptvalue.ReadDelta(r, ref, wire.Default, classreg.Default, schema.MetadataNone)
	require.NoError(t, err)

	require.InDelta(t, 2, got.GetProperty("a").ToNumber(), 1e-9)
	require.Equal(t, "keep", got.GetProperty("b").ToString())
	require.True(t, got.GetProperty("c").ToBool())
}

func TestDateRegExpMetaObjectRoundTrip(t *testing.T) {
	when := time.Date(2026, 3, 5, 12, 30, 0, 0, time.UTC)
	got := roundTripFull(t, scriptvalue.NewDate(when))
	require.True(t, got.IsDate())
	require.True(t, got.ToDate().Equal(when))

	re := roundTripFull(t, scriptvalue.NewRegExp("^a+$", scriptvalue.RegExpCaseInsensitive))
	require.True(t, re.IsRegExp())
	pattern, flags := re.ToRegExp()
	require.Equal(t, "^a+$", pattern)
	require.Equal(t, scriptvalue.RegExpCaseInsensitive, flags)

	mo := roundTripFull(t, scriptvalue.NewMetaObject("Widget"))
	require.True(t, mo.IsMetaObject())
	require.Equal(t, "Widget", mo.MetaObjectClassName())
}

func TestArrayDeltaTailRaw(t *testing.T) {
	ref := scriptvalue.NewArray([]*scriptvalue.Value{scriptvalue.NewNumber(1), scriptvalue.NewNumber(2)})
	v := scriptvalue.NewArray([]*scriptvalue.Value{scriptvalue.NewNumber(1), scriptvalue.NewNumber(9), scriptvalue.NewNumber(3)})

	var buf bytes.Buffer
	w := bitio.NewWriter(&buf)
	require.NoError(t, v.WriteDelta(w, ref, wire.Default, classreg.Default, schema.MetadataNone))
	require.NoError(t, w.Flush())

	r := bitio.NewReader(bytes.NewReader(buf.Bytes()))
	got, err := scriptvalue.ReadDelta(r, ref, wire.Default, classreg.Default, schema.MetadataNone)
	require.NoError(t, err)
	require.Len(t, got.ToArray(), 3)
	require.InDelta(t, 9, got.ToArray()[1].ToNumber(), 1e-9)
	require.InDelta(t, 3, got.ToArray()[2].ToNumber(), 1e-9)
}
