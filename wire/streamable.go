package wire

import "github.com/SaracenOne/bitwire/bitio"

// FindFieldIndex returns the index of the field named name, or -1,
// mirroring classes.Fields.FindName's role in rename detection.
func (s *StreamableOps) FindFieldIndex(name string) int {
	for i, f := range s.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

func writeStreamable(out *bitio.Writer, s *StreamableOps, v any) error {
	for _, f := range s.Fields {
		if err := f.Streamer.Write(out, f.Get(v)); err != nil {
			return err
		}
	}
	return nil
}

func readStreamable(in *bitio.Reader, s *StreamableOps) (any, error) {
	v := s.New()
	for _, f := range s.Fields {
		fv, err := f.Streamer.Read(in)
		if err != nil {
			return nil, err
		}
		f.Set(v, fv)
	}
	return v, nil
}

func equalStreamable(s *StreamableOps, a, b any) bool {
	for _, f := range s.Fields {
		if !f.Streamer.Equal(f.Get(a), f.Get(b)) {
			return false
		}
	}
	return true
}

// writeStreamableDelta implements §4.5's per-field recursive delta.
func writeStreamableDelta(out *bitio.Writer, s *StreamableOps, v, ref any) error {
	for _, f := range s.Fields {
		if err := f.Streamer.WriteDelta(out, f.Get(v), f.Get(ref)); err != nil {
			return err
		}
	}
	return nil
}

func readStreamableDelta(in *bitio.Reader, s *StreamableOps, ref any) (any, error) {
	v := s.New()
	for _, f := range s.Fields {
		fv, err := f.Streamer.ReadDelta(in, f.Get(ref))
		if err != nil {
			return nil, err
		}
		f.Set(v, fv)
	}
	return v, nil
}
