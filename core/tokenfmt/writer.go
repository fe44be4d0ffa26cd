package tokenfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fxamacker/cbor/v2"
	"golang.org/x/crypto/blake2b"
)

// Write encodes s to w in the given format.
func Write(w io.Writer, format Format, s *Stream) error {
	switch format {
	case FormatText:
		return writeText(w, s)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	case FormatCBOR:
		data, err := s.MarshalBinary()
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	default:
		return fmt.Errorf("%w %q", ErrUnknownFormat, format)
	}
}

// writeText writes one aligned line per token: line:column, byte range,
// class and value.
func writeText(w io.Writer, s *Stream) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, r := range s.Tokens {
		if _, err := fmt.Fprintf(tw, "%d:%d\t[%d,%d)\t%s\t%s\n", r.Line, r.Column, r.Offset, r.Offset+r.Len, r.Class, r.Text); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// MarshalBinary produces the deterministic CBOR encoding of the stream.
// Equal streams always encode to identical bytes.
func (s *Stream) MarshalBinary() ([]byte, error) {
	encMode, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		return nil, fmt.Errorf("failed to create CBOR encoder: %w", err)
	}

	// Alias avoids recursing into MarshalBinary.
	type streamAlias Stream
	data, err := encMode.Marshal((*streamAlias)(s))
	if err != nil {
		return nil, fmt.Errorf("CBOR encoding failed: %w", err)
	}
	return data, nil
}

// UnmarshalBinary decodes a stream produced by MarshalBinary.
func (s *Stream) UnmarshalBinary(data []byte) error {
	type streamAlias Stream
	var alias streamAlias
	if err := cbor.Unmarshal(data, &alias); err != nil {
		return fmt.Errorf("CBOR decoding failed: %w", err)
	}
	if alias.Version != Version {
		return fmt.Errorf("unsupported stream version %d (expected %d)", alias.Version, Version)
	}
	*s = Stream(alias)
	return nil
}

// Digest returns the BLAKE2b-256 hash of the canonical CBOR encoding. The
// source name is excluded so the same tokens from different files match.
func (s *Stream) Digest() ([32]byte, error) {
	anonymous := *s
	anonymous.Source = ""
	data, err := anonymous.MarshalBinary()
	if err != nil {
		return [32]byte{}, err
	}

	hasher, err := blake2b.New256(nil)
	if err != nil {
		return [32]byte{}, err
	}
	if _, err := hasher.Write(data); err != nil {
		return [32]byte{}, err
	}

	var sum [32]byte
	copy(sum[:], hasher.Sum(nil))
	return sum, nil
}
