package domain

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strings"
)

// AddressLength is the size of a member address in bytes.
const AddressLength = 20

// Address identifies a group member: a fixed-length 20-byte value
// rendered as 0x followed by 40 lowercase hex characters. Addresses are
// comparable and usable as map keys.
type Address [AddressLength]byte

// ParseAddress parses the canonical 0x-prefixed hex form.
func ParseAddress(s string) (Address, error) {
	var a Address
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		return a, fmt.Errorf("%w: missing 0x prefix in %q", ErrInvalidAddress, s)
	}
	raw := s[2:]
	if len(raw) != AddressLength*2 {
		return a, fmt.Errorf("%w: expected %d hex characters, got %d", ErrInvalidAddress, AddressLength*2, len(raw))
	}
	if _, err := hex.Decode(a[:], []byte(strings.ToLower(raw))); err != nil {
		return a, fmt.Errorf("%w: %q is not valid hex", ErrInvalidAddress, s)
	}
	return a, nil
}

// MustParseAddress is ParseAddress that panics on error, for fixtures.
func MustParseAddress(s string) Address {
	a, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}

// String returns the canonical 0x-prefixed lowercase hex form.
func (a Address) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

// IsZero reports whether the address is all zero bytes.
func (a Address) IsZero() bool {
	return a == Address{}
}

// Less gives a total order over addresses for stable display sorting.
func (a Address) Less(b Address) bool {
	return bytes.Compare(a[:], b[:]) < 0
}

// MarshalText implements encoding.TextMarshaler, which also makes
// map[Address]T marshal to a JSON object keyed by the hex form.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := ParseAddress(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
