package sweep

import (
	"strconv"
	"strings"

	"dpcheck/internal/errors"
)

// Mode is the diffraction simulation mode of a sweep.
type Mode int

const (
	// Normal is conventional kinematic diffraction.
	Normal Mode = 1
	// CBED is convergent-beam electron diffraction; only CBED patterns carry HOLZ lines.
	CBED Mode = 2
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == Normal || m == CBED
}

func (m Mode) String() string {
	switch m {
	case Normal:
		return "normal"
	case CBED:
		return "cbed"
	default:
		return "mode(" + strconv.Itoa(int(m)) + ")"
	}
}

// ParseMode accepts "normal", "cbed" (any case) or the numeric codes 1 and 2.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "normal", "1":
		return Normal, nil
	case "cbed", "2":
		return CBED, nil
	default:
		return 0, errors.Newf(errors.PayloadInvalid, "unknown diffraction mode %q (want normal or cbed)", s)
	}
}

// MarshalText renders the mode by name.
func (m Mode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, errors.Newf(errors.PayloadInvalid, "invalid diffraction mode %d", int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText accepts any form ParseMode does.
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
