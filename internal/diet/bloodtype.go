package diet

import (
	"fmt"
	"strings"
)

type BloodType string

const (
	APositive  BloodType = "A+"
	ANegative  BloodType = "A-"
	BPositive  BloodType = "B+"
	BNegative  BloodType = "B-"
	ABPositive BloodType = "AB+"
	ABNegative BloodType = "AB-"
	OPositive  BloodType = "O+"
	ONegative  BloodType = "O-"
)

// BloodTypes lists every canonical blood type in ABO × Rh order.
var BloodTypes = []BloodType{
	APositive, ANegative,
	BPositive, BNegative,
	ABPositive, ABNegative,
	OPositive, ONegative,
}

// legacyBloodTypes maps the old ABO-only keys to their canonical variants.
var legacyBloodTypes = map[string][]BloodType{
	"A":  {APositive, ANegative},
	"B":  {BPositive, BNegative},
	"AB": {ABPositive, ABNegative},
	"O":  {OPositive, ONegative},
}

func (b BloodType) Valid() bool {
	for _, bt := range BloodTypes {
		if b == bt {
			return true
		}
	}
	return false
}

func (b BloodType) String() string {
	return string(b)
}

// ParseBloodType normalizes user or file input into a canonical BloodType.
// A bare ABO group ("A", "ab") resolves to its Rh-positive variant.
func ParseBloodType(s string) (BloodType, error) {
	v := strings.ToUpper(strings.TrimSpace(s))
	if bt := BloodType(v); bt.Valid() {
		return bt, nil
	}
	if variants, ok := legacyBloodTypes[v]; ok {
		return variants[0], nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidBloodType, s)
}

// ExpandLegacyKey returns the canonical blood types covered by a key, which may be
// canonical ("O-") or a legacy ABO group ("O").
func ExpandLegacyKey(key string) ([]BloodType, error) {
	v := strings.ToUpper(strings.TrimSpace(key))
	if bt := BloodType(v); bt.Valid() {
		return []BloodType{bt}, nil
	}
	if variants, ok := legacyBloodTypes[v]; ok {
		return variants, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidBloodType, key)
}

type Compatibility string

const (
	Beneficial Compatibility = "beneficial"
	Neutral    Compatibility = "neutral"
	Avoid      Compatibility = "avoid"
)

func (c Compatibility) Valid() bool {
	switch c {
	case Beneficial, Neutral, Avoid:
		return true
	}
	return false
}

func ParseCompatibility(s string) (Compatibility, error) {
	c := Compatibility(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("unknown compatibility %q", s)
	}
	return c, nil
}

type CompatibilityMap map[BloodType]Compatibility

// Lookup never falls back to a default; a missing entry is a data fault.
func (m CompatibilityMap) Lookup(bt BloodType) (Compatibility, error) {
	c, ok := m[bt]
	if !ok || !c.Valid() {
		return "", fmt.Errorf("%w: no entry for %s", ErrMissingCompatibilityData, bt)
	}
	return c, nil
}

func (m CompatibilityMap) Validate() error {
	for _, bt := range BloodTypes {
		if _, err := m.Lookup(bt); err != nil {
			return err
		}
	}
	if len(m) != len(BloodTypes) {
		return fmt.Errorf("%w: unexpected keys in compatibility map", ErrMissingCompatibilityData)
	}
	return nil
}

func (m CompatibilityMap) Clone() CompatibilityMap {
	out := make(CompatibilityMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

/*
This project is the backend API for the OpenSourceDUTH diet planner app.
API Copyright (C) 2025 OpenSourceDUTH
    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU General Public License as published by
    the Free Software Foundation, either version 3 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU General Public License
    along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/
