package diet

import "errors"

// Validation errors. Callers get them wrapped with context; compare with errors.Is.
var (
	ErrInvalidTitle       = errors.New("title must not be empty")
	ErrInvalidPortion     = errors.New("portion size must be positive")
	ErrInvalidSlot        = errors.New("unknown meal slot")
	ErrInvalidBloodType   = errors.New("unknown blood type")
	ErrInvalidWeight      = errors.New("weight must be positive")
	ErrInvalidRating      = errors.New("rating must be between 1 and 5")
	ErrInvalidComment     = errors.New("comment must not be empty")
	ErrInvalidCatalogItem = errors.New("invalid catalog item")
)

var (
	// ErrMissingCompatibilityData marks a catalog item without an entry for a blood type.
	ErrMissingCompatibilityData = errors.New("missing compatibility data")

	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("not allowed")
	ErrVersionConflict = errors.New("plan was modified concurrently")
)

// IsValidation reports whether err is caused by bad caller input.
func IsValidation(err error) bool {
	for _, target := range []error{
		ErrInvalidTitle, ErrInvalidPortion, ErrInvalidSlot, ErrInvalidBloodType,
		ErrInvalidWeight, ErrInvalidRating, ErrInvalidComment,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
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
