// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package json provides JSON encodings of numbers as decimal strings, so
// clients never lose precision on large values.
package json

import (
	"strconv"

	"github.com/holiman/uint256"
)

const Null = "null"

// Uint8 is a uint8 that can be JSON marshaled as a string.
type Uint8 uint8

func (u Uint8) MarshalJSON() ([]byte, error) {
	return []byte(`"` + strconv.FormatUint(uint64(u), 10) + `"`), nil
}

func (u *Uint8) UnmarshalJSON(b []byte) error {
	str := string(b)
	if str == Null {
		return nil
	}
	val, err := strconv.ParseUint(unquote(str), 10, 8)
	*u = Uint8(val)
	return err
}

// Uint64 is a uint64 that can be JSON marshaled as a string.
type Uint64 uint64

func (u Uint64) MarshalJSON() ([]byte, error) {
	return []byte(`"` + strconv.FormatUint(uint64(u), 10) + `"`), nil
}

func (u *Uint64) UnmarshalJSON(b []byte) error {
	str := string(b)
	if str == Null {
		return nil
	}
	val, err := strconv.ParseUint(unquote(str), 10, 64)
	*u = Uint64(val)
	return err
}

// Uint256 is a 256-bit unsigned integer JSON marshaled as a decimal string.
type Uint256 struct {
	uint256.Int
}

func NewUint256(v *uint256.Int) Uint256 {
	var u Uint256
	if v != nil {
		u.Set(v)
	}
	return u
}

func (u Uint256) MarshalJSON() ([]byte, error) {
	return []byte(`"` + u.Dec() + `"`), nil
}

func (u *Uint256) UnmarshalJSON(b []byte) error {
	str := string(b)
	if str == Null {
		return nil
	}
	return u.SetFromDecimal(unquote(str))
}

func unquote(str string) string {
	if len(str) >= 2 {
		if lastIndex := len(str) - 1; str[0] == '"' && str[lastIndex] == '"' {
			return str[1:lastIndex]
		}
	}
	return str
}
