/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package time provides a time.Time wrapper that preserves the literal string
// a timestamp was parsed from. Signed data must be rebuilt byte for byte, so
// the "created" literal of a signature can never be reformatted.
package time

import (
	"encoding/json"
	"time"
)

// TimeWrapper overrides marshalling of time.Time. If a TimeWrapper is created from a time string, or
// unmarshalled from JSON, it saves the string literal, which it uses when marshalling.
// If a TimeWrapper is created using NewTime or a struct literal, it marshals with the default
// time.RFC3339 format.
type TimeWrapper struct { // nolint:golint
	time.Time
	timeStr string
}

// NewTime creates a TimeWrapper wrapped around the given time.Time.
// It functions as a normal time.Time object.
func NewTime(t time.Time) *TimeWrapper {
	return &TimeWrapper{Time: t}
}

// MarshalJSON implements the json.Marshaler interface.
func (tm TimeWrapper) MarshalJSON() ([]byte, error) {
	// catch time.Time marshaling errors
	_, err := tm.Time.MarshalJSON()
	if err != nil {
		return nil, err
	}

	return json.Marshal(tm.FormatToString())
}

// UnmarshalJSON implements the json.Unmarshaler interface.
// The time is expected to be a quoted string in RFC 3339 format.
// The source string value is saved, and used if this is marshalled back to JSON.
func (tm *TimeWrapper) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}

	timeStr := ""

	err := json.Unmarshal(data, &timeStr)
	if err != nil {
		return err
	}

	return tm.parse(timeStr)
}

func (tm *TimeWrapper) parse(timeStr string) error {
	t, err := time.Parse(time.RFC3339, timeStr)
	if err != nil {
		t, err = time.Parse(time.RFC3339, timeStr+"Z")
		if err != nil {
			return err
		}
	}

	tm.Time = t
	tm.timeStr = timeStr

	return nil
}

// FormatToString returns the string representation of this TimeWrapper.
// If it was parsed from a string, this returns the original literal.
// Otherwise, this returns the time in the time.RFC3339Nano format.
func (tm *TimeWrapper) FormatToString() string {
	if tm.timeStr != "" {
		return tm.timeStr
	}

	return tm.Time.Format(time.RFC3339Nano)
}

// ParseTimeWrapper parses a formatted string and returns the time value it represents.
func ParseTimeWrapper(timeStr string) (*TimeWrapper, error) {
	tm := TimeWrapper{}

	err := tm.parse(timeStr)
	if err != nil {
		return nil, err
	}

	return &tm, nil
}
