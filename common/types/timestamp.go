// Copyright 2018 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package types

import (
	"time"

	timestamppb "google.golang.org/protobuf/types/known/timestamppb"
)

// Timestamp wraps a google.protobuf.Timestamp message (section 1's other
// named protobuf exception).
type Timestamp struct {
	pb *timestamppb.Timestamp
}

// NewTimestamp builds a Timestamp from a Go time.Time.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{pb: timestamppb.New(t)}
}

// AsTime returns the wrapped value as a Go time.Time in UTC.
func (t Timestamp) AsTime() time.Time { return t.pb.AsTime() }

func (t Timestamp) Type() *Type { return TimestampType }

func (t Timestamp) Equal(other Value) Value {
	o, ok := other.(Timestamp)
	if !ok {
		return False
	}
	return Bool(t.AsTime().Equal(o.AsTime()))
}

func (t Timestamp) String() string { return t.AsTime().Format(time.RFC3339Nano) }

func (t Timestamp) Compare(other Value) Value {
	o, ok := other.(Timestamp)
	if !ok {
		return ValOrErr(other, "no such overload: timestamp < %s", other.Type().Name())
	}
	switch {
	case t.AsTime().Before(o.AsTime()):
		return IntNegOne
	case t.AsTime().After(o.AsTime()):
		return IntOne
	default:
		return IntZero
	}
}

// AddDuration, SubtractDuration and SubtractTimestamp implement the
// timestamp/duration arithmetic of section 4.6.
func (t Timestamp) AddDuration(d Duration) Value {
	v, ok := addTimeDurationChecked(t.AsTime(), d.AsDuration())
	if !ok {
		return NewErr("timestamp overflow")
	}
	return NewTimestamp(v)
}

func (t Timestamp) SubtractDuration(d Duration) Value {
	v, ok := subtractTimeDurationChecked(t.AsTime(), d.AsDuration())
	if !ok {
		return NewErr("timestamp overflow")
	}
	return NewTimestamp(v)
}

func (t Timestamp) SubtractTimestamp(o Timestamp) Value {
	v, ok := subtractTimeChecked(t.AsTime(), o.AsTime())
	if !ok {
		return NewErr("integer overflow")
	}
	return NewDuration(v)
}

// Getter methods backing the timestamp.getFullYear()/getMonth()/... family
// (SPEC_FULL.md section C). CEL evaluates these in UTC unless a timezone
// argument is supplied; the timezone-argument overload is not implemented.
func (t Timestamp) FullYear() Int { return Int(t.AsTime().Year()) }
func (t Timestamp) Month() Int    { return Int(int(t.AsTime().Month()) - 1) }
func (t Timestamp) Date() Int     { return Int(t.AsTime().Day()) }
func (t Timestamp) Hours() Int    { return Int(t.AsTime().Hour()) }
func (t Timestamp) Minutes() Int  { return Int(t.AsTime().Minute()) }
func (t Timestamp) Seconds() Int  { return Int(t.AsTime().Second()) }
func (t Timestamp) DayOfWeek() Int {
	return Int(int(t.AsTime().Weekday()))
}
