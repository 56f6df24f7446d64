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

	durationpb "google.golang.org/protobuf/types/known/durationpb"
)

// Duration wraps a google.protobuf.Duration message — one of the two
// protobuf message types section 1 keeps in scope.
type Duration struct {
	pb *durationpb.Duration
}

// NewDuration builds a Duration from a Go time.Duration.
func NewDuration(d time.Duration) Duration {
	return Duration{pb: durationpb.New(d)}
}

// AsDuration returns the wrapped value as a Go time.Duration.
func (d Duration) AsDuration() time.Duration { return d.pb.AsDuration() }

func (d Duration) Type() *Type { return DurationType }

func (d Duration) Equal(other Value) Value {
	o, ok := other.(Duration)
	if !ok {
		return False
	}
	return Bool(d.AsDuration() == o.AsDuration())
}

func (d Duration) String() string { return d.AsDuration().String() }

func (d Duration) Compare(other Value) Value {
	o, ok := other.(Duration)
	if !ok {
		return ValOrErr(other, "no such overload: duration < %s", other.Type().Name())
	}
	switch {
	case d.AsDuration() < o.AsDuration():
		return IntNegOne
	case d.AsDuration() > o.AsDuration():
		return IntOne
	default:
		return IntZero
	}
}

func AddDuration(x, y Duration) Value {
	v, ok := addDurationChecked(x.AsDuration(), y.AsDuration())
	if !ok {
		return NewErr("integer overflow")
	}
	return NewDuration(v)
}

func SubtractDuration(x, y Duration) Value {
	v, ok := subtractDurationChecked(x.AsDuration(), y.AsDuration())
	if !ok {
		return NewErr("integer overflow")
	}
	return NewDuration(v)
}

func NegateDuration(x Duration) Value {
	v, ok := negateDurationChecked(x.AsDuration())
	if !ok {
		return NewErr("integer overflow")
	}
	return NewDuration(v)
}

// Getter methods backing the duration.getHours()/getMinutes()/getSeconds()
// standard library entries (SPEC_FULL.md section C).
func (d Duration) Hours() Int   { return Int(d.AsDuration() / time.Hour) }
func (d Duration) Minutes() Int { return Int(d.AsDuration() / time.Minute) }
func (d Duration) Seconds() Int { return Int(d.AsDuration() / time.Second) }
