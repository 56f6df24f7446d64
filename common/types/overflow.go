// Copyright 2021 Google LLC
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
	"math"
	"time"
)

// addInt64Checked performs addition with overflow detection of two int64,
// returning the result of the addition if no overflow occurred as the
// first return value and a bool indicating whether no overflow occurred
// as the second return value.
func addInt64Checked(x, y int64) (int64, bool) {
	if (y > 0 && x > math.MaxInt64-y) || (y < 0 && x < math.MinInt64-y) {
		return 0, false
	}
	return x + y, true
}

// subtractInt64Checked performs subtraction with overflow detection of two
// int64.
func subtractInt64Checked(x, y int64) (int64, bool) {
	if (y < 0 && x > math.MaxInt64+y) || (y > 0 && x < math.MinInt64+y) {
		return 0, false
	}
	return x - y, true
}

// negateInt64Checked performs negation with overflow detection of an int64.
func negateInt64Checked(x int64) (int64, bool) {
	// In twos complement, negating MinInt64 would result in a value of
	// MaxInt64+1.
	if x == math.MinInt64 {
		return 0, false
	}
	return -x, true
}

// multiplyInt64Checked performs multiplication with overflow detection of
// two int64.
func multiplyInt64Checked(x, y int64) (int64, bool) {
	if (x == -1 && y == math.MinInt64) || (y == -1 && x == math.MinInt64) ||
		(x > 0 && y > 0 && x > math.MaxInt64/y) ||
		(x > 0 && y < 0 && y < math.MinInt64/x) ||
		(x < 0 && y > 0 && x < math.MinInt64/y) ||
		(x < 0 && y < 0 && y < math.MaxInt64/x) {
		return 0, false
	}
	return x * y, true
}

// addUint64Checked performs addition with overflow detection of two uint64.
func addUint64Checked(x, y uint64) (uint64, bool) {
	if y > 0 && x > math.MaxUint64-y {
		return 0, false
	}
	return x + y, true
}

// subtractUint64Checked performs subtraction with overflow detection of two
// uint64.
func subtractUint64Checked(x, y uint64) (uint64, bool) {
	if y > x {
		return 0, false
	}
	return x - y, true
}

// multiplyUint64Checked performs multiplication with overflow detection of
// two uint64.
func multiplyUint64Checked(x, y uint64) (uint64, bool) {
	if y != 0 && x > math.MaxUint64/y {
		return 0, false
	}
	return x * y, true
}

// addDurationChecked performs addition with overflow detection of two
// time.Duration.
func addDurationChecked(x, y time.Duration) (time.Duration, bool) {
	if val, ok := addInt64Checked(int64(x), int64(y)); ok {
		return time.Duration(val), true
	}
	return 0, false
}

// subtractDurationChecked performs subtraction with overflow detection of
// two time.Duration.
func subtractDurationChecked(x, y time.Duration) (time.Duration, bool) {
	if val, ok := subtractInt64Checked(int64(x), int64(y)); ok {
		return time.Duration(val), true
	}
	return 0, false
}

// negateDurationChecked performs negation with overflow detection of a
// time.Duration.
func negateDurationChecked(x time.Duration) (time.Duration, bool) {
	if val, ok := negateInt64Checked(int64(x)); ok {
		return time.Duration(val), true
	}
	return 0, false
}

// addTimeDurationChecked performs addition with overflow detection of a
// time.Time and a time.Duration.
func addTimeDurationChecked(x time.Time, y time.Duration) (time.Time, bool) {
	sec1 := x.Truncate(time.Second).Unix()
	nsec1 := x.Sub(x.Truncate(time.Second)).Nanoseconds()

	sec2 := int64(y) / int64(time.Second)
	nsec2 := int64(y) % int64(time.Second)

	sec, ok := addInt64Checked(sec1, sec2)
	if !ok {
		return time.Time{}, false
	}

	nsec := nsec1 + nsec2
	if nsec < 0 || nsec >= int64(time.Second) {
		sec, ok = addInt64Checked(sec, nsec/int64(time.Second))
		if !ok {
			return time.Time{}, false
		}
		nsec -= (nsec / int64(time.Second)) * int64(time.Second)
		if nsec < 0 {
			sec, ok = addInt64Checked(sec, -1)
			if !ok {
				return time.Time{}, false
			}
			nsec += int64(time.Second)
		}
	}

	return time.Unix(sec, nsec).In(x.Location()), true
}

// subtractTimeChecked performs subtraction with overflow detection of two
// time.Time, returning the duration between them.
func subtractTimeChecked(x, y time.Time) (time.Duration, bool) {
	sec1 := x.Truncate(time.Second).Unix()
	nsec1 := x.Sub(x.Truncate(time.Second)).Nanoseconds()

	sec2 := y.Truncate(time.Second).Unix()
	nsec2 := y.Sub(y.Truncate(time.Second)).Nanoseconds()

	sec, ok := subtractInt64Checked(sec1, sec2)
	if !ok {
		return 0, false
	}

	nsec := nsec1 - nsec2
	if nsec < 0 || nsec >= int64(time.Second) {
		sec, ok = addInt64Checked(sec, nsec/int64(time.Second))
		if !ok {
			return 0, false
		}
		nsec -= (nsec / int64(time.Second)) * int64(time.Second)
		if nsec < 0 {
			sec, ok = addInt64Checked(sec, -1)
			if !ok {
				return 0, false
			}
			nsec += int64(time.Second)
		}
	}

	tsec, ok := multiplyInt64Checked(sec, int64(time.Second))
	if !ok {
		return 0, false
	}
	val, ok := addInt64Checked(tsec, nsec)
	if !ok {
		return 0, false
	}
	return time.Duration(val), true
}

// subtractTimeDurationChecked performs subtraction with overflow detection
// of a time.Time and a time.Duration.
func subtractTimeDurationChecked(x time.Time, y time.Duration) (time.Time, bool) {
	val, ok := negateDurationChecked(y)
	if !ok {
		return time.Time{}, false
	}
	return addTimeDurationChecked(x, val)
}
