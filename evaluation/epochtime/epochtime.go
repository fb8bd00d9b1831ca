//
// Tencent is pleased to support the open source community by making trpc-agent-evals available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-evals is licensed under the Apache License Version 2.0.
//
//

// Package epochtime provides the timestamp type persisted in run results.
// Timestamps serialize as fractional unix seconds so stored documents stay
// comparable across hosts regardless of time zone.
package epochtime

import (
	"encoding/json"
	"time"
)

// EpochTime wraps time.Time with unix-seconds JSON encoding. The zero time
// encodes as the literal 0.
type EpochTime struct{ time.Time }

// Now returns the current UTC time as EpochTime.
func Now() EpochTime {
	return EpochTime{time.Now().UTC()}
}

// MarshalJSON encodes the time as fractional unix seconds.
func (t EpochTime) MarshalJSON() ([]byte, error) {
	if t.Time.IsZero() {
		return []byte("0"), nil
	}
	return json.Marshal(float64(t.Time.UnixNano()) / float64(time.Second))
}

// UnmarshalJSON decodes fractional unix seconds into a UTC time.
func (t *EpochTime) UnmarshalJSON(b []byte) error {
	var seconds float64
	if err := json.Unmarshal(b, &seconds); err != nil {
		return err
	}
	t.Time = time.Unix(0, int64(seconds*float64(time.Second))).UTC()
	return nil
}
