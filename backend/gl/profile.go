// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package gl

import "time"

// QueryPool implements profile.QueryPool for GL. backend/gl/gl does not
// expose GL_TIMESTAMP query objects (no glGenQueries/glQueryCounter
// binding), so this falls back to host-side wall-clock timestamps: a
// coarser approximation of GPU time than a real query object would give,
// but it keeps package profile's scope bookkeeping exercised on this
// backend rather than leaving GL profiling entirely unimplemented.
type QueryPool struct {
	ticks []uint64
	epoch time.Time
}

// NewQueryPool creates a host-clock-backed profile.QueryPool.
func NewQueryPool() *QueryPool {
	return &QueryPool{epoch: time.Now()}
}

func (q *QueryPool) WriteTimestamp(slot int) error {
	for len(q.ticks) <= slot {
		q.ticks = append(q.ticks, 0)
	}
	q.ticks[slot] = uint64(time.Since(q.epoch))
	return nil
}

// Results is always immediately ready: there is no GPU-side query
// latency to wait out when timestamps are host-clock approximations.
func (q *QueryPool) Results(count int) ([]uint64, bool, error) {
	if count > len(q.ticks) {
		count = len(q.ticks)
	}
	return q.ticks[:count], true, nil
}

// TimestampPeriod is 1 nanosecond per tick since WriteTimestamp already
// stores time.Duration nanoseconds.
func (q *QueryPool) TimestampPeriod() float64 { return 1.0 }
