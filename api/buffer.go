// Package api
// Author: momentics
//
// Mapped memory regions and their recycling pools.
//
// Regions may be double-mapped shared memory or plain heap memory.
// Pools hand them out by size and take them back when a ring is closed.

package api

// RegionPoolStats aggregates region allocation/reuse stats.
type RegionPoolStats struct {
	TotalAlloc int64 // regions mapped
	TotalFree  int64 // regions unmapped
	Reused     int64 // acquisitions served from the idle queue
	Idle       int64 // regions currently parked
	InUse      int64
	// IdleBySize maps region size in bytes to the parked count.
	IdleBySize map[int]int64
}

// PoolStatsSource exposes accounting metrics for observability.
type PoolStatsSource interface {
	Stats() RegionPoolStats
}
