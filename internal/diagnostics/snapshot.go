// Package diagnostics captures resource information about the machine the
// diagnostic run executes on, so a report records the conditions it was
// collected under.
package diagnostics

import (
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
)

// Snapshot describes the collector host at a point in time.
type Snapshot struct {
	Timestamp      time.Time `json:"timestamp"`
	Hostname       string    `json:"hostname,omitempty"`
	OS             string    `json:"os,omitempty"`
	Platform       string    `json:"platform,omitempty"`
	KernelVersion  string    `json:"kernel_version,omitempty"`
	CPUCount       int       `json:"cpu_count,omitempty"`
	Load1          float64   `json:"load1,omitempty"`
	MemoryTotalMB  uint64    `json:"memory_total_mb,omitempty"`
	MemoryUsedPct  float64   `json:"memory_used_pct,omitempty"`
	UptimeSeconds  uint64    `json:"uptime_seconds,omitempty"`
	CollectionErrs []string  `json:"collection_errors,omitempty"`
}

// Collect gathers a best-effort snapshot. Individual probe failures are
// recorded in CollectionErrs rather than failing the snapshot: a report
// with partial host data beats no report.
func Collect() Snapshot {
	snap := Snapshot{Timestamp: time.Now().UTC()}

	if info, err := host.Info(); err != nil {
		snap.CollectionErrs = append(snap.CollectionErrs, "host: "+err.Error())
	} else {
		snap.Hostname = info.Hostname
		snap.OS = info.OS
		snap.Platform = info.Platform
		snap.KernelVersion = info.KernelVersion
		snap.UptimeSeconds = info.Uptime
	}

	if count, err := cpu.Counts(true); err != nil {
		snap.CollectionErrs = append(snap.CollectionErrs, "cpu: "+err.Error())
	} else {
		snap.CPUCount = count
	}

	if avg, err := load.Avg(); err != nil {
		snap.CollectionErrs = append(snap.CollectionErrs, "load: "+err.Error())
	} else {
		snap.Load1 = avg.Load1
	}

	if vm, err := mem.VirtualMemory(); err != nil {
		snap.CollectionErrs = append(snap.CollectionErrs, "mem: "+err.Error())
	} else {
		snap.MemoryTotalMB = vm.Total / 1024 / 1024
		snap.MemoryUsedPct = vm.UsedPercent
	}

	return snap
}
