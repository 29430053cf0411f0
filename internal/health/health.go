// Package health reports process and room vitals for the /api/health
// endpoint.
package health

import (
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/process"
)

type Report struct {
	UptimeSeconds float64 `json:"uptimeSeconds"`
	CPUPercent    float64 `json:"cpuPercent"`
	MemoryRSS     uint64  `json:"memoryRss"`
	Goroutines    int     `json:"goroutines"`
	Participants  int     `json:"participants"`
	Strokes       int     `json:"strokes"`
}

type Reporter struct {
	proc    *process.Process
	started time.Time
}

func NewReporter() (*Reporter, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, err
	}
	return &Reporter{proc: proc, started: time.Now()}, nil
}

// Collect gathers a point-in-time report. CPU and memory come from the OS;
// participant and stroke counts are passed in by the caller that owns them.
func (r *Reporter) Collect(participants, strokes int) (*Report, error) {
	cpu, err := r.proc.CPUPercent()
	if err != nil {
		return nil, err
	}
	mem, err := r.proc.MemoryInfo()
	if err != nil {
		return nil, err
	}
	return &Report{
		UptimeSeconds: time.Since(r.started).Seconds(),
		CPUPercent:    cpu,
		MemoryRSS:     mem.RSS,
		Goroutines:    runtime.NumGoroutine(),
		Participants:  participants,
		Strokes:       strokes,
	}, nil
}
