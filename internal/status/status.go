// Package status gathers host and process diagnostics for the status page.
package status

import (
	"context"
	"fmt"
	"net"
	"runtime"
	"slices"
	"time"

	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
	psnet "github.com/shirou/gopsutil/v4/net"
)

// Interface lists the external IPv4 addresses of one network interface.
type Interface struct {
	Name      string   `json:"name"`
	Addresses []string `json:"addresses"`
}

// Snapshot is a point-in-time view of the host and this process.
type Snapshot struct {
	Hostname      string        `json:"hostname"`
	Platform      string        `json:"platform"`
	OS            string        `json:"os"`
	Arch          string        `json:"arch"`
	ProcessUptime time.Duration `json:"process_uptime_ns"`
	SystemUptime  time.Duration `json:"system_uptime_ns"`
	TotalMemory   uint64        `json:"total_memory_bytes"`
	FreeMemory    uint64        `json:"free_memory_bytes"`
	ProcessMemory uint64        `json:"process_memory_bytes"`
	GoVersion     string        `json:"go_version"`
	Goroutines    int           `json:"goroutines"`
	Interfaces    []Interface   `json:"interfaces"`
	CollectedAt   time.Time     `json:"collected_at"`
}

// Source reads raw host metrics.
type Source interface {
	Host(ctx context.Context) (*host.InfoStat, error)
	Memory(ctx context.Context) (*mem.VirtualMemoryStat, error)
	Interfaces(ctx context.Context) (psnet.InterfaceStatList, error)
}

type gopsutilSource struct{}

func (gopsutilSource) Host(ctx context.Context) (*host.InfoStat, error) {
	return host.InfoWithContext(ctx)
}

func (gopsutilSource) Memory(ctx context.Context) (*mem.VirtualMemoryStat, error) {
	return mem.VirtualMemoryWithContext(ctx)
}

func (gopsutilSource) Interfaces(ctx context.Context) (psnet.InterfaceStatList, error) {
	return psnet.InterfacesWithContext(ctx)
}

// Reporter produces Snapshots. Process uptime counts from construction.
type Reporter struct {
	src     Source
	started time.Time
	now     func() time.Time
	loc     *time.Location
}

// NewReporter returns a Reporter backed by gopsutil.
func NewReporter(loc *time.Location) *Reporter {
	return NewReporterWithSource(gopsutilSource{}, time.Now, loc)
}

// NewReporterWithSource builds a Reporter over an arbitrary Source and clock.
func NewReporterWithSource(src Source, now func() time.Time, loc *time.Location) *Reporter {
	if loc == nil {
		loc = time.UTC
	}
	return &Reporter{src: src, started: now(), now: now, loc: loc}
}

// Collect reads all metrics synchronously. Any failing read fails the snapshot.
func (r *Reporter) Collect(ctx context.Context) (*Snapshot, error) {
	hi, err := r.src.Host(ctx)
	if err != nil {
		return nil, fmt.Errorf("read host info: %w", err)
	}
	vm, err := r.src.Memory(ctx)
	if err != nil {
		return nil, fmt.Errorf("read memory: %w", err)
	}
	ifaces, err := r.src.Interfaces(ctx)
	if err != nil {
		return nil, fmt.Errorf("read interfaces: %w", err)
	}

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	now := r.now()
	return &Snapshot{
		Hostname:      hi.Hostname,
		Platform:      hi.Platform,
		OS:            hi.OS,
		Arch:          runtime.GOARCH,
		ProcessUptime: now.Sub(r.started),
		SystemUptime:  time.Duration(hi.Uptime) * time.Second,
		TotalMemory:   vm.Total,
		FreeMemory:    vm.Available,
		ProcessMemory: ms.Sys,
		GoVersion:     runtime.Version(),
		Goroutines:    runtime.NumGoroutine(),
		Interfaces:    externalIPv4(ifaces),
		CollectedAt:   now.In(r.loc),
	}, nil
}

// externalIPv4 keeps the non-loopback IPv4 addresses of each interface and
// drops interfaces left with none.
func externalIPv4(list psnet.InterfaceStatList) []Interface {
	out := make([]Interface, 0, len(list))
	for _, iface := range list {
		if slices.Contains(iface.Flags, "loopback") {
			continue
		}
		var addrs []string
		for _, a := range iface.Addrs {
			ip, _, err := net.ParseCIDR(a.Addr)
			if err != nil {
				ip = net.ParseIP(a.Addr)
			}
			if ip == nil || ip.To4() == nil || ip.IsLoopback() {
				continue
			}
			addrs = append(addrs, ip.String())
		}
		if len(addrs) > 0 {
			out = append(out, Interface{Name: iface.Name, Addresses: addrs})
		}
	}
	return out
}
