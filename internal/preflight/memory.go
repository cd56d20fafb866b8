package preflight

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"golang.org/x/sys/unix"
)

// MemoryProbe reports the bytes of memory available for new work.
type MemoryProbe func() (uint64, error)

const meminfoPath = "/proc/meminfo"

// AvailableMemory returns MemAvailable from /proc/meminfo, which accounts for
// reclaimable page cache. Hosts without it fall back to sysinfo free RAM.
func AvailableMemory() (uint64, error) {
	if data, err := os.ReadFile(meminfoPath); err == nil {
		if avail, ok := parseMemAvailable(data); ok {
			return avail, nil
		}
	}
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return 0, fmt.Errorf("sysinfo: %w", err)
	}
	return uint64(info.Freeram) * uint64(info.Unit), nil
}

func parseMemAvailable(data []byte) (uint64, bool) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 || fields[0] != "MemAvailable:" {
			continue
		}
		kb, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			return 0, false
		}
		return kb * 1024, true
	}
	return 0, false
}

// CheckMemory compares available memory against floor.
func CheckMemory(probe MemoryProbe, floor uint64) Result {
	const name = "Memory"
	avail, err := probe()
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("probe failed: %v", err)}
	}
	detail := fmt.Sprintf("%s available (floor %s)", humanize.IBytes(avail), humanize.IBytes(floor))
	if avail < floor {
		return Result{Name: name, Detail: detail}
	}
	return Result{Name: name, Passed: true, Detail: detail}
}
