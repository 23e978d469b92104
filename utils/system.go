package utils

import (
	"log"

	"github.com/dustin/go-humanize"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// LogHostResources logs the logical core count and free memory of the host.
// It is called before every browser launch since each session starts its
// own Chrome process.
func LogHostResources() {
	cpuCores, err := cpu.Counts(true)
	if err != nil {
		log.Printf("WARN: Could not detect CPU cores: %v", err)
	}

	vm, err := mem.VirtualMemory()
	if err != nil {
		log.Printf("WARN: Could not read memory stats: %v", err)
		log.Printf("Launching browser on host with %d logical cores.", cpuCores)
		return
	}

	log.Printf("Launching browser on host with %d logical cores, %s of %s memory available.",
		cpuCores, humanize.Bytes(vm.Available), humanize.Bytes(vm.Total))
	if vm.Available < 512*1024*1024 {
		log.Printf("WARN: less than 512MB memory available, Chrome may be killed mid-run.")
	}
}
