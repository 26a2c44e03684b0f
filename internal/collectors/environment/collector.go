// internal/collectors/environment/collector.go

package environment

import (
	"bufio"
	"bytes"
	"context"
	"os/exec"
	"runtime"
	"strconv"
	"strings"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"

	"gputrace/internal/models"
)

// Collector gathers host metadata recorded alongside each profile run.
type Collector struct {
	info models.Environment
}

var _ models.Collector = (*Collector)(nil)

// NewCollector creates a new environment collector
func NewCollector() *Collector {
	return &Collector{}
}

// Collect gathers host information. Individual probes failing leave their
// fields zero rather than failing the run.
func (c *Collector) Collect(ctx context.Context) error {
	c.info.OS = runtime.GOOS
	c.info.Arch = runtime.GOARCH
	c.info.CPUCores = runtime.NumCPU()

	if hostInfo, err := host.InfoWithContext(ctx); err == nil {
		c.info.Hostname = hostInfo.Hostname
	}

	if cpuInfo, err := cpu.InfoWithContext(ctx); err == nil && len(cpuInfo) > 0 {
		c.info.CPUModel = cpuInfo[0].ModelName
	}

	if virtualMemory, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		c.info.MemoryTotal = int64(virtualMemory.Total)
	}

	if gpus, err := collectNvidiaGPUInfo(); err == nil {
		c.info.GPUs = gpus
	}

	return nil
}

// GetData returns the collected environment information
func (c *Collector) GetData() interface{} {
	return c.info
}

// Environment returns the typed form of the collected data.
func (c *Collector) Environment() models.Environment {
	return c.info
}

// collectNvidiaGPUInfo gathers GPU information using nvidia-smi
func collectNvidiaGPUInfo() ([]models.GPUInfo, error) {
	cmd := exec.Command("nvidia-smi", "--query-gpu=gpu_name,memory.total,driver_version", "--format=csv,noheader,nounits")
	output, err := cmd.Output()
	if err != nil {
		return nil, err
	}

	var gpus []models.GPUInfo
	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		fields := strings.Split(scanner.Text(), ", ")
		if len(fields) == 3 {
			memory, _ := strconv.ParseInt(strings.TrimSpace(fields[1]), 10, 64)
			gpus = append(gpus, models.GPUInfo{
				Model:  strings.TrimSpace(fields[0]),
				Memory: memory * 1024 * 1024, // MB to bytes
				Driver: strings.TrimSpace(fields[2]),
			})
		}
	}

	return gpus, nil
}
