package meilitest

import (
	"fmt"
	"runtime"

	"github.com/dustin/go-humanize"

	"meilikit/src/pkg/meili"
)

// sysInfo reports figures of the stand-in process itself. Memory usage is
// left null, as the real server does on hosts where it cannot be read.
func (s *Server) sysInfo() meili.SysInfo {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return meili.SysInfo{
		ProcessorUsage: make([]float64, runtime.NumCPU()+1),
		Global: meili.SysInfoGlobal{
			TotalMemory: mem.Sys,
			UsedMemory:  mem.HeapInuse + mem.StackInuse,
			TotalSwap:   0,
			UsedSwap:    0,
			InputData:   s.bytesIn.Load(),
			OutputData:  s.bytesOut.Load(),
		},
		Process: meili.SysInfoProcess{
			Memory: mem.Alloc,
			CPU:    0,
		},
	}
}

func prettySysInfo(info meili.SysInfo) meili.SysInfoPretty {
	usage := 0.0
	if info.MemoryUsage != nil {
		usage = *info.MemoryUsage
	} else if info.Global.TotalMemory > 0 {
		usage = float64(info.Global.UsedMemory) / float64(info.Global.TotalMemory) * 100
	}

	cpus := make([]string, len(info.ProcessorUsage))
	for i, p := range info.ProcessorUsage {
		cpus[i] = percent(p)
	}

	return meili.SysInfoPretty{
		MemoryUsage:    percent(usage),
		ProcessorUsage: cpus,
		Global: meili.SysInfoPrettyGlobal{
			TotalMemory: humanize.IBytes(info.Global.TotalMemory),
			UsedMemory:  humanize.IBytes(info.Global.UsedMemory),
			TotalSwap:   humanize.IBytes(info.Global.TotalSwap),
			UsedSwap:    humanize.IBytes(info.Global.UsedSwap),
			InputData:   humanize.IBytes(info.Global.InputData),
			OutputData:  humanize.IBytes(info.Global.OutputData),
		},
		Process: meili.SysInfoPrettyProcess{
			Memory: humanize.IBytes(info.Process.Memory),
			CPU:    percent(info.Process.CPU),
		},
	}
}

func percent(v float64) string {
	return fmt.Sprintf("%.2f %%", v)
}
