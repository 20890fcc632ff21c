package main

import (
	"fmt"
	"os"
	"unsafe"

	"github.com/dustin/go-humanize"
	"github.com/shirou/gopsutil/process"
	"github.com/spf13/cobra"
	"github.com/vibhansa-msft/mmapalloc"
)

type allocOptions struct {
	size   string
	align  string
	resize string
	touch  bool
}

func init() {
	rootCmd.AddCommand(newAllocCmd())
}

func newAllocCmd() *cobra.Command {
	opts := allocOptions{}
	cmd := &cobra.Command{
		Use:   "alloc",
		Short: "Map, touch, optionally resize, and release a region",
		Long: `The alloc command acquires one mapping through the backend, writes one byte
per page, optionally resizes it and checks that the written bytes survived,
then releases it. Resident memory is sampled after each step.

Example:
  mmapprobe alloc --size 64MiB
  mmapprobe alloc --size 1MiB --align 2MiB --resize 8MiB --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAlloc(opts)
		},
	}
	cmd.Flags().StringVar(&opts.size, "size", "64MiB", "Bytes to acquire (e.g. 4096, 16MiB)")
	cmd.Flags().StringVar(&opts.align, "align", "8", "Required alignment, a power of two")
	cmd.Flags().StringVar(&opts.resize, "resize", "", "Resize the mapping to this many bytes")
	cmd.Flags().BoolVar(&opts.touch, "touch", true, "Write one byte per page")
	return cmd
}

type allocReport struct {
	Size         uint64     `json:"size"`
	Align        uint64     `json:"align"`
	Address      string     `json:"address"`
	Aligned      bool       `json:"aligned"`
	PagesTouched uint64     `json:"pages_touched"`
	ResizedTo    uint64     `json:"resized_to,omitempty"`
	Moved        bool       `json:"moved,omitempty"`
	Preserved    bool       `json:"preserved"`
	NativeResize bool       `json:"native_resize"`
	RSS          rssSamples `json:"rss"`
}

type rssSamples struct {
	Before  uint64 `json:"before"`
	Touched uint64 `json:"touched"`
	Resized uint64 `json:"resized,omitempty"`
	Release uint64 `json:"released"`
}

func runAlloc(opts allocOptions) error {
	size, err := parseSize("size", opts.size)
	if err != nil {
		return err
	}
	align, err := parseSize("align", opts.align)
	if err != nil {
		return err
	}
	if align == 0 {
		align = 1
	}
	var newSize uint64
	if opts.resize != "" {
		if newSize, err = parseSize("resize", opts.resize); err != nil {
			return err
		}
	}

	a := mmapalloc.NewAllocator(backendCfg)
	page := uint64(mmapalloc.PageSize())

	report := allocReport{Size: size, Align: align, NativeResize: a.NativeResize(), Preserved: true}
	report.RSS.Before = residentBytes()

	p, err := a.Acquire(uintptr(size), uintptr(align))
	if err != nil {
		return fmt.Errorf("failed to acquire %s: %w", humanize.IBytes(size), err)
	}
	report.Address = fmt.Sprintf("%#x", uintptr(p))
	report.Aligned = uintptr(p)%uintptr(align) == 0
	printVerbose("Acquired %s at %s\n", humanize.IBytes(size), report.Address)

	if opts.touch {
		report.PagesTouched = touchPages(p, size, page)
	}
	report.RSS.Touched = residentBytes()

	cur, curSize := p, size
	if newSize > 0 {
		q, err := a.Resize(p, uintptr(size), uintptr(newSize), uintptr(align))
		if err != nil {
			a.Release(p, uintptr(size))
			return fmt.Errorf("failed to resize to %s: %w", humanize.IBytes(newSize), err)
		}
		report.ResizedTo = newSize
		report.Moved = q != p
		cur, curSize = q, newSize
		if opts.touch {
			report.Preserved = verifyPages(q, min(size, newSize), page)
		}
		report.RSS.Resized = residentBytes()
		printVerbose("Resized to %s at %#x\n", humanize.IBytes(newSize), uintptr(q))
	}

	a.Release(cur, uintptr(curSize))
	report.RSS.Release = residentBytes()

	return finishReport(report)
}

// finishReport prints r in the selected format and fails the command when a
// resize did not keep the touched bytes, whatever the format.
func finishReport(r allocReport) error {
	if jsonOut {
		if err := printJSON(r); err != nil {
			return err
		}
	} else {
		printAllocReport(r)
	}
	if !r.Preserved {
		return fmt.Errorf("resize to %s lost data", humanize.IBytes(r.ResizedTo))
	}
	return nil
}

func printAllocReport(r allocReport) {
	printInfo("\nMapping:\n")
	printInfo("  Size: %s\n", humanize.IBytes(r.Size))
	printInfo("  Address: %s (aligned to %s: %v)\n", r.Address, humanize.IBytes(r.Align), r.Aligned)
	printInfo("  Pages touched: %s\n", humanize.Comma(int64(r.PagesTouched)))
	if r.ResizedTo > 0 {
		printInfo("  Resized to: %s (moved: %v, native: %v)\n", humanize.IBytes(r.ResizedTo), r.Moved, r.NativeResize)
		printInfo("  Contents preserved: %v\n", r.Preserved)
	}

	printInfo("\nResident memory:\n")
	printInfo("  Before acquire: %s\n", formatRSS(r.RSS.Before))
	printInfo("  After touch:    %s\n", formatRSS(r.RSS.Touched))
	if r.ResizedTo > 0 {
		printInfo("  After resize:   %s\n", formatRSS(r.RSS.Resized))
	}
	printInfo("  After release:  %s\n", formatRSS(r.RSS.Release))
}

func parseSize(name, s string) (uint64, error) {
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("invalid --%s %q: %w", name, s, err)
	}
	if uint64(uintptr(n)) != n {
		return 0, fmt.Errorf("--%s %s does not fit the address space", name, humanize.IBytes(n))
	}
	return n, nil
}

func touchPages(p unsafe.Pointer, size, page uint64) uint64 {
	mem := unsafe.Slice((*byte)(p), size)
	var n uint64
	for off := uint64(0); off < size; off += page {
		mem[off] = pageMark(off / page)
		n++
	}
	return n
}

func verifyPages(p unsafe.Pointer, size, page uint64) bool {
	mem := unsafe.Slice((*byte)(p), size)
	for off := uint64(0); off < size; off += page {
		if mem[off] != pageMark(off/page) {
			return false
		}
	}
	return true
}

func pageMark(i uint64) byte {
	return byte(i%251) + 1
}

// residentBytes returns the process RSS, or 0 when it cannot be read.
func residentBytes() uint64 {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return 0
	}
	mem, err := proc.MemoryInfo()
	if err != nil || mem == nil {
		return 0
	}
	return mem.RSS
}

func formatRSS(n uint64) string {
	if n == 0 {
		return "unavailable"
	}
	return humanize.IBytes(n)
}
