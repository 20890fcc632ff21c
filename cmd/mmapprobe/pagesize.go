package main

import (
	"runtime"

	"github.com/spf13/cobra"
	"github.com/vibhansa-msft/mmapalloc"
)

func init() {
	rootCmd.AddCommand(newPageSizeCmd())
}

func newPageSizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pagesize",
		Short: "Print the OS virtual-memory page size",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPageSize()
		},
	}
}

type pageSizeReport struct {
	PageSize     int    `json:"page_size"`
	NativeResize bool   `json:"native_resize"`
	Platform     string `json:"platform"`
}

func runPageSize() error {
	report := pageSizeReport{
		PageSize:     mmapalloc.PageSize(),
		NativeResize: mmapalloc.Default.NativeResize(),
		Platform:     runtime.GOOS + "/" + runtime.GOARCH,
	}

	if jsonOut {
		return printJSON(report)
	}

	printInfo("%d\n", report.PageSize)
	printVerbose("native resize: %v\n", report.NativeResize)
	return nil
}
