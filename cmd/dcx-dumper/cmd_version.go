package main

import (
	"fmt"
	"runtime"
	"sort"

	"github.com/spf13/cobra"

	"github.com/xishang0128/dcx-dumper-go/common/i18n"
	"github.com/xishang0128/dcx-dumper-go/compression"
	"github.com/xishang0128/dcx-dumper-go/constant"
	"github.com/xishang0128/dcx-dumper-go/oodle"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: i18n.I18nMsg.App.VersionCmdShort,
	Long:  i18n.I18nMsg.App.VersionCmdLong,
	Run: func(cmd *cobra.Command, args []string) {
		msg := i18n.I18nMsg.App
		fmt.Printf("%s\n", msg.VersionTitle)
		fmt.Printf("%s: %s(%s)\n", msg.VersionLabel, constant.Version, constant.BuildTime)
		fmt.Printf("%s: %s\n", msg.GoVersionLabel, runtime.Version())
		fmt.Printf("%s: %s/%s\n", msg.PlatformLabel, runtime.GOOS, runtime.GOARCH)

		fmt.Printf("\n%s:\n", msg.CodecsLabel)
		info := compression.NewDecompressorManager().GetImplementationInfo()
		types := make([]compression.CompressionType, 0, len(info))
		for t := range info {
			types = append(types, t)
		}
		sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
		for _, t := range types {
			fmt.Printf("  %-8s: %s\n", t, info[t])
		}

		fmt.Printf("\n%s:\n", msg.OodleLabel)
		registry := newRegistry()
		missing := true
		for _, rev := range []oodle.Revision{oodle.Revision6, oodle.Revision8} {
			status := msg.OodleMissing
			if registry.Available(rev) {
				status = msg.OodleAvailable
				missing = false
			}
			fmt.Printf("  %-10s: %s\n", rev, status)
		}
		if missing {
			fmt.Printf("\n%s\n", msg.OodleMissingAdvice)
		}
	},
}

func initVersionCmd() {
	rootCmd.AddCommand(versionCmd)
}
