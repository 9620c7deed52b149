package main

import (
	"fmt"
	"log"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/xishang0128/dcx-dumper-go/common/i18n"
	"github.com/xishang0128/dcx-dumper-go/dcx"
	"github.com/xishang0128/dcx-dumper-go/dumper"
)

var (
	verifyManifest string
	verifyRedecode bool
)

func initVerifyCmd() {
	verifyCmd := &cobra.Command{
		Use:   i18n.I18nMsg.Verify.Use,
		Short: i18n.I18nMsg.Verify.Short,
		Long:  i18n.I18nMsg.Verify.Long,
		Args:  cobra.ExactArgs(1),
		Run:   runVerify,
	}

	verifyCmd.Flags().StringVarP(&verifyManifest, "manifest", "m", "", i18n.I18nMsg.Verify.FlagManifest)
	verifyCmd.Flags().BoolVar(&verifyRedecode, "redecode", true, i18n.I18nMsg.Extract.FlagVerify)

	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) {
	outDir := args[0]
	path := verifyManifest
	if path == "" {
		path = filepath.Join(outDir, dumper.ManifestName)
	}

	m, err := dumper.ReadManifest(path)
	if err != nil {
		log.Fatalf(i18n.I18nMsg.Verify.ErrorFailedToLoadManifest, err)
	}

	var decoder *dcx.Decoder
	if verifyRedecode {
		decoder = newDecoder()
	}
	results := dumper.VerifyManifest(decoder, m, outDir)

	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	sort.Strings(names)

	failed := 0
	for _, name := range names {
		if err := results[name]; err != nil {
			failed++
			fmt.Printf(i18n.I18nMsg.Verify.VerifyFailed+"\n", name, err)
		} else {
			fmt.Printf(i18n.I18nMsg.Verify.VerifyOK+"\n", name)
		}
	}
	fmt.Printf(i18n.I18nMsg.Verify.VerifiedCount+"\n", len(names))
	if failed > 0 {
		log.Fatalf("%s %d", i18n.I18nMsg.Extract.VerificationFailed, failed)
	}
}
