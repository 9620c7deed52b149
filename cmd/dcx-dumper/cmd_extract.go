package main

import (
	"fmt"
	"log"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/xishang0128/dcx-dumper-go/common/i18n"
	"github.com/xishang0128/dcx-dumper-go/dumper"
)

var (
	extractOut         string
	extractFiles       string
	extractAll         bool
	extractWorkers     int
	extractStrategy    string
	extractMaxBufferMB int
	extractVerify      bool
	extractStrict      bool
	extractCacheDir    string
	extractNoCache     bool
)

func initExtractCmd() {
	extractCmd := &cobra.Command{
		Use:   i18n.I18nMsg.Extract.Use,
		Short: i18n.I18nMsg.Extract.Short,
		Long:  i18n.I18nMsg.Extract.Long,
		Args:  cobra.MinimumNArgs(1),
		Run:   runExtract,
	}

	extractCmd.Flags().StringVarP(&extractOut, "out", "o", "output", i18n.I18nMsg.Common.FlagOut)
	extractCmd.Flags().StringVarP(&extractFiles, "files", "f", "", i18n.I18nMsg.Common.FlagFiles)
	extractCmd.Flags().BoolVarP(&extractAll, "all", "a", false, i18n.I18nMsg.Extract.FlagAll)
	extractCmd.Flags().IntVarP(&extractWorkers, "workers", "w", 0, i18n.I18nMsg.Extract.FlagWorkers)
	extractCmd.Flags().StringVar(&extractStrategy, "strategy", "", i18n.I18nMsg.Extract.FlagStrategy)
	extractCmd.Flags().IntVar(&extractMaxBufferMB, "max-buffer-mb", 0, i18n.I18nMsg.Extract.FlagMaxBufferMB)
	extractCmd.Flags().BoolVar(&extractVerify, "verify", false, i18n.I18nMsg.Extract.FlagVerify)
	extractCmd.Flags().BoolVar(&extractStrict, "strict", false, i18n.I18nMsg.Extract.FlagStrict)
	extractCmd.Flags().StringVar(&extractCacheDir, "cache-dir", "", i18n.I18nMsg.Extract.FlagCacheDir)
	extractCmd.Flags().BoolVar(&extractNoCache, "no-cache", false, i18n.I18nMsg.Extract.FlagNoCache)

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) {
	start := time.Now()
	defer func() {
		fmt.Printf(i18n.I18nMsg.Common.ElapsedTime+"\n", time.Since(start))
	}()

	if cmd.Flags().Changed("workers") {
		cfg.Extract.Workers = extractWorkers
	}
	if extractStrategy != "" {
		cfg.Extract.Strategy = extractStrategy
	}
	if extractMaxBufferMB > 0 {
		cfg.Extract.MaxBufferMB = extractMaxBufferMB
		dumper.MaxBufferSize = int64(extractMaxBufferMB) * 1024 * 1024
	}
	if cmd.Flags().Changed("strict") {
		cfg.Extract.Strict = extractStrict
	}
	if extractCacheDir != "" {
		cfg.Cache.Dir = extractCacheDir
	}
	if extractNoCache {
		cfg.Cache.Dir = ""
	}

	strategy, err := dumper.ParseStrategy(cfg.Extract.Strategy)
	if err != nil {
		log.Fatalf(i18n.I18nMsg.Extract.ErrorFailedToExtract, err)
	}

	d, err := createDumper(args, openCache())
	if err != nil {
		log.Fatalf(i18n.I18nMsg.Common.ErrorFailedToCreateDumper, err)
	}

	var names []string
	switch {
	case extractFiles != "":
		for _, name := range strings.Split(extractFiles, ",") {
			names = append(names, strings.TrimSpace(name))
		}
	case !extractAll && len(d.Inputs()) > 1:
		names, err = selectFilesInteractively(d)
		if err != nil {
			log.Fatalf(i18n.I18nMsg.Extract.FailedToSelectFiles, err)
		}
	}

	total := len(d.Inputs())
	if len(names) > 0 {
		total = len(names)
	}

	progress := mpb.New(mpb.WithWidth(60))
	bar := progress.AddBar(int64(total),
		mpb.PrependDecorators(
			decor.Name(i18n.I18nMsg.Extract.TotalProgress, decor.WCSyncSpaceR),
		),
		mpb.AppendDecorators(
			decor.Percentage(decor.WC{W: 5}),
			decor.Counters(0, " | %d/%d"),
			decor.AverageETA(decor.ET_STYLE_GO, decor.WC{W: 6}, decor.WCSyncSpace),
		),
	)

	progressCallback := func(dumper.ProgressInfo) {
		bar.Increment()
	}

	m, err := d.ExtractFiles(extractOut, names, strategy, cfg.Extract.Workers, progressCallback)
	bar.Abort(false)
	progress.Wait()
	if err != nil {
		log.Fatalf(i18n.I18nMsg.Extract.ErrorFailedToExtract, err)
	}

	ok, failed, cached := m.Counts()
	fmt.Printf(i18n.I18nMsg.Extract.ExtractionSummary+"\n", ok, failed, cached)
	fmt.Printf(i18n.I18nMsg.Extract.ManifestWritten+"\n", filepath.Join(extractOut, dumper.ManifestName))
	for _, e := range m.Failed() {
		fmt.Printf("  %s: %s\n", e.Name, e.Error)
	}

	if extractVerify {
		printVerification(dumper.VerifyManifest(d.Decoder(), m, extractOut))
	}

	if failed == 0 {
		fmt.Println(i18n.I18nMsg.Extract.ExtractionCompleted)
	}
}

func printVerification(results map[string]error) {
	var failed []string
	for name, err := range results {
		if err != nil {
			failed = append(failed, fmt.Sprintf("  %s: %v", name, err))
		}
	}
	if len(failed) == 0 {
		fmt.Println(i18n.I18nMsg.Extract.VerificationAllOK)
		return
	}
	sort.Strings(failed)
	fmt.Println(i18n.I18nMsg.Extract.VerificationFailed)
	for _, line := range failed {
		fmt.Println(line)
	}
}

// selectFilesInteractively shows an interactive file selector using survey
func selectFilesInteractively(d *dumper.Dumper) ([]string, error) {
	files, err := d.ListFiles()
	if err != nil {
		return nil, fmt.Errorf(i18n.I18nMsg.Extract.FailedToListFiles, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf(i18n.I18nMsg.Extract.NoFilesFound)
	}

	options := make([]string, 0, len(files))
	byOption := make(map[string]string, len(files))
	for i, f := range files {
		opt := fmt.Sprintf("%d. %s [%s] (%s)", i+1, f.Name, f.Variant, f.SizeReadable)
		options = append(options, opt)
		byOption[opt] = f.Name
	}

	prompt := &survey.MultiSelect{
		Message:  i18n.I18nMsg.Extract.InteractiveSelection,
		Options:  options,
		PageSize: 15,
	}

	var result []string
	if err := survey.AskOne(prompt, &result); err != nil {
		return nil, fmt.Errorf(i18n.I18nMsg.Extract.SelectionCancelled, err)
	}

	selected := make([]string, 0, len(result))
	for _, opt := range result {
		selected = append(selected, byOption[opt])
	}
	if len(selected) == 0 {
		return nil, fmt.Errorf(i18n.I18nMsg.Extract.NoFilesSelected)
	}
	return selected, nil
}
