package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/xishang0128/dcx-dumper-go/common/i18n"
	"github.com/xishang0128/dcx-dumper-go/dumper"
)

var (
	listOut   string
	listFiles string
	listJson  bool
	listSave  bool
)

func initListCmd() {
	listCmd := &cobra.Command{
		Use:   i18n.I18nMsg.List.Use,
		Short: i18n.I18nMsg.List.Short,
		Long:  i18n.I18nMsg.List.Long,
		Args:  cobra.MinimumNArgs(1),
		Run:   runList,
	}

	listCmd.Flags().StringVarP(&listOut, "out", "o", "output", i18n.I18nMsg.Common.FlagOut)
	listCmd.Flags().StringVarP(&listFiles, "files", "f", "", i18n.I18nMsg.Common.FlagFiles)
	listCmd.Flags().BoolVarP(&listJson, "json", "j", false, i18n.I18nMsg.Common.FlagJSON)
	listCmd.Flags().BoolVarP(&listSave, "save", "s", false, i18n.I18nMsg.List.FlagSaveFiles)

	rootCmd.AddCommand(listCmd)
}

func formatFileLine(info dumper.FileInfo) string {
	if info.Error != "" {
		return fmt.Sprintf("%s [%s] error: %s", info.Name, info.Variant, info.Error)
	}
	return fmt.Sprintf("%s [%s] (%s)", info.Name, info.Variant, info.SizeReadable)
}

func runList(cmd *cobra.Command, args []string) {
	start := time.Now()
	defer func() {
		if !listJson {
			fmt.Printf(i18n.I18nMsg.Common.ElapsedTime+"\n", time.Since(start))
		}
	}()

	d, err := createDumper(args, nil)
	if err != nil {
		log.Fatalf(i18n.I18nMsg.Common.ErrorFailedToCreateDumper, err)
	}

	files, err := d.ListFiles()
	if err != nil {
		log.Fatalf(i18n.I18nMsg.List.ErrorFailedToList, err)
	}

	if listFiles != "" {
		want := make(map[string]bool)
		for _, name := range strings.Split(listFiles, ",") {
			want[strings.TrimSpace(name)] = true
		}
		filtered := files[:0]
		for _, f := range files {
			if want[f.Name] {
				filtered = append(filtered, f)
			}
		}
		files = filtered
	}

	var text strings.Builder
	fmt.Fprintf(&text, i18n.I18nMsg.List.TotalFiles+"\n", len(files))
	for _, info := range files {
		text.WriteString(formatFileLine(info) + "\n")
	}

	if listJson {
		data, err := json.MarshalIndent(files, "", "    ")
		if err != nil {
			log.Fatalf(i18n.I18nMsg.Common.ErrorFailedToMarshalJSON, err)
		}
		fmt.Println(string(data))
	} else {
		fmt.Print(text.String())
	}

	if listSave {
		if err := os.MkdirAll(listOut, 0755); err != nil {
			log.Fatalf(i18n.I18nMsg.Common.ErrorFailedToCreateDir, err)
		}

		outFile := filepath.Join(listOut, "files_info.txt")
		saveData := []byte(text.String())
		if listJson {
			outFile = filepath.Join(listOut, "files_info.json")
			saveData, err = json.MarshalIndent(files, "", "    ")
			if err != nil {
				log.Fatalf(i18n.I18nMsg.Common.ErrorFailedToMarshalJSON, err)
			}
		}

		if err := os.WriteFile(outFile, saveData, 0644); err != nil {
			log.Fatalf(i18n.I18nMsg.Common.ErrorFailedToWriteFile, err)
		}
		fmt.Printf(i18n.I18nMsg.List.FileInfoSaved+"\n", outFile)
	}
}
