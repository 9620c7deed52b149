package main

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/xishang0128/dcx-dumper-go/common/file"
	"github.com/xishang0128/dcx-dumper-go/common/i18n"
)

var inspectJson bool

func initInspectCmd() {
	inspectCmd := &cobra.Command{
		Use:   i18n.I18nMsg.Inspect.Use,
		Short: i18n.I18nMsg.Inspect.Short,
		Long:  i18n.I18nMsg.Inspect.Long,
		Args:  cobra.ExactArgs(1),
		Run:   runInspect,
	}

	inspectCmd.Flags().BoolVarP(&inspectJson, "json", "j", false, i18n.I18nMsg.Common.FlagJSON)

	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) {
	name := args[0]

	r, err := file.Open(name)
	if err != nil {
		log.Fatalf(i18n.I18nMsg.Common.ErrorFailedToOpen, err)
	}
	data, err := file.ReadAll(r)
	r.Close()
	if err != nil {
		log.Fatalf(i18n.I18nMsg.Common.ErrorFailedToOpen, err)
	}

	h, err := newDecoder().Inspect(data)
	if err != nil {
		log.Fatalf(i18n.I18nMsg.Inspect.ErrorFailedToInspect, name, err)
	}

	if inspectJson {
		out, err := json.MarshalIndent(h, "", "    ")
		if err != nil {
			log.Fatalf(i18n.I18nMsg.Common.ErrorFailedToMarshalJSON, err)
		}
		fmt.Println(string(out))
		return
	}

	msg := i18n.I18nMsg.Inspect
	fmt.Printf("%s: %s\n", msg.VariantLabel, h.Variant)
	fmt.Printf("%s: %d\n", msg.UncompressedSizeLabel, h.UncompressedSize)
	fmt.Printf("%s: %d\n", msg.CompressedSizeLabel, h.CompressedSize)
	if h.Level != 0 {
		fmt.Printf("%s: %d\n", msg.LevelLabel, h.Level)
	}
	if len(h.Chunks) > 0 {
		fmt.Printf("%s: %d\n", msg.ChunksLabel, len(h.Chunks))
		for i, c := range h.Chunks {
			fmt.Printf(msg.ChunkLine+"\n", i, c.Offset, c.Size, c.Compressed)
		}
	}
}
