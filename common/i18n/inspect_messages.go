package i18n

// InspectMessages holds inspect command translatable strings
type InspectMessages struct {
	Use   string
	Short string
	Long  string

	ErrorFailedToInspect string

	VariantLabel          string
	UncompressedSizeLabel string
	CompressedSizeLabel   string
	LevelLabel            string
	ChunksLabel           string
	ChunkLine             string
}

// English inspect messages
var EnglishInspectMessages = InspectMessages{
	Use:   "inspect [file URL/path]",
	Short: "Show the header of a container",
	Long:  `Validate the header of a container and print its fields without decompressing it.`,

	ErrorFailedToInspect: "Failed to inspect %s: %v",

	VariantLabel:          "Format",
	UncompressedSizeLabel: "Uncompressed size",
	CompressedSizeLabel:   "Compressed size",
	LevelLabel:            "Level",
	ChunksLabel:           "Chunks",
	ChunkLine:             "  #%d offset=%#x size=%d compressed=%t",
}

// Chinese inspect messages
var ChineseInspectMessages = InspectMessages{
	Use:   "inspect [文件链接/路径]",
	Short: "显示容器文件头",
	Long:  `校验容器文件头并输出各字段，不进行解压。`,

	ErrorFailedToInspect: "无法检查 %s: %v",

	VariantLabel:          "格式",
	UncompressedSizeLabel: "解压后大小",
	CompressedSizeLabel:   "压缩大小",
	LevelLabel:            "级别",
	ChunksLabel:           "分块",
	ChunkLine:             "  #%d 偏移=%#x 大小=%d 压缩=%t",
}
