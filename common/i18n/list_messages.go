package i18n

// ListMessages holds list command translatable strings
type ListMessages struct {
	Use   string
	Short string
	Long  string

	ErrorFailedToList string
	TotalFiles        string
	FileInfoSaved     string

	FlagSaveFiles string
}

// English list messages
var EnglishListMessages = ListMessages{
	Use:   "list [file or directory URL/path...]",
	Short: "List containers and their formats",
	Long:  `List every input container with its detected format and declared sizes.`,

	ErrorFailedToList: "Failed to list files: %v",
	TotalFiles:        "Total %d files",
	FileInfoSaved:     "\nFile information saved to %s",

	FlagSaveFiles: "save file info to file",
}

// Chinese list messages
var ChineseListMessages = ListMessages{
	Use:   "list [文件或目录链接/路径...]",
	Short: "列出容器及其格式",
	Long:  `列出所有输入容器、识别出的格式以及声明的大小。`,

	ErrorFailedToList: "无法列出文件: %v",
	TotalFiles:        "共 %d 个文件",
	FileInfoSaved:     "\n文件信息已保存到 %s",

	FlagSaveFiles: "将文件信息保存到文件",
}
