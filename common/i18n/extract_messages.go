package i18n

// ExtractMessages holds extract command translatable strings
type ExtractMessages struct {
	Use   string
	Short string
	Long  string

	FlagAll         string
	FlagWorkers     string
	FlagStrategy    string
	FlagMaxBufferMB string
	FlagVerify      string
	FlagStrict      string
	FlagCacheDir    string
	FlagNoCache     string

	ErrorFailedToExtract string
	ErrorInvalidStrategy string
	ExtractionCompleted  string
	ExtractionSummary    string
	ManifestWritten      string

	// File selection messages
	InteractiveSelection string
	FailedToSelectFiles  string
	FailedToListFiles    string
	NoFilesFound         string
	NoFilesSelected      string
	SelectionCancelled   string

	TotalProgress string

	// Verification results
	VerificationAllOK  string
	VerificationFailed string
}

// English extract messages
var EnglishExtractMessages = ExtractMessages{
	Use:   "extract [file or directory URL/path...]",
	Short: "Decompress DCX containers",
	Long:  `Decompress DCX/DCP containers. Directories are searched recursively for files with a configured suffix.`,

	FlagAll:         "extract every input without prompting",
	FlagWorkers:     "number of files decoded concurrently (0 = number of CPUs)",
	FlagStrategy:    "extraction strategy: sequential or adaptive",
	FlagMaxBufferMB: "maximum size of the read-buffer pool in MB",
	FlagVerify:      "re-decode inputs and compare digests after extraction",
	FlagStrict:      "stop at the first file that fails",
	FlagCacheDir:    "directory of the decoded-payload cache",
	FlagNoCache:     "disable the decoded-payload cache",

	ErrorFailedToExtract: "Failed to extract files: %v",
	ErrorInvalidStrategy: "invalid strategy: %s",
	ExtractionCompleted:  "Extraction completed successfully!",
	ExtractionSummary:    "%d extracted, %d failed, %d from cache",
	ManifestWritten:      "Manifest written to %s",

	InteractiveSelection: "Please select files to extract (space to select/deselect, enter to confirm, <right> to select all, <left> to deselect all, or type to filter):",
	FailedToSelectFiles:  "Failed to select files: %v",
	FailedToListFiles:    "Failed to list files: %v",
	NoFilesFound:         "No files found",
	NoFilesSelected:      "No files selected for extraction.",
	SelectionCancelled:   "Selection cancelled: %v",

	TotalProgress: "Total Progress",

	VerificationAllOK:  "All verified",
	VerificationFailed: "Failed files:",
}

// Chinese extract messages
var ChineseExtractMessages = ExtractMessages{
	Use:   "extract [文件或目录链接/路径...]",
	Short: "解压 DCX 容器",
	Long:  `解压 DCX/DCP 容器。目录会被递归搜索，匹配配置的文件后缀。`,

	FlagAll:         "不询问，直接提取全部输入",
	FlagWorkers:     "同时解码的文件数量（0 = CPU 核心数）",
	FlagStrategy:    "提取策略: sequential 或 adaptive",
	FlagMaxBufferMB: "读取缓冲池的最大大小（MB）",
	FlagVerify:      "提取后重新解码输入并比对摘要",
	FlagStrict:      "遇到第一个失败的文件时停止",
	FlagCacheDir:    "解码结果缓存目录",
	FlagNoCache:     "禁用解码结果缓存",

	ErrorFailedToExtract: "无法提取文件: %v",
	ErrorInvalidStrategy: "无效的策略: %s",
	ExtractionCompleted:  "提取完成！",
	ExtractionSummary:    "成功 %d 个，失败 %d 个，命中缓存 %d 个",
	ManifestWritten:      "清单已写入 %s",

	InteractiveSelection: "请选择要提取的文件 (空格键选择/取消选择，回车确认，<右键>全选，<左键>全不选，输入文本筛选):",
	FailedToSelectFiles:  "无法选择文件: %v",
	FailedToListFiles:    "无法列出文件: %v",
	NoFilesFound:         "未找到文件",
	NoFilesSelected:      "未选择任何文件进行提取。",
	SelectionCancelled:   "选择已取消: %v",

	TotalProgress: "总进度",

	VerificationAllOK:  "全部验证通过",
	VerificationFailed: "验证失败的文件：",
}
