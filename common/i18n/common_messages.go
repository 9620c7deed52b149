package i18n

// CommonMessages holds common translatable strings
type CommonMessages struct {
	// Error messages
	ErrorFailedToOpen         string
	ErrorFailedToCreateDumper string
	ErrorFailedToCreateDir    string
	ErrorFailedToWriteFile    string
	ErrorFailedToMarshalJSON  string
	ErrorFailedToOpenCache    string

	// Common flag descriptions
	FlagOut       string
	FlagJSON      string
	FlagSave      string
	FlagUserAgent string
	FlagFiles     string
	ElapsedTime   string
}

// English common messages
var EnglishCommonMessages = CommonMessages{
	ErrorFailedToOpen:         "Failed to open input: %v",
	ErrorFailedToCreateDumper: "Failed to create dumper: %v",
	ErrorFailedToCreateDir:    "Failed to create output directory: %v",
	ErrorFailedToWriteFile:    "Failed to write file: %v",
	ErrorFailedToMarshalJSON:  "Failed to marshal JSON: %v",
	ErrorFailedToOpenCache:    "Failed to open cache: %v",

	FlagOut:       "output directory",
	FlagJSON:      "output as JSON",
	FlagSave:      "save to file",
	FlagUserAgent: "User-Agent sent with HTTP requests",
	FlagFiles:     "comma separated list of input names to process",
	ElapsedTime:   "Elapsed time: %s",
}

// Chinese common messages
var ChineseCommonMessages = CommonMessages{
	ErrorFailedToOpen:         "无法打开输入文件: %v",
	ErrorFailedToCreateDumper: "无法创建提取器: %v",
	ErrorFailedToCreateDir:    "无法创建输出目录: %v",
	ErrorFailedToWriteFile:    "无法写入文件: %v",
	ErrorFailedToMarshalJSON:  "无法序列化JSON: %v",
	ErrorFailedToOpenCache:    "无法打开缓存: %v",

	FlagOut:       "输出目录",
	FlagJSON:      "以 JSON 格式输出",
	FlagSave:      "保存到文件",
	FlagUserAgent: "HTTP 请求使用的 User-Agent",
	FlagFiles:     "要处理的输入文件名列表，用逗号分隔",
	ElapsedTime:   "耗时: %s",
}
