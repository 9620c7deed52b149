package i18n

// AppMessages holds application-level translatable strings
type AppMessages struct {
	AppDescription     string
	AppLongDescription string

	FlagConfig   string
	FlagLogLevel string
	FlagOodleDir string

	ErrorFailedToLoadConfig string
	ErrorInvalidLogLevel    string

	// Version command messages
	VersionTitle       string
	VersionLabel       string
	GoVersionLabel     string
	PlatformLabel      string
	CodecsLabel        string
	OodleLabel         string
	OodleAvailable     string
	OodleMissing       string
	OodleMissingAdvice string
	VersionCmdShort    string
	VersionCmdLong     string
}

// English app messages
var EnglishAppMessages = AppMessages{
	AppDescription: "DCX container dumper",
	AppLongDescription: `A tool for decompressing DCX/DCP game asset containers.

It detects the container layout, validates every header field,
and inflates zlib, EDGE-chunked and Oodle Kraken payloads.`,

	FlagConfig:   "path to a YAML config file (default: $DCX_DUMPER_CONFIG)",
	FlagLogLevel: "log level: debug, info, warn or error",
	FlagOodleDir: "extra directory to search for the Oodle runtime (repeatable)",

	ErrorFailedToLoadConfig: "Failed to load config: %v",
	ErrorInvalidLogLevel:    "Invalid log level: %s",

	VersionTitle:       "dcx-dumper-go",
	VersionLabel:       "Version",
	GoVersionLabel:     "Go Version",
	PlatformLabel:      "Platform",
	CodecsLabel:        "Codec implementations",
	OodleLabel:         "Oodle runtime",
	OodleAvailable:     "available",
	OodleMissing:       "not found",
	OodleMissingAdvice: "DCX_KRAK containers need oo2core_6 or oo2core_8; place the library next to the executable or pass --oodle-dir",
	VersionCmdShort:    "Show version information",
	VersionCmdLong:     "Display version information including codec implementations and Oodle availability",
}

// Chinese app messages
var ChineseAppMessages = AppMessages{
	AppDescription: "DCX 容器提取工具",
	AppLongDescription: `用于解压 DCX/DCP 游戏资源容器的工具。

此工具会识别容器格式、校验全部文件头字段，
并解压 zlib、EDGE 分块以及 Oodle Kraken 数据。`,

	FlagConfig:   "YAML 配置文件路径（默认: $DCX_DUMPER_CONFIG）",
	FlagLogLevel: "日志级别: debug、info、warn 或 error",
	FlagOodleDir: "额外的 Oodle 运行库搜索目录（可重复）",

	ErrorFailedToLoadConfig: "无法加载配置: %v",
	ErrorInvalidLogLevel:    "无效的日志级别: %s",

	VersionTitle:       "dcx-dumper-go",
	VersionLabel:       "版本",
	GoVersionLabel:     "Go 版本",
	PlatformLabel:      "平台",
	CodecsLabel:        "压缩算法实现",
	OodleLabel:         "Oodle 运行库",
	OodleAvailable:     "可用",
	OodleMissing:       "未找到",
	OodleMissingAdvice: "DCX_KRAK 容器需要 oo2core_6 或 oo2core_8；请将运行库放在程序所在目录或使用 --oodle-dir 指定",
	VersionCmdShort:    "显示版本信息",
	VersionCmdLong:     "显示版本信息，包括压缩算法实现和 Oodle 可用性",
}
