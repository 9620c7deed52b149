package i18n

// VerifyMessages holds verify command translatable strings
type VerifyMessages struct {
	Use   string
	Short string
	Long  string

	FlagManifest string

	ErrorFailedToLoadManifest string
	VerifiedCount             string
	VerifyOK                  string
	VerifyFailed              string
}

// English verify messages
var EnglishVerifyMessages = VerifyMessages{
	Use:   "verify [output directory]",
	Short: "Verify extracted files against a manifest",
	Long:  `Re-decode every input recorded in an extraction manifest and compare digests with the extracted files.`,

	FlagManifest: "manifest path (default: <output directory>/manifest.json)",

	ErrorFailedToLoadManifest: "Failed to load manifest: %v",
	VerifiedCount:             "Verified %d files",
	VerifyOK:                  "OK      %s",
	VerifyFailed:              "FAILED  %s: %v",
}

// Chinese verify messages
var ChineseVerifyMessages = VerifyMessages{
	Use:   "verify [输出目录]",
	Short: "根据清单校验提取结果",
	Long:  `重新解码提取清单中记录的所有输入，并与已提取的文件比对摘要。`,

	FlagManifest: "清单路径（默认: <输出目录>/manifest.json）",

	ErrorFailedToLoadManifest: "无法加载清单: %v",
	VerifiedCount:             "已校验 %d 个文件",
	VerifyOK:                  "通过    %s",
	VerifyFailed:              "失败    %s: %v",
}
