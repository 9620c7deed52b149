package i18n

// DumperMessages holds dumper package translatable strings
type DumperMessages struct {
	// Error messages
	ErrorNoInputs                  string
	ErrorDuplicateName             string
	ErrorFailedToScanDir           string
	ErrorFailedToReadInput         string
	ErrorFailedToDecode            string
	ErrorFailedToCreateOutputFile  string
	ErrorFailedToWriteToFile       string
	ErrorFailedToProcessFile       string
	ErrorWorkerFailedToProcessFile string
	ErrorUnknownExtractionStrategy string
	ErrorFailedToWriteManifest     string
	ErrorFailedToReadManifest      string
	ErrorDigestMismatch            string
	ErrorSizeMismatch              string
	ErrorInputChanged              string
	ErrorNotInManifest             string
	ErrorRecordedFailure           string

	// Info messages
	FileNotFound    string
	NoFilesToDecode string
	CacheHit        string

	// Progress related
	BytesSuffix string
}

// English dumper messages
var EnglishDumperMessages = DumperMessages{
	ErrorNoInputs:                  "no input files",
	ErrorDuplicateName:             "output name %s is shared by %s and %s",
	ErrorFailedToScanDir:           "failed to scan directory %s: %v",
	ErrorFailedToReadInput:         "failed to read input: %v",
	ErrorFailedToDecode:            "failed to decode: %v",
	ErrorFailedToCreateOutputFile:  "failed to create output file: %v",
	ErrorFailedToWriteToFile:       "failed to write to file: %v",
	ErrorFailedToProcessFile:       "failed to process file %s: %v",
	ErrorWorkerFailedToProcessFile: "worker %d failed to process file %s: %v",
	ErrorUnknownExtractionStrategy: "unknown extraction strategy: %v",
	ErrorFailedToWriteManifest:     "failed to write manifest: %v",
	ErrorFailedToReadManifest:      "failed to read manifest: %v",
	ErrorDigestMismatch:            "xxh3 mismatch: expected %s, got %s",
	ErrorSizeMismatch:              "size mismatch: expected %d, got %d",
	ErrorInputChanged:              "input changed since extraction: xxh3 was %s, now %s",
	ErrorNotInManifest:             "file %s is not in the manifest",
	ErrorRecordedFailure:           "extraction had failed: %s",

	FileNotFound:    "File %s not found in inputs",
	NoFilesToDecode: "Not operating on any files",
	CacheHit:        "cache hit for %s",

	BytesSuffix: "B/s",
}

// Chinese dumper messages
var ChineseDumperMessages = DumperMessages{
	ErrorNoInputs:                  "没有输入文件",
	ErrorDuplicateName:             "输出名 %s 同时对应 %s 和 %s",
	ErrorFailedToScanDir:           "扫描目录 %s 失败: %v",
	ErrorFailedToReadInput:         "读取输入失败: %v",
	ErrorFailedToDecode:            "解码失败: %v",
	ErrorFailedToCreateOutputFile:  "创建输出文件失败: %v",
	ErrorFailedToWriteToFile:       "写入文件失败: %v",
	ErrorFailedToProcessFile:       "处理文件 %s 失败: %v",
	ErrorWorkerFailedToProcessFile: "工作线程 %d 处理文件 %s 失败: %v",
	ErrorUnknownExtractionStrategy: "未知的提取策略: %v",
	ErrorFailedToWriteManifest:     "写入清单失败: %v",
	ErrorFailedToReadManifest:      "读取清单失败: %v",
	ErrorDigestMismatch:            "xxh3 不匹配: 期望 %s，实际 %s",
	ErrorSizeMismatch:              "大小不匹配: 期望 %d，实际 %d",
	ErrorInputChanged:              "输入文件在解压后已被修改: xxh3 原为 %s，现为 %s",
	ErrorNotInManifest:             "文件 %s 不在清单中",
	ErrorRecordedFailure:           "提取时已失败: %s",

	FileNotFound:    "输入中未找到文件 %s",
	NoFilesToDecode: "没有文件需要处理",
	CacheHit:        "命中缓存 %s",

	BytesSuffix: "B/s",
}
