package util

// FileStampFormat 导出文件名中的时间戳
const FileStampFormat = "20060102-150405"

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

const (
	MimeJSON = "application/json"
)
