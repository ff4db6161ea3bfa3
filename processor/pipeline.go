package processor

import (
	"strings"
)

// Расширения файлов staging-области
const (
	CSVExt       = ".csv"
	SnappyCSVExt = ".csv.sz"
)

// IsStagedBlob сообщает, является ли ключ файлом, который умеет читать ETL
func IsStagedBlob(key string) bool {
	return strings.HasSuffix(key, CSVExt) || strings.HasSuffix(key, SnappyCSVExt)
}

// ProcessOutboundBlob подготавливает CSV к записи в staging-область:
// при compress=true содержимое сжимается Snappy и ключ получает расширение .csv.sz.
// baseKey передается без расширения.
func ProcessOutboundBlob(baseKey string, csvData []byte, compress bool) (key string, payload []byte) {
	if compress {
		return baseKey + SnappyCSVExt, CompressBlob(csvData)
	}
	return baseKey + CSVExt, csvData
}

// ProcessInboundBlob выполняет обратное преобразование по расширению ключа
// и возвращает исходный CSV.
func ProcessInboundBlob(key string, payload []byte) ([]byte, error) {
	if strings.HasSuffix(key, SnappyCSVExt) {
		return DecompressBlob(payload)
	}
	return payload, nil
}
