package processor

import (
	"fmt"

	"github.com/golang/snappy"
)

// CompressBlob сжимает содержимое staging-файла форматом Snappy
func CompressBlob(data []byte) []byte {
	return snappy.Encode(nil, data)
}

// DecompressBlob распаковывает содержимое, сжатое CompressBlob
func DecompressBlob(data []byte) ([]byte, error) {
	decompressed, err := snappy.Decode(nil, data)
	if err != nil {
		return nil, fmt.Errorf("ошибка распаковки snappy: %w", err)
	}
	return decompressed, nil
}
