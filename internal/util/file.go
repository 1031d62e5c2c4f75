package util

import (
	"errors"
	"io"
	"net/http"
	"strings"
)

// DetectMimeType sniffs the first 512 bytes and checks the result against
// the allowed prefixes or exact types (e.g. "video/", "application/pdf").
func DetectMimeType(reader io.Reader, allowedTypes []string) (string, error) {
	buffer := make([]byte, 512)
	n, err := reader.Read(buffer)
	if err != nil && err != io.EOF {
		return "", err
	}

	mimeType := http.DetectContentType(buffer[:n])

	for _, allowed := range allowedTypes {
		if strings.HasPrefix(mimeType, allowed) || mimeType == allowed {
			return mimeType, nil
		}
	}

	return mimeType, errors.New("invalid file type: " + mimeType)
}
