package util

import (
	"fmt"
	"io"
	"net/http"
	"time"
)

// MaxDownloadBytes caps the size of a fetched resource.
const MaxDownloadBytes = 10 << 20

func GetBytes(url string) ([]byte, error) {
	client := http.Client{Timeout: 12 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("get %s: unexpected status %d", url, resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, MaxDownloadBytes))
}
