// Package clients holds HTTP implementations of the pipeline's external
// collaborators: the speech-to-text service and the grammar-check service.
package clients

import (
	"net/http"
	"time"
)

const defaultTimeout = 60 * time.Second

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: defaultTimeout}
}
