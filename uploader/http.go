package uploader

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	sdk "github.com/beacon-project/sdk"
	"github.com/beacon-project/sdk/core"
)

// defaultUploadTimeout bounds a single upload attempt.
const defaultUploadTimeout = 30 * time.Second

// HTTPUploader posts ping bodies to the configured server endpoint.
type HTTPUploader struct {
	endpoint  string
	userAgent string
	logPings  bool
	client    *http.Client
}

// NewHTTPUploader builds the default upload collaborator from runtime
// configuration.
func NewHTTPUploader(cfg sdk.RuntimeConfig) *HTTPUploader {
	endpoint := cfg.ServerEndpoint
	if endpoint == "" {
		endpoint = sdk.DefaultServerEndpoint
	}

	return &HTTPUploader{
		endpoint:  strings.TrimSuffix(endpoint, "/"),
		userAgent: cfg.UserAgent,
		logPings:  cfg.LogPings,
		client:    &http.Client{Timeout: defaultUploadTimeout},
	}
}

// Upload posts the ping and classifies the outcome: 2xx is success, 4xx is
// unrecoverable, anything else (including transport errors) is recoverable.
func (u *HTTPUploader) Upload(req core.PingRequest) Result {
	httpReq, err := http.NewRequest(http.MethodPost, u.endpoint+req.Path, strings.NewReader(req.Body))
	if err != nil {
		log.Error().Err(err).Str("document_id", req.DocumentID).Msg("Failed to build upload request")
		return UnrecoverableFailure
	}

	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}
	if u.userAgent != "" {
		httpReq.Header.Set("User-Agent", u.userAgent)
	}

	if u.logPings {
		log.Info().
			Str("document_id", req.DocumentID).
			Str("path", req.Path).
			Msg(req.Body)
	}

	resp, err := u.client.Do(httpReq)
	if err != nil {
		log.Warn().Err(err).Str("document_id", req.DocumentID).Msg("Ping upload failed")
		return RecoverableFailure
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return Success
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return UnrecoverableFailure
	default:
		return RecoverableFailure
	}
}
