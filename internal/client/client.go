// Package client uploads encoded capture samples to the inference backend
// and parses its verdicts.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/bajoriya-vaibhav/Deepfake-DeepLearning/internal/config"
	"github.com/bajoriya-vaibhav/Deepfake-DeepLearning/internal/encode"
)

// Multipart field names expected by the backend's /predict endpoint.
const (
	videoFieldName = "video_frame"
	audioFieldName = "audio_segment"
)

// maxErrorBody caps how much of a failed response is read for the error
// message.
const maxErrorBody = 512

// Prediction is the backend's verdict for one sample exchange.
type Prediction struct {
	Label      string
	Confidence float64
}

// Client posts multipart sample uploads to {serverURL}/predict. Timeouts are
// short by design: Send runs inside the orchestrator's tick loop and must
// never stall it indefinitely.
type Client struct {
	endpoint string
	http     *http.Client
	log      zerolog.Logger
}

// New builds a Client for the given backend base URL.
func New(serverURL string, cfg config.ClientConfig, log zerolog.Logger) *Client {
	dialTimeout := time.Duration(cfg.DialTimeoutMs) * time.Millisecond
	headerTimeout := time.Duration(cfg.HeaderTimeoutMs) * time.Millisecond
	requestTimeout := time.Duration(cfg.RequestTimeoutMs) * time.Millisecond

	return &Client{
		endpoint: strings.TrimRight(serverURL, "/") + "/predict",
		http: &http.Client{
			Timeout: requestTimeout,
			Transport: &http.Transport{
				DialContext:           (&net.Dialer{Timeout: dialTimeout}).DialContext,
				ResponseHeaderTimeout: headerTimeout,
			},
		},
		log: log,
	}
}

// Send uploads up to two payloads and returns the backend's verdict. Either
// payload may be nil but not both. Every failure mode (transport error,
// non-2xx status, unparsable body) comes back as an error with a readable
// cause; Send never panics.
func (c *Client) Send(ctx context.Context, frame, audio []byte) (Prediction, error) {
	if len(frame) == 0 && len(audio) == 0 {
		return Prediction{}, fmt.Errorf("nothing to send: both payloads empty")
	}

	body, contentType, err := buildBody(frame, audio)
	if err != nil {
		return Prediction{}, fmt.Errorf("building multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return Prediction{}, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.http.Do(req)
	if err != nil {
		return Prediction{}, fmt.Errorf("posting to %s: %w", c.endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return Prediction{}, fmt.Errorf("backend returned %s: %s",
			resp.Status, strings.TrimSpace(string(snippet)))
	}

	verdict, err := parseVerdict(resp.Body)
	if err != nil {
		return Prediction{}, err
	}
	c.log.Debug().
		Str("prediction", verdict.Label).
		Float64("confidence", verdict.Confidence).
		Int("frame_bytes", len(frame)).
		Int("audio_bytes", len(audio)).
		Msg("Backend verdict")
	return verdict, nil
}

func buildBody(frame, audio []byte) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if len(frame) > 0 {
		if err := writePart(w, videoFieldName, "frame.jpg", encode.JPEGContentType, frame); err != nil {
			return nil, "", err
		}
	}
	if len(audio) > 0 {
		if err := writePart(w, audioFieldName, "audio.wav", encode.WAVContentType, audio); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

func writePart(w *multipart.Writer, field, filename, contentType string, data []byte) error {
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename))
	header.Set("Content-Type", contentType)

	part, err := w.CreatePart(header)
	if err != nil {
		return err
	}
	_, err = part.Write(data)
	return err
}

func parseVerdict(r io.Reader) (Prediction, error) {
	var verdict struct {
		Prediction string  `json:"prediction"`
		Confidence float64 `json:"confidence"`
	}
	if err := json.NewDecoder(r).Decode(&verdict); err != nil {
		return Prediction{}, fmt.Errorf("parsing verdict: %w", err)
	}

	if verdict.Prediction == "" {
		verdict.Prediction = "Unknown"
	}
	return Prediction{Label: verdict.Prediction, Confidence: verdict.Confidence}, nil
}
