// Package ocr recognizes text in captured screen regions with Tesseract.
package ocr

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"
	"sync"

	"github.com/otiai10/gosseract/v2"
	"github.com/rs/zerolog"
	"gocv.io/x/gocv"
)

// minTextHeight is the smallest region dimension handed to Tesseract;
// smaller regions are upscaled first.
const minTextHeight = 150

// ErrEmptyImage is returned when the input does not decode to any pixels.
var ErrEmptyImage = errors.New("empty image")

// Engine runs Tesseract on PNG-encoded images. A single engine serializes
// its calls because the underlying client is not safe for concurrent use.
type Engine struct {
	mu         sync.Mutex
	client     *gosseract.Client
	preprocess bool
	log        zerolog.Logger
}

// NewEngine creates an engine for the given Tesseract language, such as "eng".
func NewEngine(language string, log zerolog.Logger) (*Engine, error) {
	client := gosseract.NewClient()
	if err := client.SetLanguage(language); err != nil {
		client.Close()
		return nil, fmt.Errorf("set OCR language %q: %w", language, err)
	}
	if err := client.SetPageSegMode(gosseract.PSM_AUTO); err != nil {
		client.Close()
		return nil, fmt.Errorf("set page segmentation: %w", err)
	}

	return &Engine{
		client:     client,
		preprocess: true,
		log:        log.With().Str("component", "ocr").Logger(),
	}, nil
}

// Close releases OCR resources.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.client != nil {
		err := e.client.Close()
		e.client = nil
		return err
	}
	return nil
}

// SetPreprocess turns binarization on or off. Screen text with anti-aliased
// or colored glyphs sometimes reads better without it.
func (e *Engine) SetPreprocess(enabled bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.preprocess = enabled
}

// Recognize returns the text found in png, one line per recognized line.
func (e *Engine) Recognize(ctx context.Context, png []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	src, err := gocv.IMDecode(png, gocv.IMReadColor)
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}
	defer src.Close()
	if src.Empty() {
		return "", ErrEmptyImage
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.client == nil {
		return "", errors.New("ocr engine closed")
	}

	processed := prepare(src, e.preprocess)
	defer processed.Close()

	buf, err := gocv.IMEncode(gocv.PNGFileExt, processed)
	if err != nil {
		return "", fmt.Errorf("encode image: %w", err)
	}
	defer buf.Close()

	if err := e.client.SetImageFromBytes(buf.GetBytes()); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	text, err := e.client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}
	text = normalize(text)
	e.log.Debug().Int("width", src.Cols()).Int("height", src.Rows()).Int("chars", len(text)).Msg("recognized")
	return text, nil
}

// prepare upscales small regions and, when binarize is set, converts to a
// dark-on-light Otsu threshold image.
func prepare(src gocv.Mat, binarize bool) gocv.Mat {
	h, w := src.Rows(), src.Cols()

	var scaled gocv.Mat
	if minDim := min(h, w); minDim < minTextHeight {
		scale := float64(minTextHeight) / float64(minDim)
		scaled = gocv.NewMat()
		gocv.Resize(src, &scaled, image.Point{}, scale, scale, gocv.InterpolationCubic)
	} else {
		scaled = src.Clone()
	}

	if !binarize {
		result := gocv.NewMat()
		gocv.CvtColor(scaled, &result, gocv.ColorBGRToRGB)
		scaled.Close()
		return result
	}

	gray := gocv.NewMat()
	gocv.CvtColor(scaled, &gray, gocv.ColorBGRToGray)
	scaled.Close()

	clahe := gocv.NewCLAHEWithParams(2.0, image.Point{X: 8, Y: 8})
	defer clahe.Close()
	enhanced := gocv.NewMat()
	clahe.Apply(gray, &enhanced)
	gray.Close()

	binary := gocv.NewMat()
	gocv.Threshold(enhanced, &binary, 0, 255, gocv.ThresholdBinary|gocv.ThresholdOtsu)
	enhanced.Close()

	// Tesseract expects dark text on a light background; dark themes
	// binarize the other way round.
	white := gocv.CountNonZero(binary)
	if float64(white)/float64(binary.Rows()*binary.Cols()) < 0.5 {
		gocv.BitwiseNot(binary, &binary)
	}

	result := gocv.NewMat()
	gocv.CvtColor(binary, &result, gocv.ColorGrayToBGR)
	binary.Close()
	return result
}

// normalize collapses runs of blanks inside each line and drops empty lines.
func normalize(text string) string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
