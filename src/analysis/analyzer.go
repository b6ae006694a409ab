package analysis

import (
	"context"
	"fmt"
	"io"
	"os"

	"cloud.google.com/go/storage"
	vision "cloud.google.com/go/vision/v2/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"github.com/sirupsen/logrus"
)

var log = &logrus.Logger{
	Out:       os.Stderr,
	Formatter: &logrus.TextFormatter{FullTimestamp: true},
	Hooks:     make(logrus.LevelHooks),
	Level:     logrus.InfoLevel,
}

const maxLabels = 10

// ColorInfo is one dominant color with its share of the image.
type ColorInfo struct {
	Red   float32 `json:"red"`
	Green float32 `json:"green"`
	Blue  float32 `json:"blue"`
	Score float32 `json:"score"`
}

// Result is the combined outcome of one image analysis pass.
type Result struct {
	ImageURI       string      `json:"image_uri"`
	Labels         []string    `json:"labels"`
	DominantColors []ColorInfo `json:"dominant_colors"`
	// Brightness ranges 0 (dark) to 255 (bright).
	Brightness float64 `json:"brightness"`
}

// Analyzer combines Vision API annotations with a pixel-level brightness pass
// over the object downloaded from Cloud Storage.
type Analyzer struct {
	vision  *vision.ImageAnnotatorClient
	storage *storage.Client
}

// NewAnalyzer builds the Vision and Storage clients.
func NewAnalyzer(ctx context.Context) (*Analyzer, error) {
	visionClient, err := vision.NewImageAnnotatorClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create vision client: %w", err)
	}
	storageClient, err := storage.NewClient(ctx)
	if err != nil {
		visionClient.Close()
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &Analyzer{vision: visionClient, storage: storageClient}, nil
}

// annotateRequest asks for labels and dominant colors of one stored object.
func annotateRequest(imageURI string) *visionpb.BatchAnnotateImagesRequest {
	return &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{{
			Image: &visionpb.Image{
				Source: &visionpb.ImageSource{ImageUri: imageURI},
			},
			Features: []*visionpb.Feature{
				{Type: visionpb.Feature_LABEL_DETECTION, MaxResults: maxLabels},
				{Type: visionpb.Feature_IMAGE_PROPERTIES},
			},
		}},
	}
}

// parseAnnotations extracts labels and dominant colors from one annotation
// response. A per-image error status fails the whole pass.
func parseAnnotations(imageURI string, resp *visionpb.AnnotateImageResponse) (labels []string, colors []ColorInfo, err error) {
	if resp == nil {
		return nil, nil, fmt.Errorf("no annotation response for %s", imageURI)
	}
	if st := resp.GetError(); st != nil {
		return nil, nil, fmt.Errorf("annotate %s: %s", imageURI, st.GetMessage())
	}
	for _, label := range resp.GetLabelAnnotations() {
		labels = append(labels, label.GetDescription())
	}
	if dominant := resp.GetImagePropertiesAnnotation().GetDominantColors(); dominant != nil {
		for _, info := range dominant.GetColors() {
			c := info.GetColor()
			colors = append(colors, ColorInfo{
				Red:   c.GetRed(),
				Green: c.GetGreen(),
				Blue:  c.GetBlue(),
				Score: info.GetScore(),
			})
		}
	}
	return labels, colors, nil
}

// AnalyzeObject runs label detection, dominant-color extraction and the
// brightness computation for one uploaded object.
func (a *Analyzer) AnalyzeObject(ctx context.Context, bucket, name string) (Result, error) {
	imageURI := fmt.Sprintf("gs://%s/%s", bucket, name)
	result := Result{ImageURI: imageURI}

	resp, err := a.vision.BatchAnnotateImages(ctx, annotateRequest(imageURI))
	if err != nil {
		return Result{}, fmt.Errorf("annotate %s: %w", imageURI, err)
	}
	responses := resp.GetResponses()
	if len(responses) == 0 {
		return Result{}, fmt.Errorf("no annotation response for %s", imageURI)
	}
	result.Labels, result.DominantColors, err = parseAnnotations(imageURI, responses[0])
	if err != nil {
		return Result{}, err
	}

	data, err := a.download(ctx, bucket, name)
	if err != nil {
		return Result{}, err
	}
	brightness, err := Brightness(data)
	if err != nil {
		return Result{}, fmt.Errorf("brightness for %s: %w", imageURI, err)
	}
	result.Brightness = brightness

	log.WithFields(logrus.Fields{
		"image":      imageURI,
		"labels":     len(result.Labels),
		"colors":     len(result.DominantColors),
		"brightness": fmt.Sprintf("%.1f", result.Brightness),
	}).Info("analysis: image analyzed")
	return result, nil
}

func (a *Analyzer) download(ctx context.Context, bucket, name string) ([]byte, error) {
	rc, err := a.storage.Bucket(bucket).Object(name).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("open gs://%s/%s: %w", bucket, name, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("download gs://%s/%s: %w", bucket, name, err)
	}
	return data, nil
}

// Close releases both clients.
func (a *Analyzer) Close() error {
	verr := a.vision.Close()
	serr := a.storage.Close()
	if verr != nil {
		return verr
	}
	return serr
}
