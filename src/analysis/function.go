package analysis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	"github.com/cloudevents/sdk-go/v2/event"
)

func init() {
	functions.CloudEvent("AnalyzeImageProperties", AnalyzeImageProperties)
}

// StorageObjectData is the payload of a storage object-finalize CloudEvent.
type StorageObjectData struct {
	Bucket      string `json:"bucket"`
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
	Size        string `json:"size"`
}

// AnalyzeImageProperties handles one object-finalize event: it annotates the
// uploaded image with the Vision API, computes its brightness and logs the
// combined result.
func AnalyzeImageProperties(ctx context.Context, e event.Event) error {
	var data StorageObjectData
	if err := e.DataAs(&data); err != nil {
		return fmt.Errorf("decode storage event %s: %w", e.ID(), err)
	}
	if data.Bucket == "" || data.Name == "" {
		return fmt.Errorf("storage event %s missing bucket or object name", e.ID())
	}

	analyzer, err := NewAnalyzer(ctx)
	if err != nil {
		return err
	}
	defer analyzer.Close()

	result, err := analyzer.AnalyzeObject(ctx, data.Bucket, data.Name)
	if err != nil {
		return err
	}

	encoded, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode analysis result: %w", err)
	}
	log.Infof("analysis: result %s", encoded)
	return nil
}
