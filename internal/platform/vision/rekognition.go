// Package vision detects image labels with AWS Rekognition.
package vision

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
)

const (
	maxLabels     = 10
	minConfidence = 85
	// foodParent is the Rekognition taxonomy category a label must descend
	// from to count as food.
	foodParent = "Food"
)

// Client wraps the Rekognition label-detection API.
type Client struct {
	rek *rekognition.Client
}

// NewClient loads the default AWS credential chain for the given region.
func NewClient(ctx context.Context, region string) (*Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return &Client{rek: rekognition.NewFromConfig(cfg)}, nil
}

// FoodLabels detects up to 10 labels with at least 85% confidence and
// returns the names of those whose taxonomy parents include Food.
func (c *Client) FoodLabels(ctx context.Context, image []byte) ([]string, error) {
	out, err := c.rek.DetectLabels(ctx, &rekognition.DetectLabelsInput{
		Image:         &types.Image{Bytes: image},
		MaxLabels:     aws.Int32(maxLabels),
		MinConfidence: aws.Float32(minConfidence),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to detect labels: %w", err)
	}

	labels := []string{}
	for _, l := range out.Labels {
		for _, parent := range l.Parents {
			if aws.ToString(parent.Name) == foodParent {
				labels = append(labels, aws.ToString(l.Name))
				break
			}
		}
	}
	return labels, nil
}
