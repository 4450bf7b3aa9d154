package cloud

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/rs/zerolog/log"
)

// SNSClient publishes optimizer notifications.
type SNSClient struct {
	svc      *sns.Client
	topicArn string
}

func NewSNSClient(ctx context.Context, region, topicArn string) (*SNSClient, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}

	return &SNSClient{
		svc:      sns.NewFromConfig(cfg),
		topicArn: topicArn,
	}, nil
}

func (c *SNSClient) Publish(ctx context.Context, subject, message string) error {
	result, err := c.svc.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(c.topicArn),
		Subject:  aws.String(subject),
		Message:  aws.String(message),
	})
	if err != nil {
		return fmt.Errorf("failed to publish to SNS: %w", err)
	}

	log.Info().Str("message_id", aws.ToString(result.MessageId)).Msg("notification sent")
	return nil
}

// SavingsSummary is the body of the notification sent after an optimizer run.
func SavingsSummary(date string, totalSavings float64, solarHours int, reportURL string) (subject, message string) {
	subject = fmt.Sprintf("Luminous: schedule for %s saves %.2f INR", date, totalSavings)

	var b strings.Builder
	fmt.Fprintf(&b, "Optimized appliance schedule\n\n")
	fmt.Fprintf(&b, "Date: %s\n", date)
	fmt.Fprintf(&b, "Total savings: %.2f INR\n", totalSavings)
	fmt.Fprintf(&b, "Hours on solar: %d of 24\n", solarHours)
	if reportURL != "" {
		fmt.Fprintf(&b, "Report: %s\n", reportURL)
	}
	return subject, b.String()
}
