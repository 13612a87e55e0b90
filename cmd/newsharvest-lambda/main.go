// Command newsharvest-lambda runs the sitemap scraper as an AWS Lambda
// function, uploading a CSV summary blob and per-article text blobs to
// S3-compatible object storage. Logs go to stdout for CloudWatch.
package main

import (
	"log"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/epark/newsharvest/article"
	"github.com/epark/newsharvest/config"
	"github.com/epark/newsharvest/sink"
	"github.com/epark/newsharvest/sitemap"
)

func main() {
	endpoint := config.GetEnv("S3_ENDPOINT", "s3.amazonaws.com")
	useSSL := config.GetEnvBool("S3_USE_SSL", true)

	// Lambda execution roles surface credentials through the standard AWS
	// environment variables.
	uploader, err := sink.NewMinioUploaderFromEnvironment(endpoint, useSSL)
	if err != nil {
		log.Fatalf("Failed to create object storage client: %v", err)
	}

	handler := NewHandler(
		sitemap.NewFetcher(),
		article.NewExtractor(),
		uploader,
		config.GetEnv("SITEMAP_URL", ""),
		config.GetEnv("S3_PREFIX_ROOT", ""),
	)

	lambda.Start(handler.Handle)
}
