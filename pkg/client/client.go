// Package client provides a typed client for the catalog API, for Go side
// presentation layers and integration tests.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/angsant/trabalho-2-bd-2/pkg/records"
)

const TraceAttributeFranchiseID string = "franchise-id"

var tracer = otel.Tracer("catalog-client")

// FranchisesResult is the decoded franchise list response.
type FranchisesResult struct {
	Franchises records.Table `json:"franchises"`
	Message    string        `json:"message,omitempty"`
}

// DatasetsResult is the decoded dataset response. A non empty Message means
// the load degraded to empty tables on the server.
type DatasetsResult struct {
	Organizations records.Table `json:"organizations"`
	Individuals   records.Table `json:"individuals"`
	Vehicles      records.Table `json:"vehicles"`
	Message       string        `json:"message,omitempty"`
}

func (r DatasetsResult) Degraded() bool {
	return r.Message != ""
}

type CatalogClient interface {
	ListFranchises(ctx context.Context) (*FranchisesResult, error)
	LoadFranchise(ctx context.Context, franchiseID string) (*DatasetsResult, error)
	LoadAll(ctx context.Context) (*DatasetsResult, error)
}

func NewCatalogClient(baseURL string, options ...func(*catalogClient)) CatalogClient {
	c := &catalogClient{
		baseURL: baseURL,
		httpClient: http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}

	for _, option := range options {
		option(c)
	}

	return c
}

type catalogClient struct {
	baseURL    string
	httpClient http.Client
}

func (c catalogClient) ListFranchises(ctx context.Context) (*FranchisesResult, error) {
	var err error

	ctx, span := tracer.Start(ctx, "list-franchises")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	result := &FranchisesResult{}
	err = c.get(ctx, c.baseURL+"/api/v1/franchises", result)
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (c catalogClient) LoadFranchise(ctx context.Context, franchiseID string) (*DatasetsResult, error) {
	var err error

	ctx, span := tracer.Start(ctx, "load-franchise",
		trace.WithAttributes(attribute.String(TraceAttributeFranchiseID, franchiseID)),
	)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	result := &DatasetsResult{}
	err = c.get(ctx, c.baseURL+"/api/v1/franchises/"+url.PathEscape(franchiseID)+"/datasets", result)
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (c catalogClient) LoadAll(ctx context.Context) (*DatasetsResult, error) {
	var err error

	ctx, span := tracer.Start(ctx, "load-all")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	result := &DatasetsResult{}
	err = c.get(ctx, c.baseURL+"/api/v1/datasets", result)
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (c catalogClient) get(ctx context.Context, requestURL string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach catalog api: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected response code %d from catalog api", resp.StatusCode)
	}

	err = json.Unmarshal(body, result)
	if err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
