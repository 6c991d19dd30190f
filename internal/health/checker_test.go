package health

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type mockS3Client struct {
	err   error
	calls int
}

func (m *mockS3Client) HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return &s3.HeadBucketOutput{}, nil
}

type mockDynamoDBClient struct {
	err   error
	calls int
}

func (m *mockDynamoDBClient) DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return &dynamodb.DescribeTableOutput{}, nil
}

func testChecker(s3Client S3Client, ddbClient DynamoDBClient) *Checker {
	cfg := DefaultConfig("coverframe-test", slog.New(slog.NewTextHandler(io.Discard, nil)))
	if s3Client != nil {
		cfg.S3Client = s3Client
		cfg.S3Bucket = "test-bucket"
	}
	if ddbClient != nil {
		cfg.DynamoDBClient = ddbClient
		cfg.DynamoDBTable = "test-table"
	}
	return NewChecker(cfg)
}

func TestCheck_Shallow(t *testing.T) {
	s3Mock := &mockS3Client{}
	ddbMock := &mockDynamoDBClient{}
	checker := testChecker(s3Mock, ddbMock)

	status := checker.Check(context.Background(), false)
	if status.Status != "healthy" {
		t.Errorf("status = %q, want healthy", status.Status)
	}
	if len(status.Checks) != 0 {
		t.Errorf("shallow check ran %d component checks, want 0", len(status.Checks))
	}
	if s3Mock.calls != 0 || ddbMock.calls != 0 {
		t.Error("shallow check must not call backends")
	}
}

func TestCheck_Deep(t *testing.T) {
	s3Mock := &mockS3Client{}
	ddbMock := &mockDynamoDBClient{}
	checker := testChecker(s3Mock, ddbMock)

	status := checker.Check(context.Background(), true)
	if status.Status != "healthy" {
		t.Errorf("status = %q, want healthy", status.Status)
	}
	if _, ok := status.Checks["s3"]; !ok {
		t.Error("deep check missing s3 component")
	}
	if _, ok := status.Checks["dynamodb"]; !ok {
		t.Error("deep check missing dynamodb component")
	}
	if s3Mock.calls != 1 || ddbMock.calls != 1 {
		t.Errorf("backend calls = s3:%d ddb:%d, want 1 each", s3Mock.calls, ddbMock.calls)
	}
}

func TestCheck_Degraded(t *testing.T) {
	tests := []struct {
		name   string
		s3Err  error
		ddbErr error
	}{
		{"s3 down", errors.New("bucket unreachable"), nil},
		{"dynamodb down", nil, errors.New("table unreachable")},
		{"both down", errors.New("s3 down"), errors.New("ddb down")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := testChecker(&mockS3Client{err: tt.s3Err}, &mockDynamoDBClient{err: tt.ddbErr})

			status := checker.Check(context.Background(), true)
			if status.Status != "degraded" {
				t.Errorf("status = %q, want degraded", status.Status)
			}

			if tt.s3Err != nil {
				if status.Checks["s3"].Status != "unhealthy" {
					t.Errorf("s3 status = %q, want unhealthy", status.Checks["s3"].Status)
				}
				if status.Checks["s3"].Error == "" {
					t.Error("s3 check should carry the error message")
				}
			}
			if tt.ddbErr != nil && status.Checks["dynamodb"].Status != "unhealthy" {
				t.Errorf("dynamodb status = %q, want unhealthy", status.Checks["dynamodb"].Status)
			}
		})
	}
}

func TestCheck_NoClientsConfigured(t *testing.T) {
	checker := testChecker(nil, nil)

	status := checker.Check(context.Background(), true)
	if status.Status != "healthy" {
		t.Errorf("status = %q, want healthy with no backends configured", status.Status)
	}
	if len(status.Checks) != 0 {
		t.Errorf("checks = %v, want none", status.Checks)
	}
}

func TestCheck_Caching(t *testing.T) {
	s3Mock := &mockS3Client{}
	checker := testChecker(s3Mock, nil)

	first := checker.Check(context.Background(), true)
	second := checker.Check(context.Background(), false)

	if first != second {
		t.Error("shallow check within the cache TTL should return the cached status")
	}
	if s3Mock.calls != 1 {
		t.Errorf("backend calls = %d, want 1 (cached)", s3Mock.calls)
	}
}

func TestHandler(t *testing.T) {
	checker := testChecker(&mockS3Client{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	checker.Handler()(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}

	var status Status
	if err := json.NewDecoder(w.Body).Decode(&status); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if status.Status != "healthy" {
		t.Errorf("status = %q, want healthy", status.Status)
	}
	if status.Service != "coverframe-test" {
		t.Errorf("service = %q, want coverframe-test", status.Service)
	}
}

func TestDeepHandler(t *testing.T) {
	checker := testChecker(&mockS3Client{err: errors.New("down")}, nil)

	req := httptest.NewRequest(http.MethodGet, "/health/deep", nil)
	w := httptest.NewRecorder()
	checker.DeepHandler()(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503 when degraded", w.Code)
	}
}

func TestDeepHandler_RateLimited(t *testing.T) {
	checker := testChecker(&mockS3Client{}, nil)
	checker.config.DeepCheckLimit = time.Hour

	first := httptest.NewRecorder()
	checker.DeepHandler()(first, httptest.NewRequest(http.MethodGet, "/health/deep", nil))
	if first.Code != http.StatusOK {
		t.Fatalf("first deep check status = %d, want 200", first.Code)
	}

	second := httptest.NewRecorder()
	checker.DeepHandler()(second, httptest.NewRequest(http.MethodGet, "/health/deep", nil))
	if second.Code != http.StatusTooManyRequests {
		t.Errorf("second deep check status = %d, want 429", second.Code)
	}
	if retry := second.Header().Get("Retry-After"); retry != "10" {
		t.Errorf("Retry-After = %q, want 10", retry)
	}

	var status Status
	if err := json.NewDecoder(second.Body).Decode(&status); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if _, ok := status.Checks["rate_limited"]; !ok {
		t.Error("rate limited response should carry the rate_limited component")
	}
}
