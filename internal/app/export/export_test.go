package export_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/dalemusser/ecomap/internal/app/export"
	"github.com/dalemusser/ecomap/internal/domain/models"
	"github.com/dalemusser/ecomap/internal/testutil"
	"go.uber.org/zap"
)

type listerFunc func(ctx context.Context) ([]models.Organization, error)

func (f listerFunc) List(ctx context.Context) ([]models.Organization, error) { return f(ctx) }

func sample() export.Lister {
	return listerFunc(func(context.Context) ([]models.Organization, error) {
		return testutil.SampleWithIDs(), nil
	})
}

// mockS3 records PUTs made against a path-style endpoint.
type mockS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
}

func (m *mockS3) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Method != http.MethodPut {
		return &http.Response{StatusCode: 501, Body: io.NopCloser(bytes.NewReader(nil)), Header: http.Header{}}, nil
	}
	body, _ := io.ReadAll(req.Body)
	if dec, ok := decodeChunked(body); ok {
		body = dec
	}
	m.mu.Lock()
	m.objects[strings.TrimPrefix(req.URL.Path, "/")] = body
	m.types[strings.TrimPrefix(req.URL.Path, "/")] = req.Header.Get("Content-Type")
	m.mu.Unlock()
	return &http.Response{StatusCode: 200, Body: io.NopCloser(bytes.NewReader(nil)), Header: http.Header{"ETag": {"\"etag\""}}}, nil
}

func decodeChunked(b []byte) ([]byte, bool) {
	parts := strings.Split(string(b), "\r\n")
	if len(parts) < 3 {
		return nil, false
	}
	n, err := strconv.ParseInt(parts[0], 16, 64)
	if err != nil || n <= 0 || int64(len(parts[1])) != n || parts[2] != "0" {
		return nil, false
	}
	return []byte(parts[1]), true
}

func newMockUploader(t *testing.T) (*export.Uploader, *mockS3) {
	t.Helper()
	m := &mockS3{objects: map[string][]byte{}, types: map[string]string{}}
	u, err := export.NewUploader(context.Background(), export.S3Config{
		Region:          "us-east-1",
		Endpoint:        "https://mock.s3.local",
		PathStyle:       true,
		AccessKeyID:     "AKIA",
		SecretAccessKey: "SECRET",
		HTTPClient:      &http.Client{Transport: m},
	})
	if err != nil {
		t.Fatalf("NewUploader: %v", err)
	}
	return u, m
}

func readCSV(t *testing.T, b []byte) [][]string {
	t.Helper()
	rows, err := csv.NewReader(bytes.NewReader(b)).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	return rows
}

func TestWriteCSV_HeaderAndRows(t *testing.T) {
	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, testutil.SampleWithIDs()); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	rows := readCSV(t, buf.Bytes())
	if len(rows) != 6 {
		t.Fatalf("rows = %d, want 6", len(rows))
	}
	if strings.Join(rows[0], ",") != strings.Join(export.Columns, ",") {
		t.Errorf("header = %v", rows[0])
	}
	first := rows[1]
	if first[0] != "Mutual Aid LA Network (MALAN)" || first[7] != "Regional" || first[9] != "34.0522" {
		t.Errorf("first row = %v", first)
	}
}

func TestWriteCSV_MissingCoordinatesAreBlank(t *testing.T) {
	var buf bytes.Buffer
	org := models.Organization{Organization: "No Geo", Location: "Somewhere", Scope: models.ScopeLocal}
	if err := export.WriteCSV(&buf, []models.Organization{org}); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	rows := readCSV(t, buf.Bytes())
	if rows[1][9] != "" || rows[1][10] != "" {
		t.Errorf("coordinates = %q,%q; want blank", rows[1][9], rows[1][10])
	}
}

func TestParseDestination(t *testing.T) {
	cases := []struct {
		in      string
		want    export.Destination
		wantErr bool
	}{
		{"out/orgs.csv", export.Destination{Path: "out/orgs.csv"}, false},
		{"-", export.Destination{Path: "-"}, false},
		{"s3://eco-exports/daily/orgs.csv", export.Destination{Bucket: "eco-exports", Key: "daily/orgs.csv"}, false},
		{"s3://eco-exports", export.Destination{}, true},
		{"s3://eco-exports/dir/", export.Destination{}, true},
		{"  ", export.Destination{}, true},
	}
	for _, tc := range cases {
		got, err := export.ParseDestination(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseDestination(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseDestination(%q) = %+v, want %+v", tc.in, got, tc.want)
		}
	}
}

func TestExporter_LocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exports", "orgs.csv")
	e := &export.Exporter{Store: sample(), Log: zap.NewNop()}

	n, err := e.Run(context.Background(), export.Destination{Path: path})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if n != 5 {
		t.Errorf("n = %d, want 5", n)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if rows := readCSV(t, b); len(rows) != 6 {
		t.Errorf("rows = %d, want 6", len(rows))
	}
}

func TestExporter_Stdout(t *testing.T) {
	var out bytes.Buffer
	e := &export.Exporter{Store: sample(), Stdout: &out}
	if _, err := e.Run(context.Background(), export.Destination{Path: "-"}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.HasPrefix(out.String(), "organization,website,location") {
		t.Errorf("stdout = %q", out.String())
	}
}

func TestExporter_S3(t *testing.T) {
	u, m := newMockUploader(t)
	e := &export.Exporter{Store: sample(), Uploader: u, Log: zap.NewNop()}

	dest, err := export.ParseDestination("s3://eco-exports/daily/orgs.csv")
	if err != nil {
		t.Fatalf("ParseDestination: %v", err)
	}
	if _, err := e.Run(context.Background(), dest); err != nil {
		t.Fatalf("Run: %v", err)
	}

	body, ok := m.objects["eco-exports/daily/orgs.csv"]
	if !ok {
		t.Fatalf("object not uploaded; have %v", m.objects)
	}
	if rows := readCSV(t, body); len(rows) != 6 {
		t.Errorf("rows = %d, want 6", len(rows))
	}
	if ct := m.types["eco-exports/daily/orgs.csv"]; !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestExporter_S3WithoutUploader(t *testing.T) {
	e := &export.Exporter{Store: sample()}
	if _, err := e.Run(context.Background(), export.Destination{Bucket: "b", Key: "k.csv"}); err == nil {
		t.Fatal("expected error without uploader")
	}
}

func TestExporter_StoreError(t *testing.T) {
	boom := errors.New("connection refused")
	e := &export.Exporter{Store: listerFunc(func(context.Context) ([]models.Organization, error) { return nil, boom })}
	if _, err := e.Run(context.Background(), export.Destination{Path: "-"}); !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped %v", err, boom)
	}
}
