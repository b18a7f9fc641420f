package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/izzyreal/owltest/internal/protocol"
)

func TestCompatible(t *testing.T) {
	cases := []struct {
		name    string
		info    protocol.ServerInfoResponse
		client  string
		wantErr bool
	}{
		{"same major", protocol.ServerInfoResponse{APIVersion: 1, Version: "v1.4.0"}, "v1.2.3", false},
		{"no v prefix", protocol.ServerInfoResponse{APIVersion: 1, Version: "1.0.0"}, "v1.9.0", false},
		{"dev server", protocol.ServerInfoResponse{APIVersion: 1, Version: "dev"}, "v2.0.0", false},
		{"dev client", protocol.ServerInfoResponse{APIVersion: 1, Version: "v3.0.0"}, "dev", false},
		{"major mismatch", protocol.ServerInfoResponse{APIVersion: 1, Version: "v2.0.0"}, "v1.0.0", true},
		{"api mismatch", protocol.ServerInfoResponse{APIVersion: 2, Version: "v1.0.0"}, "v1.0.0", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Compatible(tc.info, tc.client)
			if (err != nil) != tc.wantErr {
				t.Fatalf("Compatible() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestPutResultAndServerInfo(t *testing.T) {
	var gotPath string
	var gotBody protocol.ResultSet
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/v1/server-info":
			_ = json.NewEncoder(w).Encode(protocol.ServerInfoResponse{Name: "owltest", APIVersion: protocol.APIVersion, Version: "dev"})
		case r.Method == http.MethodPut:
			gotPath = r.URL.Path
			if ct := r.Header.Get("Content-Type"); ct != "application/json" {
				t.Errorf("content type: %q", ct)
			}
			if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
				t.Errorf("decode: %v", err)
			}
			_ = json.NewEncoder(w).Encode(protocol.ResultResponse{Result: protocol.ResultRecord{ID: "run 1", Status: protocol.ResultStatusComplete}})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := New(srv.URL+"/", srv.Client())
	info, err := c.CheckCompatible(context.Background())
	if err != nil {
		t.Fatalf("CheckCompatible: %v", err)
	}
	if info.Name != "owltest" {
		t.Fatalf("info: %+v", info)
	}

	rec, err := c.PutResult(context.Background(), "run 1", protocol.ResultSet{Score: protocol.Float(3), MaxScore: protocol.Float(4)})
	if err != nil {
		t.Fatalf("PutResult: %v", err)
	}
	if rec.Status != protocol.ResultStatusComplete {
		t.Fatalf("record: %+v", rec)
	}
	if gotPath != "/api/v1/results/run 1" {
		t.Fatalf("path: %q", gotPath)
	}
	if gotBody.Score == nil || *gotBody.Score != 3 {
		t.Fatalf("body: %+v", gotBody)
	}

	if _, err := c.PutResult(context.Background(), " ", protocol.ResultSet{}); err == nil {
		t.Fatal("expected error for empty id")
	}
}

func TestRejectedRequestIncludesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "result not found", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := New(srv.URL, nil).GetResult(context.Background(), "missing")
	if err == nil || !strings.Contains(err.Error(), "status=404") || !strings.Contains(err.Error(), "result not found") {
		t.Fatalf("unexpected error: %v", err)
	}
}
