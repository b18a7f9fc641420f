// Package client talks to an owltest server's HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/mod/semver"

	"github.com/izzyreal/owltest/internal/protocol"
	"github.com/izzyreal/owltest/internal/version"
)

const defaultTimeout = 30 * time.Second

type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a client for the server at baseURL. A nil httpClient gets a
// client with a default timeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"), http: httpClient}
}

func (c *Client) ServerInfo(ctx context.Context) (protocol.ServerInfoResponse, error) {
	var info protocol.ServerInfoResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/server-info", nil, &info); err != nil {
		return protocol.ServerInfoResponse{}, fmt.Errorf("server info: %w", err)
	}
	return info, nil
}

// CheckCompatible fails when the server speaks another API version, or when
// both sides report release versions with different major versions.
func (c *Client) CheckCompatible(ctx context.Context) (protocol.ServerInfoResponse, error) {
	info, err := c.ServerInfo(ctx)
	if err != nil {
		return info, err
	}
	if err := Compatible(info, version.Current()); err != nil {
		return info, err
	}
	return info, nil
}

func Compatible(info protocol.ServerInfoResponse, clientVersion string) error {
	if info.APIVersion != protocol.APIVersion {
		return fmt.Errorf("server api version %d is not supported (client speaks %d)", info.APIVersion, protocol.APIVersion)
	}
	sv, sok := normalizeSemver(info.Version)
	cv, cok := normalizeSemver(clientVersion)
	if !sok || !cok {
		return nil
	}
	if semver.Major(sv) != semver.Major(cv) {
		return fmt.Errorf("server version %s is incompatible with client version %s", info.Version, clientVersion)
	}
	return nil
}

func normalizeSemver(v string) (string, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", false
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return "", false
	}
	return v, true
}

// PutResult creates or replaces the result stored under id.
func (c *Client) PutResult(ctx context.Context, id string, rs protocol.ResultSet) (protocol.ResultRecord, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return protocol.ResultRecord{}, fmt.Errorf("result id is required")
	}
	var resp protocol.ResultResponse
	if err := c.do(ctx, http.MethodPut, "/api/v1/results/"+url.PathEscape(id), rs, &resp); err != nil {
		return protocol.ResultRecord{}, fmt.Errorf("upload result: %w", err)
	}
	slog.Info("result uploaded", "id", resp.Result.ID, "status", resp.Result.Status)
	return resp.Result, nil
}

func (c *Client) GetResult(ctx context.Context, id string) (protocol.ResultRecord, error) {
	var resp protocol.ResultResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/results/"+url.PathEscape(strings.TrimSpace(id)), nil, &resp); err != nil {
		return protocol.ResultRecord{}, fmt.Errorf("get result: %w", err)
	}
	return resp.Result, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4*1024))
		return fmt.Errorf("request rejected: status=%d body=%s", resp.StatusCode, bytes.TrimSpace(respBody))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
