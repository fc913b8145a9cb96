package tracking

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"
)

// Artifact describes a named, typed artifact to be registered against a
// run.
type Artifact struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

// Manifest is the tracking service's description of a stored artifact
// version and its backing files.
type Manifest struct {
	Name        string         `json:"name"`
	Version     string         `json:"version"`
	Type        string         `json:"type"`
	Description string         `json:"description,omitempty"`
	Files       []ManifestFile `json:"files"`
}

// ManifestFile is one backing file of an artifact.
type ManifestFile struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Size int64  `json:"size,omitempty"`
}

// UseArtifact resolves the fully-qualified artifact name against the
// tracking service, downloads every backing file into a run-scoped staging
// directory, and returns the local path of the primary (first) file.
func (r *Run) UseArtifact(ctx context.Context, name string) (string, error) {
	manifest, err := r.fetchManifest(ctx, name)
	if err != nil {
		return "", err
	}
	if len(manifest.Files) == 0 {
		return "", &ManifestError{Artifact: name, Message: "manifest lists no files"}
	}

	stagingDir := filepath.Join(os.TempDir(), "rental-pipeline", r.ID.String())
	if err := os.MkdirAll(stagingDir, 0o755); err != nil {
		return "", &LocalFileError{Path: stagingDir, Cause: err}
	}

	// Backing files are independent; materialize them concurrently.
	g, gCtx := errgroup.WithContext(ctx)
	for _, file := range manifest.Files {
		file := file
		g.Go(func() error {
			return r.downloadFile(gCtx, file, stagingDir)
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	return filepath.Join(stagingDir, manifest.Files[0].Name), nil
}

func (r *Run) fetchManifest(ctx context.Context, name string) (*Manifest, error) {
	path := "/api/v1/artifacts/" + url.PathEscape(name)
	req, err := r.client.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	resp, err := r.client.httpClient.Do(req)
	if err != nil {
		return nil, &ServiceError{Op: "fetch artifact", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, &NotFoundError{Artifact: name}
	}
	if err := r.client.checkStatus("fetch artifact", resp.StatusCode, http.StatusOK); err != nil {
		return nil, err
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ServiceError{Op: "fetch artifact", Cause: err}
	}
	if err := validateManifest(raw); err != nil {
		return nil, &ManifestError{Artifact: name, Message: "schema validation failed", Cause: err}
	}

	var manifest Manifest
	if err := json.Unmarshal(raw, &manifest); err != nil {
		return nil, &ManifestError{Artifact: name, Message: "undecodable manifest", Cause: err}
	}
	return &manifest, nil
}

func (r *Run) downloadFile(ctx context.Context, file ManifestFile, stagingDir string) error {
	fileURL := file.URL
	if parsed, err := url.Parse(fileURL); err == nil && !parsed.IsAbs() {
		fileURL = r.client.baseURL + fileURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create download request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+r.client.apiKey)

	resp, err := r.client.httpClient.Do(req)
	if err != nil {
		return &ServiceError{Op: "download " + file.Name, Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if err := r.client.checkStatus("download "+file.Name, resp.StatusCode, http.StatusOK); err != nil {
		return err
	}

	localPath := filepath.Join(stagingDir, file.Name)
	out, err := os.Create(localPath)
	if err != nil {
		return &LocalFileError{Path: localPath, Cause: err}
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		_ = out.Close()
		return &LocalFileError{Path: localPath, Cause: err}
	}
	return out.Close()
}

// LogArtifact registers a new artifact against the run, uploading the
// local file as its content. The file is checked before any network call
// so a missing file never creates a half-registered artifact.
func (r *Run) LogArtifact(ctx context.Context, artifact Artifact, filePath string) error {
	file, err := os.Open(filePath)
	if err != nil {
		return &LocalFileError{Path: filePath, Cause: err}
	}
	defer func() { _ = file.Close() }()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for field, value := range map[string]string{
		"name":        artifact.Name,
		"type":        artifact.Type,
		"description": artifact.Description,
	} {
		if err := writer.WriteField(field, value); err != nil {
			return fmt.Errorf("failed to encode artifact metadata: %w", err)
		}
	}
	part, err := writer.CreateFormFile("file", filepath.Base(filePath))
	if err != nil {
		return fmt.Errorf("failed to create upload part: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return &LocalFileError{Path: filePath, Cause: err}
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize upload body: %w", err)
	}

	path := fmt.Sprintf("/api/v1/runs/%s/artifacts", r.ID)
	req, err := r.client.newRequest(ctx, http.MethodPost, path, bytes.NewReader(body.Bytes()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := r.client.httpClient.Do(req)
	if err != nil {
		return &ServiceError{Op: "log artifact", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	return r.client.checkStatus("log artifact", resp.StatusCode, http.StatusCreated, http.StatusOK)
}
