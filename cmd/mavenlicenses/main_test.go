package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/acheong08/mavenlicenses/internal/audit"
	"github.com/acheong08/mavenlicenses/pkg/models"
)

func TestRunUsage(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantErr  string
	}{
		{name: "no arguments", args: nil, wantCode: exitUsage, wantErr: "expected 2 arguments, got 0"},
		{name: "one argument", args: []string{"/repo"}, wantCode: exitUsage, wantErr: "expected 2 arguments, got 1"},
		{name: "unknown flag", args: []string{"-nope", "/repo", "out"}, wantCode: exitUsage, wantErr: "flag provided but not defined"},
		{name: "help", args: []string{"-h"}, wantCode: exitOK},
		{
			name:     "missing config file",
			args:     []string{"-config", filepath.Join(t.TempDir(), "absent.yaml"), "/repo", "out"},
			wantCode: exitFailure,
			wantErr:  "Error loading config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := run(context.Background(), tt.args, &stdout, &stderr)

			assert.Equal(t, tt.wantCode, code)
			if tt.wantErr != "" {
				assert.Contains(t, stderr.String(), tt.wantErr)
			}
			if tt.wantCode == exitOK {
				assert.Contains(t, stdout.String(), "Usage:")
			}
		})
	}
}

func TestPrintFindings(t *testing.T) {
	var buf bytes.Buffer
	printFindings(&buf, audit.Findings{
		BrokenLicenses:  []models.License{{Name: "MIT", PrimaryLink: "http://x/mit", PrimaryLinkType: models.ShowLinkOnly}},
		WithoutLicenses: []models.DependencyRecord{{Index: 3, ArtifactName: "g:a:1.0"}},
	})

	out := buf.String()
	assert.Contains(t, out, "Please provide the details of the following licenses manually:\n   - MIT (http://x/mit) primary=SHOW_LINK_ONLY")
	assert.Contains(t, out, "Please provide the license links for the following dependencies manually:\n   - 3 g:a:1.0\n")
}

func TestResolvePath(t *testing.T) {
	assert.Equal(t, filepath.Join("/repo", "third_party/maven_install.json"), resolvePath("/repo", "third_party/maven_install.json"))
	assert.Equal(t, "/abs/records.pb", resolvePath("/repo", "/abs/records.pb"))
}
