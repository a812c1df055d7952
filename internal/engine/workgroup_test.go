package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/athena"
)

func workgroupWithOutput(location string) *athena.GetWorkGroupOutput {
	var output *string
	if location != "" {
		output = aws.String(location)
	}
	return &athena.GetWorkGroupOutput{
		WorkGroup: &athena.WorkGroup{
			Configuration: &athena.WorkGroupConfiguration{
				ResultConfiguration: &athena.ResultConfiguration{OutputLocation: output},
			},
		},
	}
}

func TestResolveWorkgroup(t *testing.T) {
	tests := []struct {
		name           string
		requested      string
		explicitOutput string
		api            *fakeAPI
		want           string
	}{
		{
			name:      "empty requested stays empty",
			requested: "",
			api:       &fakeAPI{},
			want:      "",
		},
		{
			name:           "explicit output skips introspection",
			requested:      "analytics",
			explicitOutput: "s3://results/",
			api:            &fakeAPI{workgroupErr: errors.New("must not be called")},
			want:           "analytics",
		},
		{
			name:      "configured output keeps requested",
			requested: "analytics",
			api:       &fakeAPI{workgroupOut: workgroupWithOutput("s3://wg-results/")},
			want:      "analytics",
		},
		{
			name:      "missing output falls back",
			requested: "analytics",
			api:       &fakeAPI{workgroupOut: workgroupWithOutput("")},
			want:      "primary",
		},
		{
			name:      "introspection error keeps requested",
			requested: "analytics",
			api:       &fakeAPI{workgroupErr: errors.New("access denied")},
			want:      "analytics",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveWorkgroup(context.Background(), tt.api, tt.requested, tt.explicitOutput, "primary")
			if got != tt.want {
				t.Fatalf("ResolveWorkgroup = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveWorkgroupDefaultFallback(t *testing.T) {
	api := &fakeAPI{workgroupOut: workgroupWithOutput("")}
	got := ResolveWorkgroup(context.Background(), api, "analytics", "", "")
	if got != "primary" {
		t.Fatalf("ResolveWorkgroup = %q, want primary", got)
	}
}
