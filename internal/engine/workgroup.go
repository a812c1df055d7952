package engine

import (
	"context"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/athena"
)

// ResolveWorkgroup picks the effective workgroup for query submission.
// A workgroup without a configured output location would make every
// submission fail, so when the caller also supplied no explicit output
// location the resolver substitutes the fallback workgroup. Failure to
// introspect the workgroup never blocks submission: the requested name
// is returned unchanged.
func ResolveWorkgroup(ctx context.Context, api API, requested, explicitOutput, fallback string) string {
	if requested == "" {
		return ""
	}
	if explicitOutput != "" {
		return requested
	}

	out, err := api.GetWorkGroupWithContext(ctx, &athena.GetWorkGroupInput{
		WorkGroup: aws.String(requested),
	})
	if err != nil {
		return requested
	}

	wg := out.WorkGroup
	if wg != nil && wg.Configuration != nil && wg.Configuration.ResultConfiguration != nil &&
		aws.StringValue(wg.Configuration.ResultConfiguration.OutputLocation) != "" {
		return requested
	}

	if fallback == "" {
		fallback = "primary"
	}
	return fallback
}
