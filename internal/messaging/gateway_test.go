package messaging

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/apigatewaymanagementapi"
)

type fakePostAPI struct {
	lastInput *apigatewaymanagementapi.PostToConnectionInput
	err       error
}

func (f *fakePostAPI) PostToConnectionWithContext(_ aws.Context, input *apigatewaymanagementapi.PostToConnectionInput, _ ...request.Option) (*apigatewaymanagementapi.PostToConnectionOutput, error) {
	f.lastInput = input
	if f.err != nil {
		return nil, f.err
	}
	return &apigatewaymanagementapi.PostToConnectionOutput{}, nil
}

func TestGatewaySendDelivered(t *testing.T) {
	api := &fakePostAPI{}
	channel := NewGatewayChannelWithAPI(api)

	result := channel.Send(context.Background(), "conn-1", []byte(`{"type":"chat_response"}`))
	if result.Status != Delivered {
		t.Fatalf("status = %v", result.Status)
	}
	if got := aws.StringValue(api.lastInput.ConnectionId); got != "conn-1" {
		t.Fatalf("connectionID = %q", got)
	}
	if string(api.lastInput.Data) != `{"type":"chat_response"}` {
		t.Fatalf("data = %s", api.lastInput.Data)
	}
}

func TestGatewaySendGoneRecipient(t *testing.T) {
	api := &fakePostAPI{err: &apigatewaymanagementapi.GoneException{}}
	channel := NewGatewayChannelWithAPI(api)

	result := channel.Send(context.Background(), "conn-gone", nil)
	if result.Status != RecipientGone {
		t.Fatalf("status = %v", result.Status)
	}
	if result.Err != nil {
		t.Fatalf("err = %v, want nil", result.Err)
	}
}

func TestGatewaySendFailure(t *testing.T) {
	api := &fakePostAPI{err: errors.New("limit exceeded")}
	channel := NewGatewayChannelWithAPI(api)

	result := channel.Send(context.Background(), "conn-1", nil)
	if result.Status != Failed {
		t.Fatalf("status = %v", result.Status)
	}
	if result.Err == nil {
		t.Fatal("err should carry the cause")
	}
}

func TestNewGatewayChannelRequiresEndpoint(t *testing.T) {
	if _, err := NewGatewayChannel("us-east-1", "  "); err == nil {
		t.Fatal("expected error for blank endpoint")
	}
}
