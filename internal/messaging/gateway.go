package messaging

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/apigatewaymanagementapi"
)

type postAPI interface {
	PostToConnectionWithContext(aws.Context, *apigatewaymanagementapi.PostToConnectionInput, ...request.Option) (*apigatewaymanagementapi.PostToConnectionOutput, error)
}

// GatewayChannel pushes payloads to websocket connections through the
// gateway's management endpoint.
type GatewayChannel struct {
	api postAPI
}

func NewGatewayChannel(region, callbackEndpoint string) (*GatewayChannel, error) {
	if strings.TrimSpace(callbackEndpoint) == "" {
		return nil, fmt.Errorf("callback endpoint is required")
	}
	sess := session.Must(session.NewSession(aws.NewConfig().WithRegion(region)))
	client := apigatewaymanagementapi.New(sess, aws.NewConfig().WithEndpoint(callbackEndpoint))
	return &GatewayChannel{api: client}, nil
}

func NewGatewayChannelWithAPI(api postAPI) *GatewayChannel {
	return &GatewayChannel{api: api}
}

func (c *GatewayChannel) Send(ctx context.Context, connectionID string, payload []byte) DeliveryResult {
	_, err := c.api.PostToConnectionWithContext(ctx, &apigatewaymanagementapi.PostToConnectionInput{
		ConnectionId: aws.String(connectionID),
		Data:         payload,
	})
	if err == nil {
		return DeliveryResult{Status: Delivered}
	}

	var gone *apigatewaymanagementapi.GoneException
	if errors.As(err, &gone) {
		return DeliveryResult{Status: RecipientGone}
	}
	return DeliveryResult{Status: Failed, Err: err}
}
