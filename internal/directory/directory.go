// Package directory wraps the managed identity directory: paginated
// user listings plus the lookups the analyst agent's tools need.
package directory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/cognitoidentityprovider"
)

// MaxListLimit is the directory's own listing cap.
const MaxListLimit = 60

const DefaultListLimit = 20

var ErrNotFound = errors.New("user not found")

// ConfigurationError reports a missing required setting, e.g. the user
// pool id. It is surfaced to the caller and never retried.
type ConfigurationError struct {
	Setting string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("directory setting %s is not configured", e.Setting)
}

// API is the subset of the directory service this package uses.
type API interface {
	ListUsersWithContext(aws.Context, *cognitoidentityprovider.ListUsersInput, ...request.Option) (*cognitoidentityprovider.ListUsersOutput, error)
}

func NewCognitoAPI(region string) API {
	sess := session.Must(session.NewSession(aws.NewConfig().WithRegion(region)))
	return cognitoidentityprovider.New(sess)
}

type Directory struct {
	API        API
	UserPoolID string
}

// User is the lean listing payload.
type User struct {
	Username    string  `json:"username"`
	Status      string  `json:"status"`
	Enabled     bool    `json:"enabled"`
	CreatedAt   *string `json:"createdAt"`
	UpdatedAt   *string `json:"updatedAt"`
	Email       *string `json:"email"`
	PhoneNumber *string `json:"phone_number"`
	GivenName   *string `json:"given_name"`
	FamilyName  *string `json:"family_name"`
}

type UserPage struct {
	Items     []User `json:"items"`
	Count     int    `json:"count"`
	Limit     int    `json:"limit"`
	NextToken string `json:"nextToken,omitempty"`
}

// Identity is the email-lookup result.
type Identity struct {
	UserID        string  `json:"userId"`
	Sub           *string `json:"sub"`
	EmailVerified *string `json:"email_verified"`
}

// Profile is the subject-id-lookup result.
type Profile struct {
	GivenName  *string `json:"firstName"`
	FamilyName *string `json:"lastName"`
	Email      *string `json:"email"`
}

// ListUsers pages through the pool with the directory's native token.
// The token is the provider's and is passed through opaquely.
func (d *Directory) ListUsers(ctx context.Context, limit int, paginationToken string) (UserPage, error) {
	if d.UserPoolID == "" {
		return UserPage{}, &ConfigurationError{Setting: "COGNITO_USER_POOL_ID"}
	}
	limit = clampListLimit(limit)

	input := &cognitoidentityprovider.ListUsersInput{
		UserPoolId: aws.String(d.UserPoolID),
		Limit:      aws.Int64(int64(limit)),
	}
	if paginationToken != "" {
		input.PaginationToken = aws.String(paginationToken)
	}

	out, err := d.API.ListUsersWithContext(ctx, input)
	if err != nil {
		return UserPage{}, fmt.Errorf("list users: %w", err)
	}

	items := make([]User, 0, len(out.Users))
	for _, raw := range out.Users {
		items = append(items, leanUser(raw))
	}
	return UserPage{
		Items:     items,
		Count:     len(items),
		Limit:     limit,
		NextToken: aws.StringValue(out.PaginationToken),
	}, nil
}

// LookupByEmail resolves the directory id for an email address.
func (d *Directory) LookupByEmail(ctx context.Context, email string) (Identity, error) {
	user, err := d.findOne(ctx, fmt.Sprintf("email = %q", email))
	if err != nil {
		return Identity{}, err
	}
	attrs := attributeMap(user.Attributes)
	return Identity{
		UserID:        aws.StringValue(user.Username),
		Sub:           attrs["sub"],
		EmailVerified: attrs["email_verified"],
	}, nil
}

// LookupBySub resolves a user's profile by subject id.
func (d *Directory) LookupBySub(ctx context.Context, sub string) (Profile, error) {
	user, err := d.findOne(ctx, fmt.Sprintf("sub = %q", sub))
	if err != nil {
		return Profile{}, err
	}
	attrs := attributeMap(user.Attributes)
	return Profile{
		GivenName:  attrs["given_name"],
		FamilyName: attrs["family_name"],
		Email:      attrs["email"],
	}, nil
}

func (d *Directory) findOne(ctx context.Context, filter string) (*cognitoidentityprovider.UserType, error) {
	if d.UserPoolID == "" {
		return nil, &ConfigurationError{Setting: "COGNITO_USER_POOL_ID"}
	}
	out, err := d.API.ListUsersWithContext(ctx, &cognitoidentityprovider.ListUsersInput{
		UserPoolId: aws.String(d.UserPoolID),
		Filter:     aws.String(filter),
		Limit:      aws.Int64(1),
	})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	if len(out.Users) == 0 {
		return nil, ErrNotFound
	}
	return out.Users[0], nil
}

func leanUser(raw *cognitoidentityprovider.UserType) User {
	attrs := attributeMap(raw.Attributes)
	return User{
		Username:    aws.StringValue(raw.Username),
		Status:      aws.StringValue(raw.UserStatus),
		Enabled:     aws.BoolValue(raw.Enabled),
		CreatedAt:   isoTime(raw.UserCreateDate),
		UpdatedAt:   isoTime(raw.UserLastModifiedDate),
		Email:       attrs["email"],
		PhoneNumber: attrs["phone_number"],
		GivenName:   attrs["given_name"],
		FamilyName:  attrs["family_name"],
	}
}

func attributeMap(attributes []*cognitoidentityprovider.AttributeType) map[string]*string {
	attrs := make(map[string]*string, len(attributes))
	for _, attribute := range attributes {
		if attribute == nil || attribute.Name == nil {
			continue
		}
		attrs[*attribute.Name] = attribute.Value
	}
	return attrs
}

func isoTime(value *time.Time) *string {
	if value == nil {
		return nil
	}
	formatted := value.UTC().Format(time.RFC3339)
	return &formatted
}

func clampListLimit(limit int) int {
	if limit < 1 {
		return 1
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}
