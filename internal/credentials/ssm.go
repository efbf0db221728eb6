package credentials

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
)

type ssmAPI interface {
	GetParameter(ctx context.Context, in *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
	PutParameter(ctx context.Context, in *ssm.PutParameterInput, optFns ...func(*ssm.Options)) (*ssm.PutParameterOutput, error)
}

// SSMStore keeps secrets in AWS Systems Manager Parameter Store as
// SecureString parameters. The AWS client is created on first use.
type SSMStore struct {
	Region string
	client ssmAPI
}

func NewSSMStore(region string) *SSMStore {
	return &SSMStore{Region: strings.TrimSpace(region)}
}

func (s *SSMStore) Name() string {
	return "ssm"
}

func (s *SSMStore) Get(ctx context.Context, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("credential ref is required")
	}
	client, err := s.api(ctx)
	if err != nil {
		return "", err
	}
	out, err := client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(ref),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		var notFound *types.ParameterNotFound
		if errors.As(err, &notFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("get parameter %s: %w", ref, err)
	}
	if out.Parameter == nil || aws.ToString(out.Parameter.Value) == "" {
		return "", ErrNotFound
	}
	return aws.ToString(out.Parameter.Value), nil
}

func (s *SSMStore) Set(ctx context.Context, ref, value string) error {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return fmt.Errorf("credential ref is required")
	}
	if value == "" {
		return fmt.Errorf("credential value is required")
	}
	client, err := s.api(ctx)
	if err != nil {
		return err
	}
	_, err = client.PutParameter(ctx, &ssm.PutParameterInput{
		Name:      aws.String(ref),
		Value:     aws.String(value),
		Type:      types.ParameterTypeSecureString,
		Overwrite: aws.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("put parameter %s: %w", ref, err)
	}
	return nil
}

func (s *SSMStore) api(ctx context.Context) (ssmAPI, error) {
	if s.client != nil {
		return s.client, nil
	}
	var opts []func(*awsconfig.LoadOptions) error
	if s.Region != "" {
		opts = append(opts, awsconfig.WithRegion(s.Region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	s.client = ssm.NewFromConfig(cfg)
	return s.client, nil
}
